package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Push(t *testing.T) {
	ctx := context.Background()

	t.Run("posts chunk under collection key", func(t *testing.T) {
		var gotPath string
		var gotBody map[string][]syncrec.Customer
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(PushResult{Count: 2})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		records := []syncrec.Record{
			syncrec.Customer{LegacyID: "1", CustomerNumber: "100", Name: "ACME"},
			syncrec.Customer{LegacyID: "2", CustomerNumber: "101", Name: "Bravo"},
		}
		count, err := client.Push(ctx, syncrec.CollectionCustomers, records)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, "/api/v1/sync/customers", gotPath)
		require.Len(t, gotBody["customers"], 2)
		assert.Equal(t, "ACME", gotBody["customers"][0].Name)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.Push(ctx, syncrec.CollectionInvoices, []syncrec.Record{syncrec.Invoice{InvoiceNumber: "1"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("unknown collection is an error", func(t *testing.T) {
		client := NewClient("http://localhost:1", time.Second)
		_, err := client.Push(ctx, syncrec.Collection("bogus"), nil)
		require.Error(t, err)
	})
}

func TestClient_Runs(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sync/runs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "run-42"})
	})
	var gotSummary RunSummary
	mux.HandleFunc("PUT /api/v1/sync/runs/run-42/complete", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotSummary))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	id, err := client.OpenRun(ctx, "shop-pc-01")
	require.NoError(t, err)
	assert.Equal(t, "run-42", id)

	err = client.CompleteRun(ctx, id, RunSummary{RecordsExtracted: 10, RecordsApplied: 7})
	require.NoError(t, err)
	assert.Equal(t, 10, gotSummary.RecordsExtracted)
	assert.Equal(t, 7, gotSummary.RecordsApplied)
}

func TestLogShipper_NeverFails(t *testing.T) {
	ctx := context.Background()

	t.Run("ships to logs endpoint", func(t *testing.T) {
		var got map[string]json.RawMessage
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/sync/logs", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		shipper := NewLogShipper(srv.URL, time.Second, zap.NewNop())
		shipper.Ship(ctx, LogLine{Level: "info", Message: "run started", Context: LogContext{AgentHost: "shop-pc-01"}})

		assert.JSONEq(t, `"run started"`, string(got["message"]))
		require.Contains(t, got, "context")
		var logCtx LogContext
		require.NoError(t, json.Unmarshal(got["context"], &logCtx))
		assert.Equal(t, "shop-pc-01", logCtx.AgentHost)
	})

	t.Run("unreachable service does not panic or block", func(t *testing.T) {
		shipper := NewLogShipper("http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())
		shipper.Ship(ctx, LogLine{Level: "warn", Message: "lost"})
	})
}

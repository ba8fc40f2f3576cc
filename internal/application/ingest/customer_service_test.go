package ingest

import (
	"context"
	"testing"

	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCustomerService_IngestBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and then updates in place", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := NewCustomerService(repo, zap.NewNop())

		rec := syncrec.Customer{LegacyID: "12", CustomerNumber: "500", Name: "ACME Towing"}
		applied, err := svc.IngestBatch(ctx, []syncrec.Customer{rec})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)

		created, err := repo.FindByNaturalKey(ctx, synckey.Customer("500"))
		require.NoError(t, err)
		firstID := created.ID

		rec.Phone = "555-0100"
		applied, err = svc.IngestBatch(ctx, []syncrec.Customer{rec})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)

		updated, err := repo.FindByNaturalKey(ctx, synckey.Customer("500"))
		require.NoError(t, err)
		assert.Equal(t, firstID, updated.ID)
		assert.Equal(t, "555-0100", updated.Phone)
		assert.Len(t, repo.rows, 1)
	})

	t.Run("materializes a placeholder under the same row", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := NewCustomerService(repo, zap.NewNop())

		key := synckey.Customer("500")
		placeholder := partner.NewPlaceholderCustomer(key, "500")
		require.NoError(t, repo.Save(ctx, placeholder))

		applied, err := svc.IngestBatch(ctx, []syncrec.Customer{
			{LegacyID: "12", CustomerNumber: "500", Name: "ACME Towing"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)

		got, err := repo.FindByNaturalKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, placeholder.ID, got.ID)
		assert.False(t, got.IsPlaceholder)
		assert.Equal(t, "ACME Towing", got.Name)
		assert.Equal(t, "12", got.LegacyID)
	})

	t.Run("mangles a colliding key deterministically", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := NewCustomerService(repo, zap.NewNop())

		first := syncrec.Customer{LegacyID: "12", CustomerNumber: "500", Name: "ACME Towing"}
		second := syncrec.Customer{LegacyID: "99", CustomerNumber: "500", Name: "Apex Towing"}

		applied, err := svc.IngestBatch(ctx, []syncrec.Customer{first, second})
		require.NoError(t, err)
		assert.Equal(t, 2, applied)
		assert.Len(t, repo.rows, 2)

		organic, err := repo.FindByNaturalKey(ctx, synckey.Customer("500"))
		require.NoError(t, err)
		assert.Equal(t, "ACME Towing", organic.Name)

		mangledKey := synckey.Mangle(synckey.Customer("500"), "99")
		mangled, err := repo.FindByNaturalKey(ctx, mangledKey)
		require.NoError(t, err)
		assert.Equal(t, "Apex Towing", mangled.Name)

		// rerunning the colliding record lands on the same mangled row
		second.Phone = "555-0199"
		_, err = svc.IngestBatch(ctx, []syncrec.Customer{second})
		require.NoError(t, err)
		assert.Len(t, repo.rows, 2)
		remangled, err := repo.FindByNaturalKey(ctx, mangledKey)
		require.NoError(t, err)
		assert.Equal(t, "555-0199", remangled.Phone)
	})

	t.Run("collision is logged as a warning", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		core, recorded := observer.New(zapcore.WarnLevel)
		svc := NewCustomerService(repo, zap.New(core))

		applied, err := svc.IngestBatch(ctx, []syncrec.Customer{
			{LegacyID: "12", CustomerNumber: "500", Name: "ACME Towing"},
			{LegacyID: "99", CustomerNumber: "500", Name: "Apex Towing"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, applied)

		entries := recorded.FilterMessage("natural key collision").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

		fields := entries[0].ContextMap()
		assert.Equal(t, string(syncrec.CollectionCustomers), fields["collection"])
		assert.Equal(t, synckey.Customer("500"), fields["natural_key"])
		assert.Equal(t, synckey.Mangle(synckey.Customer("500"), "99"), fields["mangled_key"])
		assert.Equal(t, "12", fields["existing_legacy_id"])
		assert.Equal(t, "99", fields["incoming_legacy_id"])
	})

	t.Run("invalid record is skipped without failing the batch", func(t *testing.T) {
		repo := newFakeCustomerRepo()
		svc := NewCustomerService(repo, zap.NewNop())

		applied, err := svc.IngestBatch(ctx, []syncrec.Customer{
			{LegacyID: "1", CustomerNumber: "", Name: "No Number"},
			{LegacyID: "2", CustomerNumber: "501", Name: "Valid"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)
		assert.Len(t, repo.rows, 1)
	})
}

package legacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReader(t *testing.T) (*Reader, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReader(db, 5*time.Second, zap.NewNop()), mock
}

func TestReadCustomers(t *testing.T) {
	t.Run("reads all rows from primary table", func(t *testing.T) {
		reader, mock := newTestReader(t)

		rows := sqlmock.NewRows([]string{
			"cust_id", "cust_no", "cust_name", "contact", "phone", "email",
			"address", "city", "state", "zip", "site_code",
		}).AddRow("12", "500", "ACME", "Pat", "555-0100", "pat@acme.test",
			"1 Main St", "Springfield", "IL", "62701", "01")

		mock.ExpectQuery(`SELECT .+ FROM customer$`).WillReturnRows(rows)

		out, err := reader.ReadCustomers(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "500", out[0].CustNo)
		assert.Equal(t, "ACME", out[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by inclusion list", func(t *testing.T) {
		reader, mock := newTestReader(t)

		mock.ExpectQuery(`SELECT .+ FROM customer WHERE cust_no = ANY\(\$1\)`).
			WithArgs(pq.Array([]string{"500", "501"})).
			WillReturnRows(sqlmock.NewRows([]string{
				"cust_id", "cust_no", "cust_name", "contact", "phone", "email",
				"address", "city", "state", "zip", "site_code",
			}))

		_, err := reader.ReadCustomers(context.Background(), []string{"500", "501"})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to secondary table name", func(t *testing.T) {
		reader, mock := newTestReader(t)

		mock.ExpectQuery(`SELECT .+ FROM customer$`).
			WillReturnError(errors.New(`relation "customer" does not exist`))
		mock.ExpectQuery(`SELECT .+ FROM customers$`).
			WillReturnRows(sqlmock.NewRows([]string{
				"cust_id", "cust_no", "cust_name", "contact", "phone", "email",
				"address", "city", "state", "zip", "site_code",
			}).AddRow("12", "500", "ACME", nil, nil, nil, nil, nil, nil, nil, nil))

		out, err := reader.ReadCustomers(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not fall back on context cancellation", func(t *testing.T) {
		reader, mock := newTestReader(t)

		mock.ExpectQuery(`SELECT .+ FROM customer$`).
			WillReturnError(context.DeadlineExceeded)

		_, err := reader.ReadCustomers(context.Background(), nil)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReadInvoiceLines(t *testing.T) {
	t.Run("scans detail rows", func(t *testing.T) {
		reader, mock := newTestReader(t)

		rows := sqlmock.NewRows([]string{
			"line_id", "inv_no", "site_code", "line_no", "part_no", "descr",
			"size", "line_type", "qty", "price", "cost", "taxable",
		}).AddRow("9001", "INV-1", "01", 1, "P-100", "Tire", "225/60R16", "part", 2.0, 10.0, 6.0, true)

		mock.ExpectQuery(`SELECT .+ FROM invoice_detail$`).WillReturnRows(rows)

		out, err := reader.ReadInvoiceLines(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "INV-1", out[0].InvNo)
		assert.Equal(t, 1, out[0].LineNo)
		assert.True(t, out[0].Taxable.Bool)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package sqlite

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newStoreFromDB(sqlx.NewDb(db, "sqlite")), mock
}

func TestMockGetTenantNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM tenants WHERE id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Tenants().GetTenantByID(t.Context(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockUpdateOtherTenantAffectsNothing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE products SET stock_quantity = \?`).
		WithArgs(5, sqlmock.AnyArg(), "tenant-b", "prod-a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Products().SetStock(t.Context(), "tenant-b", "prod-a", 5)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockUniqueViolationMapsToAlreadyExists(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO suppliers`).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: suppliers.id (1555)"))

	err := s.Suppliers().CreateSupplier(t.Context(), domain.Supplier{ID: "s1", TenantID: "t1", Kind: domain.SupplierPurchase})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockWithTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.WithTx(t.Context(), func(store.Tx) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMockWebhookDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO webhook_events`).WillReturnResult(sqlmock.NewResult(0, 0))

	fresh, err := s.WebhookEvents().MarkProcessed(t.Context(), domain.WebhookEvent{ID: "evt_1", Type: "invoice.paid"})
	require.NoError(t, err)
	require.False(t, fresh)
	require.NoError(t, mock.ExpectationsWereMet())
}

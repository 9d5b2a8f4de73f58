package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

type txStore struct {
	tx *sqlx.Tx
}

func newTx(tx *sqlx.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error               { return nil }
func (t *txStore) Ping(context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error     { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error { return sql.ErrTxDone }

func (t *txStore) Tenants() store.Tenants               { return &tenantsRepo{q: t.tx} }
func (t *txStore) Users() store.Users                   { return &usersRepo{q: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens   { return &refreshTokensRepo{q: t.tx} }
func (t *txStore) Sequences() store.Sequences           { return &sequencesRepo{q: t.tx} }
func (t *txStore) Products() store.Products             { return &productsRepo{q: t.tx} }
func (t *txStore) Movements() store.Movements           { return &movementsRepo{q: t.tx} }
func (t *txStore) Suppliers() store.Suppliers           { return &suppliersRepo{q: t.tx} }
func (t *txStore) Payouts() store.Payouts               { return &payoutsRepo{q: t.tx} }
func (t *txStore) PurchaseOrders() store.PurchaseOrders { return &purchaseOrdersRepo{q: t.tx} }
func (t *txStore) Customers() store.Customers           { return &customersRepo{q: t.tx} }
func (t *txStore) Orders() store.Orders                 { return &ordersRepo{q: t.tx} }
func (t *txStore) Invoices() store.Invoices             { return &invoicesRepo{q: t.tx} }
func (t *txStore) Reports() store.Reports               { return &reportsRepo{q: t.tx} }
func (t *txStore) WebhookEvents() store.WebhookEvents   { return &webhookEventsRepo{q: t.tx} }

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
)

type Store struct {
	db  *sqlx.DB
	dsn string
}

var _ store.Store = (*Store)(nil)

// NewStore opens a SQLite database. Foreign keys are enforced, times are
// written in SQLite's own format so they compare lexically, and the pool is
// pinned to a single connection: SQLite has one writer anyway and
// ":memory:" databases are per connection.
func NewStore(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func newStoreFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx runs fn within a transaction, committing when it returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	start := time.Now()
	defer func() { metricsx.RecordDBLatency(ctx, "tx", time.Since(start)) }()

	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Tenants() store.Tenants               { return &tenantsRepo{q: s.db} }
func (s *Store) Users() store.Users                   { return &usersRepo{q: s.db} }
func (s *Store) RefreshTokens() store.RefreshTokens   { return &refreshTokensRepo{q: s.db} }
func (s *Store) Sequences() store.Sequences           { return &sequencesRepo{q: s.db} }
func (s *Store) Products() store.Products             { return &productsRepo{q: s.db} }
func (s *Store) Movements() store.Movements           { return &movementsRepo{q: s.db} }
func (s *Store) Suppliers() store.Suppliers           { return &suppliersRepo{q: s.db} }
func (s *Store) Payouts() store.Payouts               { return &payoutsRepo{q: s.db} }
func (s *Store) PurchaseOrders() store.PurchaseOrders { return &purchaseOrdersRepo{q: s.db} }
func (s *Store) Customers() store.Customers           { return &customersRepo{q: s.db} }
func (s *Store) Orders() store.Orders                 { return &ordersRepo{q: s.db} }
func (s *Store) Invoices() store.Invoices             { return &invoicesRepo{q: s.db} }
func (s *Store) Reports() store.Reports               { return &reportsRepo{q: s.db} }
func (s *Store) WebhookEvents() store.WebhookEvents   { return &webhookEventsRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns unique violations into store.ErrAlreadyExists and
// foreign key violations into store.ErrInUse.
func mapConstraint(err error) error {
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return store.ErrAlreadyExists
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return store.ErrInUse
	}
	return err
}

// mustAffect reports ErrNotFound when an UPDATE or DELETE matched nothing,
// which is how tenant scoping shows up for ids of another tenant.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nowUTC() time.Time { return time.Now().UTC() }

// page applies default and maximum page sizes.
func page(limit, offset int) (int, int) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

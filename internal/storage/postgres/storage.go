package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Options describes how to reach the order store.
type Options struct {
	URL     string
	APIKey  string
	Channel string
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool    pgxPool
	listen  listenerFunc
	channel string
	logger  *slog.Logger
}

type driverRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New connects to the store and initializes schema and change trigger.
// The API key is used as the connection password.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse store url: %v", domainErrors.ErrConfiguration, err)
	}
	if opts.APIKey != "" {
		cfg.ConnConfig.Password = opts.APIKey
	}
	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "driverdesk"

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, domainErrors.NewStoreError("connect", err)
	}

	storage := &Storage{
		pool:    pool,
		channel: opts.Channel,
		logger:  logger.With(slog.String("component", "postgres")),
	}
	if p, ok := pool.(*pgxpool.Pool); ok {
		storage.listen = poolListener(p)
	}

	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

var _ repository.Factory = (*Storage)(nil)

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Drivers() repository.DriverRepository {
	return &driverRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Changes() repository.ChangeFeed {
	return &changeFeed{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS drivers (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            contact_info TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'available',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS restaurants (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS inventory_requests (
            id BIGSERIAL PRIMARY KEY,
            item_id BIGINT REFERENCES items(id) ON DELETE SET NULL,
            restaurant_id BIGINT REFERENCES restaurants(id) ON DELETE SET NULL,
            quantity DOUBLE PRECISION NOT NULL CHECK (quantity > 0),
            unit TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            notes TEXT,
            called_driver BOOLEAN NOT NULL DEFAULT FALSE,
            driver_accepted BOOLEAN NOT NULL DEFAULT FALSE,
            accepted_driver_id TEXT REFERENCES drivers(id) ON DELETE SET NULL,
            code TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_requests_called ON inventory_requests(created_at) WHERE called_driver`,
		`CREATE OR REPLACE FUNCTION inventory_requests_notify() RETURNS trigger AS $$
        BEGIN
            IF TG_OP = 'DELETE' THEN
                IF OLD.called_driver THEN
                    PERFORM pg_notify(TG_ARGV[0], json_build_object('op', TG_OP, 'id', OLD.id)::text);
                END IF;
                RETURN OLD;
            END IF;
            IF NEW.called_driver OR (TG_OP = 'UPDATE' AND OLD.called_driver) THEN
                PERFORM pg_notify(TG_ARGV[0], json_build_object('op', TG_OP, 'id', NEW.id)::text);
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,
		`CREATE OR REPLACE TRIGGER inventory_requests_notify
            AFTER INSERT OR UPDATE OR DELETE ON inventory_requests
            FOR EACH ROW EXECUTE FUNCTION inventory_requests_notify(` + quoteLiteral(s.channel) + `)`,
	}

	err := s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domainErrors.NewStoreError("init schema", err)
	}
	return nil
}

// quoteLiteral renders s as a SQL string literal. Trigger arguments cannot be bound parameters.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// --- DriverRepository implementation ---

func (r *driverRepository) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	const query = `SELECT id, name, contact_info, status, created_at FROM drivers WHERE id=$1`
	var d model.Driver
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.ContactInfo, &d.Status, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, domainErrors.NewStoreError("get driver", err)
	}
	return &d, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) ListCalled(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT r.id, r.quantity, r.unit, r.status, r.notes, r.called_driver, r.driver_accepted,
                          r.accepted_driver_id, r.code, i.name, rs.name, r.created_at
                   FROM inventory_requests r
                   LEFT JOIN items i ON i.id = r.item_id
                   LEFT JOIN restaurants rs ON rs.id = r.restaurant_id
                   WHERE r.called_driver = true
                   ORDER BY r.created_at, r.id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, domainErrors.NewStoreError("list called orders", err)
	}
	defer rows.Close()

	result := make([]model.Order, 0)
	for rows.Next() {
		var (
			o              model.Order
			itemName       *string
			restaurantName *string
		)
		if err := rows.Scan(&o.ID, &o.Quantity, &o.Unit, &o.Status, &o.Notes, &o.CalledDriver, &o.DriverAccepted,
			&o.AcceptedDriverID, &o.Code, &itemName, &restaurantName, &o.CreatedAt); err != nil {
			return nil, domainErrors.NewStoreError("list called orders", err)
		}
		o.Item = descriptor(itemName)
		o.Restaurant = descriptor(restaurantName)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domainErrors.NewStoreError("list called orders", err)
	}
	return result, nil
}

func descriptor(name *string) *model.Descriptor {
	if name == nil {
		return nil
	}
	return &model.Descriptor{Name: *name}
}

func (r *orderRepository) SetAcceptance(ctx context.Context, orderID int64, accepted bool, driverID *string) error {
	const query = `UPDATE inventory_requests SET driver_accepted=$1, accepted_driver_id=$2 WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, accepted, driverID, orderID)
	return checkSingleRow("set order acceptance", tag, err)
}

func (r *orderRepository) SetCode(ctx context.Context, orderID int64, code string) error {
	const query = `UPDATE inventory_requests SET code=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, code, orderID)
	return checkSingleRow("set order code", tag, err)
}

func checkSingleRow(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return domainErrors.NewStoreError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewStoreError(op, domainErrors.ErrNotFound)
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return domainErrors.NewStoreError("ping", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pantry-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a query matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update matched no row because
// the item's quantity or status changed underneath us. The caller retries
// with a fresh read.
var ErrConflict = errors.New("concurrent modification conflict")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateItem inserts a new inventory row. Each acquisition is its own row;
// rows of the same clean name are never merged, which is what the
// freshness-first consumption ordering depends on.
func (s *Store) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory (owner_id, raw_name, clean_name, category, quantity, unit,
		                       storage, date_added, expiry_date, status, decision_reason,
		                       price, store, barcode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, updated_at`

	return s.db.GetContext(ctx, item, query,
		item.OwnerID, item.RawName, item.CleanName, item.Category, item.Quantity,
		item.Unit, item.Storage, item.DateAdded, item.ExpiryDate, item.Status,
		item.DecisionReason, item.Price, item.Store, item.Barcode)
}

// GetItemByID retrieves an inventory item scoped to its owner.
func (s *Store) GetItemByID(ctx context.Context, id, ownerID int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM inventory WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetInStock retrieves all in-stock items for an owner, soonest expiry first.
func (s *Store) GetInStock(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM inventory WHERE owner_id = $1 AND status = $2 ORDER BY expiry_date ASC, id ASC",
		ownerID, models.ItemStatusInStock)
	return items, err
}

// GetExpiringSoon retrieves in-stock items expiring within the given number of days.
func (s *Store) GetExpiringSoon(ctx context.Context, ownerID int64, withinDays int) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM inventory
		WHERE owner_id = $1 AND status = $2
		  AND expiry_date <= NOW() + make_interval(days => $3)
		ORDER BY expiry_date ASC, id ASC`,
		ownerID, models.ItemStatusInStock, withinDays)
	return items, err
}

// FindConsumptionCandidate returns the in-stock item whose clean name
// contains term, preferring the soonest expiry date. Ties on expiry resolve
// to the lowest id, which keeps selection deterministic.
func (s *Store) FindConsumptionCandidate(ctx context.Context, ownerID int64, term string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.GetContext(ctx, &item, `
		SELECT * FROM inventory
		WHERE owner_id = $1 AND status = $2 AND clean_name LIKE '%' || $3 || '%'
		ORDER BY expiry_date ASC, id ASC
		LIMIT 1`,
		ownerID, models.ItemStatusInStock, term)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DecrementQuantity takes one unit off an in-stock item. The update is
// conditional on the quantity the caller read, so a lost decrement surfaces
// as ErrConflict instead of silently overwriting.
func (s *Store) DecrementQuantity(ctx context.Context, id, ownerID int64, expectedQty float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = quantity - 1, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND status = $3 AND quantity = $4`,
		id, ownerID, models.ItemStatusInStock, expectedQty)
	if err != nil {
		return fmt.Errorf("failed to decrement quantity: %w", err)
	}
	return requireOneRow(res)
}

// MarkConsumed transitions an item to its terminal state. The quantity is
// left at its last value; an in-stock row never holds zero. The status
// predicate makes InStock -> Consumed one-way.
func (s *Store) MarkConsumed(ctx context.Context, id, ownerID int64, expectedQty float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND status = $4 AND quantity = $5`,
		models.ItemStatusConsumed, id, ownerID, models.ItemStatusInStock, expectedQty)
	if err != nil {
		return fmt.Errorf("failed to mark consumed: %w", err)
	}
	return requireOneRow(res)
}

// DeleteItem hard-removes an item. Owner scoping prevents cross-household
// deletion.
func (s *Store) DeleteItem(ctx context.Context, id, ownerID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM inventory WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConflict
	}
	return nil
}

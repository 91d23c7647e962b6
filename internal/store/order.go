package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbmartins/estoque/internal/model"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func scanOrder(scanner interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	err := scanner.Scan(&o.ID, &o.OwnerID, &o.ItemID, &o.ItemName, &o.Quantity, &o.Requester, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const orderCols = `id, owner_id, item_id, item_name, quantity, requester, status, created_at, updated_at`

func (s *OrderStore) Create(ownerID int64, itemID, itemName string, quantity int, requester string) (*model.Order, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO orders (id, owner_id, item_id, item_name, quantity, requester) VALUES (?, ?, ?, ?, ?, ?)`,
		id, ownerID, itemID, itemName, quantity, requester,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return s.GetByID(id, ownerID)
}

func (s *OrderStore) GetByID(id string, ownerID int64) (*model.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE id = ? AND owner_id = ?`, id, ownerID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (s *OrderStore) ListByOwner(ownerID int64) ([]model.Order, error) {
	rows, err := s.db.Query(
		`SELECT `+orderCols+` FROM orders WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// ListByItem returns the pending/received orders attached to one item.
func (s *OrderStore) ListByItem(ownerID int64, itemID string) ([]model.Order, error) {
	rows, err := s.db.Query(
		`SELECT `+orderCols+` FROM orders WHERE owner_id = ? AND item_id = ? ORDER BY created_at DESC`,
		ownerID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders by item: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *OrderStore) SetStatus(id string, ownerID int64, status model.OrderStatus) (*model.Order, error) {
	switch status {
	case model.OrderStatusPending, model.OrderStatusReceived, model.OrderStatusDelivered:
	default:
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	_, err := s.db.Exec(
		`UPDATE orders SET status = ?, updated_at = datetime('now') WHERE id = ? AND owner_id = ?`,
		status, id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}
	return s.GetByID(id, ownerID)
}

func (s *OrderStore) Delete(id string, ownerID int64) error {
	_, err := s.db.Exec(`DELETE FROM orders WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

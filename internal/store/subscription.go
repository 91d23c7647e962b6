package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbmartins/estoque/internal/model"
)

type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.Subscription, error) {
	var sub model.Subscription
	err := scanner.Scan(&sub.ID, &sub.OwnerID, &sub.Publication, &sub.Subscriber, &sub.Quantity, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

const subscriptionCols = `id, owner_id, publication, subscriber, quantity, created_at`

func (s *SubscriptionStore) Create(ownerID int64, publication, subscriber string, quantity int) (*model.Subscription, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO subscriptions (id, owner_id, publication, subscriber, quantity) VALUES (?, ?, ?, ?, ?)`,
		id, ownerID, publication, subscriber, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return s.GetByID(id, ownerID)
}

func (s *SubscriptionStore) GetByID(id string, ownerID int64) (*model.Subscription, error) {
	row := s.db.QueryRow(`SELECT `+subscriptionCols+` FROM subscriptions WHERE id = ? AND owner_id = ?`, id, ownerID)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionStore) ListByOwner(ownerID int64) ([]model.Subscription, error) {
	rows, err := s.db.Query(
		`SELECT `+subscriptionCols+` FROM subscriptions WHERE owner_id = ? ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *SubscriptionStore) Update(id string, ownerID int64, publication, subscriber string, quantity int) (*model.Subscription, error) {
	_, err := s.db.Exec(
		`UPDATE subscriptions SET publication = ?, subscriber = ?, quantity = ? WHERE id = ? AND owner_id = ?`,
		publication, subscriber, quantity, id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return s.GetByID(id, ownerID)
}

func (s *SubscriptionStore) Delete(id string, ownerID int64) error {
	_, err := s.db.Exec(`DELETE FROM subscriptions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// ToggleCheck flips the received mark for one subscription-month and
// returns the new state.
func (s *SubscriptionStore) ToggleCheck(subscriptionID, month string) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM subscription_checks WHERE subscription_id = ? AND month = ?`,
		subscriptionID, month,
	)
	if err != nil {
		return false, fmt.Errorf("clear subscription check: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO subscription_checks (subscription_id, month) VALUES (?, ?)`,
		subscriptionID, month,
	)
	if err != nil {
		return false, fmt.Errorf("insert subscription check: %w", err)
	}
	return true, nil
}

// ChecksForMonth returns which of the owner's subscriptions are marked
// received for the month.
func (s *SubscriptionStore) ChecksForMonth(ownerID int64, month string) (map[string]bool, error) {
	rows, err := s.db.Query(
		`SELECT sc.subscription_id FROM subscription_checks sc
		 JOIN subscriptions s ON s.id = sc.subscription_id
		 WHERE s.owner_id = ? AND sc.month = ?`,
		ownerID, month,
	)
	if err != nil {
		return nil, fmt.Errorf("checks for month: %w", err)
	}
	defer rows.Close()

	checks := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks[id] = true
	}
	return checks, rows.Err()
}

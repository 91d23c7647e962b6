package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"

	"github.com/pbmartins/estoque/internal/model"
)

type InviteStore struct {
	db *sql.DB
}

func NewInviteStore(db *sql.DB) *InviteStore {
	return &InviteStore{db: db}
}

func scanInvite(scanner interface{ Scan(...any) error }) (*model.Invite, error) {
	var inv model.Invite
	var helperID sql.NullInt64
	err := scanner.Scan(
		&inv.Token, &inv.OwnerID, &inv.OwnerName, &inv.Label,
		&helperID, &inv.HelperName, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if helperID.Valid {
		inv.HelperID = &helperID.Int64
	}
	return &inv, nil
}

const inviteCols = `token, owner_id, owner_name, label, helper_id, helper_name, created_at`

const inviteTokenLen = 26

const inviteTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateInviteToken returns a random alphanumeric token long enough
// that collisions are negligible.
func generateInviteToken() (string, error) {
	buf := make([]byte, inviteTokenLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteTokenAlphabet[int(b)%len(inviteTokenAlphabet)]
	}
	return string(buf), nil
}

// Create inserts a pending invite for the owner and returns it.
func (s *InviteStore) Create(ownerID int64, ownerName string) (*model.Invite, error) {
	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`INSERT INTO invites (token, owner_id, owner_name, label) VALUES (?, ?, ?, ?)`,
		token, ownerID, ownerName, model.PendingLabel,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invite: %w", err)
	}
	return s.GetByToken(token)
}

func (s *InviteStore) GetByToken(token string) (*model.Invite, error) {
	row := s.db.QueryRow(`SELECT `+inviteCols+` FROM invites WHERE token = ?`, token)
	inv, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

// GetByHelper returns the accepted invite for a helper user id, or nil if
// the user is not helping anyone.
func (s *InviteStore) GetByHelper(helperID int64) (*model.Invite, error) {
	row := s.db.QueryRow(
		`SELECT `+inviteCols+` FROM invites WHERE helper_id = ? ORDER BY created_at DESC LIMIT 1`,
		helperID,
	)
	inv, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite by helper: %w", err)
	}
	return inv, nil
}

// Accept claims a pending invite for the helper.
func (s *InviteStore) Accept(token string, helperID int64, helperName, label string) error {
	_, err := s.db.Exec(
		`UPDATE invites SET helper_id = ?, helper_name = ?, label = ? WHERE token = ?`,
		helperID, helperName, label, token,
	)
	if err != nil {
		return fmt.Errorf("accept invite: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's invites, oldest first. Rows whose
// helper is the owner itself are excluded.
func (s *InviteStore) ListByOwner(ownerID int64) ([]model.Invite, error) {
	rows, err := s.db.Query(
		`SELECT `+inviteCols+` FROM invites
		 WHERE owner_id = ? AND (helper_id IS NULL OR helper_id != owner_id)
		 ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var invites []model.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

// Delete removes an invite by token, scoped to the owner. Deleting a
// missing token is not an error.
func (s *InviteStore) Delete(ownerID int64, token string) error {
	_, err := s.db.Exec(`DELETE FROM invites WHERE token = ? AND owner_id = ?`, token, ownerID)
	if err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	return nil
}

// DeleteByHelper removes every invite row linking the owner to the
// helper, cleaning up any duplicates from earlier partial failures.
func (s *InviteStore) DeleteByHelper(ownerID, helperID int64) error {
	_, err := s.db.Exec(`DELETE FROM invites WHERE owner_id = ? AND helper_id = ?`, ownerID, helperID)
	if err != nil {
		return fmt.Errorf("delete invites by helper: %w", err)
	}
	return nil
}

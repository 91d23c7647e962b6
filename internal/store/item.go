package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pbmartins/estoque/internal/model"
)

// ErrDuplicateName means the owner already has a custom item with that
// name in the category.
var ErrDuplicateName = errors.New("já existe um item com esse nome")

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.CustomItem, error) {
	var ci model.CustomItem
	err := scanner.Scan(&ci.ID, &ci.OwnerID, &ci.Name, &ci.Code, &ci.Abbr, &ci.Category, &ci.SortOrder, &ci.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

const itemCols = `id, owner_id, name, code, abbr, category, sort_order, created_at`

// nameExists reports whether the owner already uses the name in the
// category, ignoring case and the item being edited. Blank names are
// never duplicates; they are placeholder rows DeleteUnnamed collects.
func (s *ItemStore) nameExists(ownerID int64, category, name, excludeID string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM custom_items WHERE owner_id = ? AND category = ? AND name = ? COLLATE NOCASE AND id != ?`,
		ownerID, category, name, excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check duplicate name: %w", err)
	}
	return n > 0, nil
}

// Create adds a custom item at the end of its category. Names must be
// unique per owner within a category.
func (s *ItemStore) Create(ownerID int64, name, code, abbr, category string) (*model.CustomItem, error) {
	if dup, err := s.nameExists(ownerID, category, name, ""); err != nil {
		return nil, err
	} else if dup {
		return nil, ErrDuplicateName
	}

	var maxOrder sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(sort_order) FROM custom_items WHERE owner_id = ? AND category = ?`,
		ownerID, category,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("max sort order: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO custom_items (id, owner_id, name, code, abbr, category, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, name, code, abbr, category, maxOrder.Int64+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert custom item: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) GetByID(id string) (*model.CustomItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM custom_items WHERE id = ?`, id)
	ci, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get custom item: %w", err)
	}
	return ci, nil
}

func (s *ItemStore) Update(id string, name, code, abbr, category string) (*model.CustomItem, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if dup, err := s.nameExists(existing.OwnerID, category, name, id); err != nil {
		return nil, err
	} else if dup {
		return nil, ErrDuplicateName
	}

	_, err = s.db.Exec(
		`UPDATE custom_items SET name = ?, code = ?, abbr = ?, category = ? WHERE id = ?`,
		name, code, abbr, category, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update custom item: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM custom_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete custom item: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's custom items in display order:
// category, then sort order, with creation time and id as tie-breaks so
// the order is deterministic.
func (s *ItemStore) ListByOwner(ownerID int64) ([]model.CustomItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM custom_items WHERE owner_id = ?
		 ORDER BY category ASC, sort_order ASC, created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list custom items: %w", err)
	}
	defer rows.Close()

	var items []model.CustomItem
	for rows.Next() {
		ci, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom item: %w", err)
		}
		items = append(items, *ci)
	}
	return items, rows.Err()
}

// SwapOrder exchanges the sort order of two sibling items in a single
// transaction, so a failure can never leave the list half-swapped.
func (s *ItemStore) SwapOrder(ownerID int64, idA, idB string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var orderA, orderB int
	if err := tx.QueryRow(`SELECT sort_order FROM custom_items WHERE id = ? AND owner_id = ?`, idA, ownerID).Scan(&orderA); err != nil {
		return fmt.Errorf("read sort order %s: %w", idA, err)
	}
	if err := tx.QueryRow(`SELECT sort_order FROM custom_items WHERE id = ? AND owner_id = ?`, idB, ownerID).Scan(&orderB); err != nil {
		return fmt.Errorf("read sort order %s: %w", idB, err)
	}

	if _, err := tx.Exec(`UPDATE custom_items SET sort_order = ? WHERE id = ?`, orderB, idA); err != nil {
		return fmt.Errorf("swap sort order %s: %w", idA, err)
	}
	if _, err := tx.Exec(`UPDATE custom_items SET sort_order = ? WHERE id = ?`, orderA, idB); err != nil {
		return fmt.Errorf("swap sort order %s: %w", idB, err)
	}

	return tx.Commit()
}

// DeleteUnnamed garbage-collects items whose name was cleared, run on
// sheet load.
func (s *ItemStore) DeleteUnnamed(ownerID int64) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM custom_items WHERE owner_id = ? AND TRIM(name) = ''`,
		ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete unnamed items: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

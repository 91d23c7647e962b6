package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pbmartins/estoque/internal/model"
)

// Quantity field names accepted by SetQuantity.
const (
	FieldPrevious = "previous"
	FieldReceived = "received"
	FieldCurrent  = "current"
)

var recordColumns = map[string]string{
	FieldPrevious: "previous_qty",
	FieldReceived: "received_qty",
	FieldCurrent:  "current_qty",
}

type RecordStore struct {
	db *sql.DB
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func scanRecord(scanner interface{ Scan(...any) error }) (*model.Record, error) {
	var r model.Record
	var ext string
	err := scanner.Scan(&r.OwnerID, &r.Month, &r.ItemID, &r.Previous, &r.Received, &r.Current, &ext, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if ext != "" && ext != "{}" {
		if err := json.Unmarshal([]byte(ext), &r.Extensions); err != nil {
			return nil, fmt.Errorf("decode extensions: %w", err)
		}
	}
	return &r, nil
}

const recordCols = `owner_id, month, item_id, previous_qty, received_qty, current_qty, extensions, updated_at`

func (s *RecordStore) Get(ownerID int64, month, itemID string) (*model.Record, error) {
	row := s.db.QueryRow(
		`SELECT `+recordCols+` FROM records WHERE owner_id = ? AND month = ? AND item_id = ?`,
		ownerID, month, itemID,
	)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

// SetQuantity merge-upserts a single quantity field for one item-month.
// Fields not named in the write keep their stored values; a fresh record
// starts all quantities at zero.
func (s *RecordStore) SetQuantity(ownerID int64, month, itemID, field string, value int) (*model.Record, error) {
	col, ok := recordColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown quantity field %q", field)
	}

	query := fmt.Sprintf(
		`INSERT INTO records (owner_id, month, item_id, %s, updated_at) VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(owner_id, month, item_id) DO UPDATE SET %s = excluded.%s, updated_at = datetime('now')`,
		col, col, col,
	)
	if _, err := s.db.Exec(query, ownerID, month, itemID, value); err != nil {
		return nil, fmt.Errorf("set %s: %w", field, err)
	}
	return s.Get(ownerID, month, itemID)
}

// SetExtensions merge-upserts the open extensions map for one item-month.
func (s *RecordStore) SetExtensions(ownerID int64, month, itemID string, ext map[string]string) error {
	data, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("encode extensions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO records (owner_id, month, item_id, extensions, updated_at) VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(owner_id, month, item_id) DO UPDATE SET extensions = excluded.extensions, updated_at = datetime('now')`,
		ownerID, month, itemID, string(data),
	)
	if err != nil {
		return fmt.Errorf("set extensions: %w", err)
	}
	return nil
}

// BulkUpsert writes all three quantities for a batch of records in one
// transaction. Used by the scan import; stored extensions are preserved.
func (s *RecordStore) BulkUpsert(ownerID int64, month string, records []model.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO records (owner_id, month, item_id, previous_qty, received_qty, current_qty, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(owner_id, month, item_id) DO UPDATE SET
		   previous_qty = excluded.previous_qty,
		   received_qty = excluded.received_qty,
		   current_qty = excluded.current_qty,
		   updated_at = datetime('now')`,
	)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(ownerID, month, r.ItemID, r.Previous, r.Received, r.Current); err != nil {
			return fmt.Errorf("upsert record %s: %w", r.ItemID, err)
		}
	}

	return tx.Commit()
}

// MapForMonth returns the month's records keyed by item id. An absent
// month yields an empty map, never an error.
func (s *RecordStore) MapForMonth(ownerID int64, month string) (map[string]model.Record, error) {
	rows, err := s.db.Query(
		`SELECT `+recordCols+` FROM records WHERE owner_id = ? AND month = ?`,
		ownerID, month,
	)
	if err != nil {
		return nil, fmt.Errorf("records for month: %w", err)
	}
	defer rows.Close()

	records := make(map[string]model.Record)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records[r.ItemID] = *r
	}
	return records, rows.Err()
}

// History returns an item's records for the given months, keyed by month.
// One-shot fetch used by the trailing-consumption statistics.
func (s *RecordStore) History(ownerID int64, itemID string, months []string) (map[string]model.Record, error) {
	history := make(map[string]model.Record, len(months))
	for _, month := range months {
		r, err := s.Get(ownerID, month, itemID)
		if err != nil {
			return nil, err
		}
		if r != nil {
			history[month] = *r
		}
	}
	return history, nil
}

// MapForMonths returns all records for the given months in one query,
// keyed by month then item id.
func (s *RecordStore) MapForMonths(ownerID int64, months []string) (map[string]map[string]model.Record, error) {
	out := make(map[string]map[string]model.Record, len(months))
	for _, month := range months {
		m, err := s.MapForMonth(ownerID, month)
		if err != nil {
			return nil, err
		}
		out[month] = m
	}
	return out, nil
}

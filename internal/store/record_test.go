package store

import (
	"testing"

	"github.com/pbmartins/estoque/internal/database"
	"github.com/pbmartins/estoque/internal/model"
)

func setupRecordTestDB(t *testing.T) (*RecordStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecordStore(db), NewUserStore(db)
}

func TestRecordSetQuantityMerges(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	// First write creates the record with the other fields at zero.
	rec, err := rs.SetQuantity(u.ID, "2026-03", "bhs", FieldPrevious, 12)
	if err != nil {
		t.Fatalf("set previous: %v", err)
	}
	if rec.Previous != 12 || rec.Received != 0 || rec.Current != 0 {
		t.Errorf("after first write: %+v, want previous=12 received=0 current=0", rec)
	}

	// Writing one field must not clobber the others.
	rec, err = rs.SetQuantity(u.ID, "2026-03", "bhs", FieldCurrent, 8)
	if err != nil {
		t.Fatalf("set current: %v", err)
	}
	if rec.Previous != 12 || rec.Current != 8 {
		t.Errorf("after second write: %+v, want previous=12 current=8", rec)
	}

	rec, err = rs.SetQuantity(u.ID, "2026-03", "bhs", FieldReceived, 5)
	if err != nil {
		t.Fatalf("set received: %v", err)
	}
	if rec.Previous != 12 || rec.Received != 5 || rec.Current != 8 {
		t.Errorf("after third write: %+v, want previous=12 received=5 current=8", rec)
	}
}

func TestRecordSetQuantityUnknownField(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	if _, err := rs.SetQuantity(u.ID, "2026-03", "bhs", "saida", 1); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestRecordExtensionsSurviveQuantityWrites(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	if err := rs.SetExtensions(u.ID, "2026-03", "bhs", map[string]string{"obs": "caixa danificada"}); err != nil {
		t.Fatalf("set extensions: %v", err)
	}
	if _, err := rs.SetQuantity(u.ID, "2026-03", "bhs", FieldCurrent, 4); err != nil {
		t.Fatalf("set current: %v", err)
	}

	rec, err := rs.Get(u.ID, "2026-03", "bhs")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.Extensions["obs"] != "caixa danificada" {
		t.Errorf("extensions = %v, want obs preserved", rec.Extensions)
	}
	if rec.Current != 4 {
		t.Errorf("current = %d, want 4", rec.Current)
	}
}

func TestRecordBulkUpsert(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	if err := rs.SetExtensions(u.ID, "2026-03", "bhs", map[string]string{"obs": "conferido"}); err != nil {
		t.Fatalf("set extensions: %v", err)
	}

	batch := []model.Record{
		{ItemID: "bhs", Previous: 10, Received: 5, Current: 9},
		{ItemID: "lff", Previous: 3, Received: 0, Current: 2},
	}
	if err := rs.BulkUpsert(u.ID, "2026-03", batch); err != nil {
		t.Fatalf("bulk upsert: %v", err)
	}

	records, err := rs.MapForMonth(u.ID, "2026-03")
	if err != nil {
		t.Fatalf("map for month: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	bhs := records["bhs"]
	if bhs.Previous != 10 || bhs.Received != 5 || bhs.Current != 9 {
		t.Errorf("bhs = %+v, want 10/5/9", bhs)
	}
	if bhs.Extensions["obs"] != "conferido" {
		t.Errorf("bulk upsert dropped extensions: %v", bhs.Extensions)
	}
	if lff := records["lff"]; lff.Current != 2 {
		t.Errorf("lff current = %d, want 2", lff.Current)
	}
}

func TestRecordMapForMonthEmpty(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	records, err := rs.MapForMonth(u.ID, "2020-01")
	if err != nil {
		t.Fatalf("map for empty month: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty map, got %d records", len(records))
	}
}

func TestRecordHistory(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	rs.SetQuantity(u.ID, "2026-01", "bhs", FieldCurrent, 20)
	rs.SetQuantity(u.ID, "2026-02", "bhs", FieldCurrent, 15)
	rs.SetQuantity(u.ID, "2026-02", "lff", FieldCurrent, 99)

	hist, err := rs.History(u.ID, "bhs", []string{"2026-01", "2026-02", "2026-03"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 history months, got %d", len(hist))
	}
	if hist["2026-01"].Current != 20 || hist["2026-02"].Current != 15 {
		t.Errorf("history = %v", hist)
	}
}

func TestRecordMonthsIsolated(t *testing.T) {
	rs, us := setupRecordTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	rs.SetQuantity(u.ID, "2026-03", "bhs", FieldCurrent, 7)
	rs.SetQuantity(u.ID, "2026-04", "bhs", FieldCurrent, 3)

	march, _ := rs.Get(u.ID, "2026-03", "bhs")
	april, _ := rs.Get(u.ID, "2026-04", "bhs")
	if march.Current != 7 || april.Current != 3 {
		t.Errorf("months leaked: march=%d april=%d", march.Current, april.Current)
	}
}

package store

import (
	"testing"
	"time"

	"github.com/pbmartins/estoque/internal/database"
	"github.com/pbmartins/estoque/internal/model"
)

func setupBackupTestDB(t *testing.T) *BackupStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBackupStore(db)
}

func TestBackupLifecycle(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("estoque-2026-03-01.db.enc", "backups/estoque-2026-03-01.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want %q", b.Status, model.BackupStatusPending)
	}

	if err := bs.UpdateStatus(b.ID, model.BackupStatusUploading, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := bs.UpdateCompleted(b.ID, 4096); err != nil {
		t.Fatalf("update completed: %v", err)
	}

	got, err := bs.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get backup: %v", err)
	}
	if got.Status != model.BackupStatusCompleted || got.SizeBytes != 4096 {
		t.Errorf("backup = %+v, want completed with 4096 bytes", got)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at set")
	}

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest == nil || latest.ID != b.ID {
		t.Errorf("latest completed = %+v, want id %d", latest, b.ID)
	}
}

func TestBackupFailure(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, _ := bs.Create("estoque-fail.db.enc", "backups/estoque-fail.db.enc")
	if err := bs.UpdateStatus(b.ID, model.BackupStatusFailed, "upload timeout"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, _ := bs.GetByID(b.ID)
	if got.Status != model.BackupStatusFailed || got.ErrorMessage != "upload timeout" {
		t.Errorf("backup = %+v, want failed with message", got)
	}

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest != nil {
		t.Errorf("no completed backups yet, got %+v", latest)
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, _ := bs.Create("estoque-old.db.enc", "backups/estoque-old.db.enc")

	keys, err := bs.DeleteOlderThan(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(keys) != 1 || keys[0] != "backups/estoque-old.db.enc" {
		t.Errorf("keys = %v, want the deleted s3 key", keys)
	}

	got, _ := bs.GetByID(b.ID)
	if got != nil {
		t.Errorf("expected row deleted, got %+v", got)
	}

	keys, err = bs.DeleteOlderThan(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("delete older than (none): %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

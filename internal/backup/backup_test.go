package backup

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pbmartins/estoque/internal/database"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[*input.Key] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	data, ok := f.objects[*input.Key]
	f.mu.Unlock()
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(string(data))),
		ContentLength: int64Ptr(int64(len(data))),
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, *input.Key)
	f.deleted = append(f.deleted, *input.Key)
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func int64Ptr(v int64) *int64 { return &v }

func setupManagerTest(t *testing.T) (*Manager, *fakeS3, *store.BackupStore, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "estoque.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bs := store.NewBackupStore(db)
	fake := newFakeS3()

	m := NewManager(Config{
		Bucket:     "estoque-backups",
		Region:     "auto",
		AccessKey:  "test-key",
		SecretKey:  "test-secret",
		Passphrase: "senha-de-backup",
		DBPath:     dbPath,
		Retention:  30 * 24 * time.Hour,
	}, db, bs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.client = fake

	return m, fake, bs, db
}

func TestRunNowUploadsEncryptedSnapshot(t *testing.T) {
	m, fake, bs, _ := setupManagerTest(t)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}

	record, err := bs.GetByID(id)
	if err != nil {
		t.Fatalf("get backup record: %v", err)
	}
	if record.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want %q", record.Status, model.BackupStatusCompleted)
	}
	if record.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
	if record.SizeBytes == 0 {
		t.Error("expected a non-zero size")
	}

	data, ok := fake.objects[record.S3Key]
	if !ok {
		t.Fatalf("expected object at %q", record.S3Key)
	}
	if int64(len(data)) != record.SizeBytes {
		t.Errorf("uploaded %d bytes, record says %d", len(data), record.SizeBytes)
	}

	plaintext, err := Decrypt(data, "senha-de-backup")
	if err != nil {
		t.Fatalf("decrypt uploaded backup: %v", err)
	}
	if len(plaintext) == 0 {
		t.Error("expected a non-empty database snapshot")
	}

	status := m.Status()
	if status.State != StateIdle {
		t.Errorf("state = %q, want %q", status.State, StateIdle)
	}
	if status.LastBackup == nil {
		t.Error("expected last backup timestamp")
	}
}

func TestRunNowNotConfigured(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(Config{}, db, store.NewBackupStore(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if m.Enabled() {
		t.Error("expected manager without credentials to be disabled")
	}
	if m.Status().State != StateDisabled {
		t.Errorf("state = %q, want %q", m.Status().State, StateDisabled)
	}
	if _, err := m.RunNow(context.Background()); err == nil {
		t.Error("expected error running backup without storage credentials")
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	m, _, bs, _ := setupManagerTest(t)
	m.cfg.DBPath = filepath.Join(t.TempDir(), "does-not-exist.db")

	id, err := m.RunNow(context.Background())
	if err == nil {
		t.Fatal("expected snapshot failure")
	}
	if id != 0 {
		t.Errorf("id = %d, want 0", id)
	}

	backups, err := bs.List(10)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backup records, want 1", len(backups))
	}
	if backups[0].Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want %q", backups[0].Status, model.BackupStatusFailed)
	}
	if backups[0].ErrorMessage == "" {
		t.Error("expected an error message on the failed record")
	}
	if m.Status().State != StateError {
		t.Errorf("state = %q, want %q", m.Status().State, StateError)
	}
}

func TestDownload(t *testing.T) {
	m, _, _, _ := setupManagerTest(t)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}

	body, size, err := m.Download(context.Background(), id)
	if err != nil {
		t.Fatalf("download backup: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read backup body: %v", err)
	}
	if int64(len(data)) != size {
		t.Errorf("read %d bytes, want %d", len(data), size)
	}

	if _, _, err := m.Download(context.Background(), id+100); err == nil {
		t.Error("expected error for unknown backup id")
	}
}

func TestCleanupRemovesOldBackups(t *testing.T) {
	m, fake, bs, db := setupManagerTest(t)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}
	record, _ := bs.GetByID(id)

	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	if _, err := db.Exec(`UPDATE backups SET created_at = ? WHERE id = ?`, old, id); err != nil {
		t.Fatalf("age backup record: %v", err)
	}

	if err := m.Cleanup(context.Background()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if got, _ := bs.GetByID(id); got != nil {
		t.Error("expected old backup record to be deleted")
	}
	if _, ok := fake.objects[record.S3Key]; ok {
		t.Error("expected old object to be deleted from storage")
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != record.S3Key {
		t.Errorf("deleted keys = %v, want [%s]", fake.deleted, record.S3Key)
	}
}

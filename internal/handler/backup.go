package handler

import (
	"log/slog"
	"net/http"

	"github.com/pbmartins/estoque/internal/backup"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

type BackupHandler struct {
	manager     *backup.Manager
	backupStore *store.BackupStore
	logger      *slog.Logger
}

func NewBackupHandler(m *backup.Manager, bs *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, backupStore: bs, logger: logger}
}

// RunNow handles POST /api/backup/now.
func (h *BackupHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil || !h.manager.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "backup não está configurado")
		return
	}

	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("manual backup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar o backup")
		return
	}

	record, err := h.backupStore.GetByID(id)
	if err != nil {
		h.logger.Error("get backup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar o backup")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// Status handles GET /api/backup/status.
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil {
		writeError(w, http.StatusServiceUnavailable, "backup não está configurado")
		return
	}
	writeJSON(w, http.StatusOK, h.manager.Status())
}

// History handles GET /api/backup/history.
func (h *BackupHandler) History(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupStore.List(50)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível listar os backups")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backups)
}

package handlers

import (
	"net/http"

	"medstock-backend/internal/backup"
	"medstock-backend/pkg/utils"
)

type BackupHandler struct {
	Scheduler *backup.Scheduler
}

func NewBackupHandler(scheduler *backup.Scheduler) *BackupHandler {
	return &BackupHandler{Scheduler: scheduler}
}

// TriggerBackup runs one snapshot upload outside the schedule.
func (h *BackupHandler) TriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Backups are not configured")
		return
	}
	key, err := h.Scheduler.RunNow(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Backup uploaded", "key": key})
}

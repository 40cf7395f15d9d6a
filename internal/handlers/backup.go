package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/articotec/fieldgo/internal/backup"
)

// exportBackup streams a full JSON snapshot of the database
func (r *Router) exportBackup(w http.ResponseWriter, req *http.Request) {
	archive, err := backup.Export(r.db.DB)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to export backup")
		return
	}

	filename := fmt.Sprintf("backup-artico-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(archive)
}

// restoreBackup replaces the database contents with an uploaded archive
func (r *Router) restoreBackup(w http.ResponseWriter, req *http.Request) {
	var archive backup.Archive
	if err := json.NewDecoder(req.Body).Decode(&archive); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid backup file")
		return
	}

	if err := backup.Restore(r.db.DB, &archive); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Backup restored successfully",
	})
}

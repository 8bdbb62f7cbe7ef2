package controllers

import (
	"net/http"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/internal/backups"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

func BackupCreate(svc *backups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := svc.Run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithField(r.Context(), "file", path), "backup.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"file": path})
	}
}

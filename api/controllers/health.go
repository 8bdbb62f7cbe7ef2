package controllers

import (
	"context"
	"net/http"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "store unreachable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"status": "ready",
			"env":    cfg.App.Env,
		})
	}
}

package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/internal/exports"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// ItemsCSV streams the full item list as a CSV attachment. The file is
// rendered into a buffer first so errors surface before headers go out.
func ItemsCSV(svc inventory.Service, logg *logger.Logger, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListItems(r.Context(), items.ListFilter{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var buf bytes.Buffer
		if err := exports.WriteCSV(&buf, list, loc); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render csv"))
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="items.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logg.Error(r.Context(), "export.csv.write", err)
		}
	}
}

func ItemsXLSX(svc inventory.Service, logg *logger.Logger, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListItems(r.Context(), items.ListFilter{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var buf bytes.Buffer
		if err := exports.WriteXLSX(&buf, list, loc); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render xlsx"))
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="items.xlsx"`)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logg.Error(r.Context(), "export.xlsx.write", err)
		}
	}
}

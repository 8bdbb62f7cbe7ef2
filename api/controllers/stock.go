package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	"github.com/stockroomhq/stockroom-backend/internal/ledger"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

type stockMovementRequest struct {
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Reason   string  `json:"reason"`
	Ref      *string `json:"ref"`
}

func StockReceive(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req stockMovementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			reason = "receive"
		}

		item, err := svc.ReceiveStock(r.Context(), id, req.Quantity, reason, req.Ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(logg.WithItemID(r.Context(), id), map[string]any{"quantity": req.Quantity})
		logg.Info(ctx, "stock.received")

		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func StockIssue(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req stockMovementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			reason = "issue"
		}

		item, err := svc.IssueStock(r.Context(), id, req.Quantity, reason, req.Ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(logg.WithItemID(r.Context(), id), map[string]any{"quantity": req.Quantity})
		logg.Info(ctx, "stock.issued")

		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func StockRecalculate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.RecalculateQuantity(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithItemID(r.Context(), id), "stock.recalculated")
		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func StockTransactions(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txns, err := svc.ListTransactions(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ledger.FromModels(txns))
	}
}

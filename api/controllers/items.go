package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

type createItemRequest struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name" validate:"required"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity *int             `json:"min_quantity" validate:"omitempty,gte=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	Price       *decimal.Decimal `json:"price"`
	Barcode     *string          `json:"barcode"`
	Active      *bool            `json:"active"`
}

type updateItemRequest struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	MinQuantity *int             `json:"min_quantity" validate:"omitempty,gte=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	Price       *decimal.Decimal `json:"price"`
	Barcode     *string          `json:"barcode"`
	Active      *bool            `json:"active"`
}

func ItemCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), inventory.CreateItemInput{
			SKU:         req.SKU,
			Name:        req.Name,
			Quantity:    req.Quantity,
			MinQuantity: req.MinQuantity,
			UnitCost:    req.UnitCost,
			Price:       req.Price,
			Barcode:     req.Barcode,
			Active:      req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithSKU(logg.WithItemID(r.Context(), item.ID), item.SKU)
		logg.Info(ctx, "item.created")

		responses.WriteSuccessStatus(w, http.StatusCreated, items.FromModel(*item))
	}
}

func ItemList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyActive, err := validators.ParseQueryBool(r, "active_only", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListItems(r.Context(), items.ListFilter{
			Name:       strings.TrimSpace(r.URL.Query().Get("name")),
			OnlyActive: onlyActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items.FromModels(list))
	}
}

func ItemGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func ItemGetBySKU(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := strings.TrimSpace(chi.URLParam(r, "sku"))
		if sku == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required"))
			return
		}

		item, err := svc.GetItemBySKU(r.Context(), sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func ItemUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := items.UpdateInput{
			SKU:         req.SKU,
			Name:        req.Name,
			MinQuantity: req.MinQuantity,
			UnitCost:    req.UnitCost,
			Price:       req.Price,
			Active:      req.Active,
		}
		if req.Barcode != nil {
			// An explicit empty barcode clears the stored value.
			if strings.TrimSpace(*req.Barcode) == "" {
				input.ClearBarcode = true
			} else {
				input.Barcode = req.Barcode
			}
		}

		item, err := svc.UpdateItem(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func ItemDeactivate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithItemID(r.Context(), id), "item.deactivated")
		responses.WriteSuccess(w, items.FromModel(*item))
	}
}

func ItemDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithItemID(r.Context(), id), "item.deleted")
		responses.WriteSuccess(w, map[string]int64{"id": id})
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/internal/auth"
	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/order"
	"github.com/danukay/stocktrack-service/internal/order/dto"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/pkg/respond"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var input dto.RecordSaleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperrors.Validation("invalid request body"))
		return
	}
	input.OwnerID = auth.GetOwnerID(r.Context())

	o, err := h.uc.RecordSale(r.Context(), &input)
	if err != nil {
		h.logError("record sale", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), auth.GetOwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logError("get order", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.OrderFilters{
		OwnerID:  auth.GetOwnerID(r.Context()),
		Status:   r.URL.Query().Get("status"),
		Page:     respond.QueryInt(r, "page", 1),
		PageSize: respond.QueryInt(r, "page_size", 20),
	}

	items, total, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		h.logError("list orders", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Paginated{
		Items: items, Total: total, Page: filters.Page, PageSize: filters.PageSize,
	})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	o, err := h.uc.UpdateStatus(r.Context(), auth.GetOwnerID(r.Context()),
		chi.URLParam(r, "id"), model.OrderStatus(input.Status))
	if err != nil {
		h.logError("update order status", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.uc.DeleteOrder(r.Context(), auth.GetOwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logError("delete order", err)
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, "order deleted")
}

func (h *OrderHandler) logError(op string, err error) {
	if apperrors.KindOf(err) == apperrors.KindServer {
		h.logger.Error(op, zap.Error(err))
	}
}

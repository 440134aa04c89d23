package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/internal/auth"
	"github.com/danukay/stocktrack-service/internal/inflow"
	"github.com/danukay/stocktrack-service/internal/inflow/dto"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/pkg/respond"
)

type InflowHandler struct {
	uc     inflow.UseCase
	logger logger.ZapLogger
}

func NewInflowHandler(uc inflow.UseCase, log logger.ZapLogger) *InflowHandler {
	return &InflowHandler{uc: uc, logger: log}
}

func (h *InflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateInflowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperrors.Validation("invalid request body"))
		return
	}
	input.OwnerID = auth.GetOwnerID(r.Context())

	in, err := h.uc.Create(r.Context(), &input)
	if err != nil {
		h.logError("create inflow", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, in)
}

func (h *InflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	in, err := h.uc.Get(r.Context(), auth.GetOwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logError("get inflow", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, in)
}

func (h *InflowHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.InflowFilters{
		OwnerID:  auth.GetOwnerID(r.Context()),
		Supplier: r.URL.Query().Get("supplier"),
		Page:     respond.QueryInt(r, "page", 1),
		PageSize: respond.QueryInt(r, "page_size", 20),
	}

	items, total, err := h.uc.List(r.Context(), filters)
	if err != nil {
		h.logError("list inflows", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Paginated{
		Items: items, Total: total, Page: filters.Page, PageSize: filters.PageSize,
	})
}

func (h *InflowHandler) logError(op string, err error) {
	if apperrors.KindOf(err) == apperrors.KindServer {
		h.logger.Error(op, zap.Error(err))
	}
}

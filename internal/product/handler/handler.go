package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/internal/auth"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/pkg/respond"
	"github.com/danukay/stocktrack-service/internal/product"
	"github.com/danukay/stocktrack-service/internal/product/dto"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperrors.Validation("invalid request body"))
		return
	}
	input.OwnerID = auth.GetOwnerID(r.Context())

	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		h.logError("create product", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), auth.GetOwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logError("get product", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.ProductFilters{
		OwnerID:     auth.GetOwnerID(r.Context()),
		SearchQuery: r.URL.Query().Get("q"),
		Category:    r.URL.Query().Get("category"),
		Page:        respond.QueryInt(r, "page", 1),
		PageSize:    respond.QueryInt(r, "page_size", 20),
	}

	items, total, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		h.logError("list products", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Paginated{
		Items: items, Total: total, Page: filters.Page, PageSize: filters.PageSize,
	})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperrors.Validation("invalid request body"))
		return
	}
	input.OwnerID = auth.GetOwnerID(r.Context())
	input.ID = chi.URLParam(r, "id")

	p, err := h.uc.UpdateProduct(r.Context(), &input)
	if err != nil {
		h.logError("update product", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.uc.DeleteProduct(r.Context(), auth.GetOwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.logError("delete product", err)
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, "product deleted")
}

func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	page := respond.QueryInt(r, "page", 1)
	pageSize := respond.QueryInt(r, "page_size", 20)

	items, total, err := h.uc.ListLowStock(r.Context(), auth.GetOwnerID(r.Context()), page, pageSize)
	if err != nil {
		h.logError("list low stock", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Paginated{
		Items: items, Total: total, Page: page, PageSize: pageSize,
	})
}

func (h *ProductHandler) Movements(w http.ResponseWriter, r *http.Request) {
	filters := &dto.MovementFilters{
		OwnerID:      auth.GetOwnerID(r.Context()),
		ProductID:    r.URL.Query().Get("product_id"),
		MovementType: r.URL.Query().Get("type"),
		Page:         respond.QueryInt(r, "page", 1),
		PageSize:     respond.QueryInt(r, "page_size", 50),
	}

	items, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		h.logError("list movements", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Paginated{
		Items: items, Total: total, Page: filters.Page, PageSize: filters.PageSize,
	})
}

func (h *ProductHandler) logError(op string, err error) {
	if apperrors.KindOf(err) == apperrors.KindServer {
		h.logger.Error(op, zap.Error(err))
	}
}

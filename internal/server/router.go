package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/danukay/stocktrack-service/internal/auth"
	inflowH "github.com/danukay/stocktrack-service/internal/inflow/handler"
	orderH "github.com/danukay/stocktrack-service/internal/order/handler"
	productH "github.com/danukay/stocktrack-service/internal/product/handler"
)

// NewRouter assembles the REST API. Everything under /api/v1 requires
// an owner scope.
func NewRouter(products *productH.ProductHandler, orders *orderH.OrderHandler, inflows *inflowH.InflowHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/products", func(r chi.Router) {
			r.Post("/", products.Create)
			r.Get("/", products.List)
			r.Get("/low-stock", products.LowStock)
			r.Get("/{id}", products.Get)
			r.Put("/{id}", products.Update)
			r.Delete("/{id}", products.Delete)
		})

		r.Get("/stock-movements", products.Movements)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/sale", orders.RecordSale)
			r.Get("/", orders.List)
			r.Get("/{id}", orders.Get)
			r.Patch("/{id}/status", orders.UpdateStatus)
			r.Delete("/{id}", orders.Delete)
		})

		r.Route("/inflows", func(r chi.Router) {
			r.Post("/", inflows.Create)
			r.Get("/", inflows.List)
			r.Get("/{id}", inflows.Get)
		})
	})

	return r
}

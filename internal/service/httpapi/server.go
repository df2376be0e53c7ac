// Package httpapi поднимает JSON HTTP API поверх движка заказов и
// сервисов каталога.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/health"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
)

// Server связывает маршруты HTTP API с сервисами.
type Server struct {
	orders     *order.Engine
	categories *catalog.CategoryService
	products   *catalog.ProductService
	customers  *catalog.CustomerService
	health     *health.Handler
	logger     *log.Entry

	// lowStockThreshold — порог по умолчанию для /products/low-stock,
	// когда запрос не задаёт threshold; 0 означает порог движка.
	lowStockThreshold int32
}

// SetLowStockThreshold задаёт порог low-stock отчёта по умолчанию.
func (s *Server) SetLowStockThreshold(threshold int32) {
	s.lowStockThreshold = threshold
}

// NewServer создаёт HTTP-сервер API.
func NewServer(
	orders *order.Engine,
	categories *catalog.CategoryService,
	products *catalog.ProductService,
	customers *catalog.CustomerService,
	healthHandler *health.Handler,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Server{
		orders:     orders,
		categories: categories,
		products:   products,
		customers:  customers,
		health:     healthHandler,
		logger:     logger,
	}
}

// Router собирает все маршруты API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	if s.health != nil {
		r.Handle("/healthz", s.health).Methods(http.MethodGet)
		r.HandleFunc("/livez", health.LivenessHandler).Methods(http.MethodGet)
		r.HandleFunc("/readyz", s.health.ReadinessHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers", s.handleRegisterCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers", s.handleListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", s.handleGetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/orders", s.handleCustomerOrders).Methods(http.MethodGet)

	api.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", s.handleGetCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", s.handleUpdateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", s.handleDeleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/low-stock", s.handleLowStock).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.handleGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.handleUpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id}/price-history", s.handlePriceHistory).Methods(http.MethodGet)

	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/summaries", s.handleOrderSummaries).Methods(http.MethodGet)
	api.HandleFunc("/orders/count", s.handleOrderCount).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/items", s.handleUpdateOrderItems).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id}", s.handleDeleteOrder).Methods(http.MethodDelete)

	return r
}

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
)

type createOrderRequest struct {
	CustomerID string `json:"customer_id"`
	Items      []struct {
		ProductID string `json:"product_id"`
		Qty       int32  `json:"qty"`
	} `json:"items"`
}

type updateOrderItemsRequest struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !s.decode(w, r, &req) {
		return
	}

	items := make([]order.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, order.ItemRequest{ProductID: item.ProductID, Qty: item.Qty})
	}

	created, err := s.orders.Create(r.Context(), req.CustomerID, items)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toOrderDTO(created))
}

// handleListOrders возвращает заказы; параметры page, page_size, sort и
// desc включают пагинацию, без них отдаётся полный список.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("page") == "" && query.Get("page_size") == "" && query.Get("sort") == "" {
		orders, err := s.orders.List(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toOrderDTOs(orders))
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	// Направление по умолчанию — по убыванию даты.
	desc := true
	if raw := query.Get("desc"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "desc must be a boolean"})
			return
		}
		desc = parsed
	}

	orders, err := s.orders.ListPaged(r.Context(), domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     domain.SortKey(query.Get("sort")),
		Desc:     desc,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toOrderDTOs(orders))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	got, err := s.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toOrderDTO(got))
}

func (s *Server) handleUpdateOrderItems(w http.ResponseWriter, r *http.Request) {
	var req updateOrderItemsRequest
	if !s.decode(w, r, &req) {
		return
	}

	updated, err := s.orders.UpdateItems(r.Context(), mux.Vars(r)["id"], req.ProductID, req.Qty)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toOrderDTO(updated))
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.orders.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOrderSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.orders.Summaries(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSummaryDTOs(summaries))
}

func (s *Server) handleOrderCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.orders.Count(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := s.lowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "threshold must be an integer"})
			return
		}
		threshold = int32(parsed)
	}
	products, err := s.orders.LowStock(r.Context(), threshold)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProductDTOs(products))
}

package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

type registerCustomerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	PasswordHash string `json:"password_hash"`
}

func (s *Server) handleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if !s.decode(w, r, &req) {
		return
	}

	created, err := s.customers.Register(r.Context(), req.Name, req.Email, req.Address, req.PasswordHash)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toCustomerDTO(created))
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := make([]customerDTO, 0, len(customers))
	for _, customer := range customers {
		result = append(result, toCustomerDTO(customer))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.customers.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCustomerDTO(customer))
}

// handleCustomerOrders возвращает историю заказов клиента; отсутствие
// клиента — 404, а не пустой список.
func (s *Server) handleCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.customers.Get(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	orders, err := s.orders.ListByCustomer(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toOrderDTOs(orders))
}

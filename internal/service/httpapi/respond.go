package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`

	// Детали нехватки остатка, заполняются только для этого типа отказа.
	// Available и Requested сериализуются всегда: available=0 — самый
	// информативный случай.
	ProductID string `json:"product_id,omitempty"`
	Available int32  `json:"available"`
	Requested int32  `json:"requested"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError переводит ошибку домена в HTTP-статус. Неизвестные ошибки
// не раскрываются клиенту.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		s.writeJSON(w, http.StatusConflict, errorResponse{
			Error:     stockErr.Error(),
			ProductID: stockErr.ProductID,
			Available: stockErr.Available,
			Requested: stockErr.Requested,
		})
	case domain.IsNotFound(err):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsValidation(err):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case domain.IsConflict(err):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		s.logger.WithError(err).Error("internal error")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

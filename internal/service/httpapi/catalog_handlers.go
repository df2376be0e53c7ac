package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Stock      int32  `json:"stock"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	created, err := s.categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toCategoryDTO(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := make([]categoryDTO, 0, len(categories))
	for _, category := range categories {
		result = append(result, toCategoryDTO(category))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.categories.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCategoryDTO(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	updated, err := s.categories.Update(r.Context(), domain.Category{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCategoryDTO(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !s.decode(w, r, &req) {
		return
	}

	created, err := s.products.Create(r.Context(), req.CategoryID, req.Name, req.PriceMinor, req.Stock)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toProductDTO(created))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProductDTOs(products))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	current, err := s.products.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.products.Update(r.Context(), domain.Product{
		ID:         id,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
		CreatedAt:  current.CreatedAt,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProductDTO(updated))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.products.PriceHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPriceChangeDTOs(history))
}

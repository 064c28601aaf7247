package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/auth"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
)

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	products, err := h.service.CategoryProducts(r.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrCategoryNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) SellerProducts(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	products, err := h.service.SellerProducts(r.Context(), email)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	email, _ := auth.EmailFromContext(r.Context())

	var req struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Image    string  `json:"image"`
		Location string  `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		Location:    req.Location,
		SellerEmail: email,
	}

	id, err := h.service.CreateProduct(r.Context(), product)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidInput) || errors.Is(err, pkgerrors.ErrCategoryNotFound) {
			h.writeError(w, http.StatusBadRequest, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true, InsertedID: id})
}

func (h *Handler) AdvertiseProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.AdvertiseProduct(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

func (h *Handler) AdvertisedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.AdvertisedProducts(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) ReportProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.ReportProduct(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

func (h *Handler) ReportedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ReportedProducts(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) MarkSold(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["productName"]

	matched, err := h.service.MarkSold(r.Context(), name)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"acknowledged": true,
		"matchedCount": matched,
	})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrInvalidToken)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id, email); err != nil {
		if errors.Is(err, pkgerrors.ErrForbidden) {
			h.writeError(w, http.StatusForbidden, err)
		} else if errors.Is(err, pkgerrors.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

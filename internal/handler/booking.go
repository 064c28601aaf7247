package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/auth"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string  `json:"email"`
		ProductName string  `json:"productName"`
		Price       float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	booking := &models.Booking{
		Email:       req.Email,
		ProductName: req.ProductName,
		Price:       req.Price,
	}

	id, err := h.service.CreateBooking(r.Context(), booking)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrBookingExists) {
			h.writeJSON(w, http.StatusOK, ackResponse{
				Acknowledged: false,
				Message:      "It's already booked!",
			})
		} else if errors.Is(err, pkgerrors.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true, InsertedID: id})
}

// BookingsByEmail serves only the token's own bookings; admins may read any.
func (h *Handler) BookingsByEmail(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	subject, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrInvalidToken)
		return
	}

	if subject != email {
		user, err := h.service.ResolveRole(r.Context(), subject)
		if err != nil || !user.IsAdmin() {
			h.writeError(w, http.StatusForbidden, pkgerrors.ErrForbidden)
			return
		}
	}

	bookings, err := h.service.BookingsByEmail(r.Context(), email)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) Booking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	booking, err := h.service.Booking(r.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrBookingNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	secret, err := h.service.CreatePaymentIntent(r.Context(), req.Price)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID     string  `json:"bookingId"`
		TransactionID string  `json:"transactionId"`
		Price         float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	payment := &models.Payment{
		BookingID:     req.BookingID,
		TransactionID: req.TransactionID,
		Amount:        int64(math.Round(req.Price * 100)),
	}

	id, err := h.service.RecordPayment(r.Context(), payment)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrBookingNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else if errors.Is(err, pkgerrors.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true, InsertedID: id})
}

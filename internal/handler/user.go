package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		h.writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.Role(req.Role),
	}

	id, err := h.service.RegisterUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			h.writeJSON(w, http.StatusOK, ackResponse{
				Acknowledged: false,
				Message:      "User already exists!",
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

type profileResponse struct {
	models.User
	IsAdmin  bool `json:"isAdmin"`
	IsSeller bool `json:"isSeller"`
	IsBuyer  bool `json:"isBuyer"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	user, err := h.service.Profile(r.Context(), email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, profileResponse{
		User:     *user,
		IsAdmin:  user.IsAdmin(),
		IsSeller: user.IsSeller(),
		IsBuyer:  user.IsBuyer(),
	})
}

func (h *Handler) Buyers(w http.ResponseWriter, r *http.Request) {
	h.usersByRole(w, r, models.RoleBuyer)
}

func (h *Handler) Sellers(w http.ResponseWriter, r *http.Request) {
	h.usersByRole(w, r, models.RoleSeller)
}

func (h *Handler) usersByRole(w http.ResponseWriter, r *http.Request, role models.Role) {
	users, err := h.service.UsersByRole(r.Context(), role)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

func (h *Handler) VerifySeller(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.VerifySeller(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

// Token issues a JWT for an email that is already registered; unknown emails
// are refused rather than silently granted a credential.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	token, err := h.service.Token(r.Context(), email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			h.writeError(w, http.StatusForbidden, pkgerrors.ErrForbidden)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

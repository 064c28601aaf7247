package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/auth"
	"github.com/swapdeal/swapdeal-api/internal/models"
	service "github.com/swapdeal/swapdeal-api/internal/services"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
)

type Handler struct {
	service service.MarketService
}

func NewHandler(s service.MarketService) *Handler {
	return &Handler{service: s}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ackResponse mirrors the driver's insert result shape the clients already
// consume. Conflicts are reported as acknowledged:false with HTTP 200.
type ackResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId,omitempty"`
	Message      string `json:"message,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Health).Methods("GET")
	r.HandleFunc("/categories", h.Categories).Methods("GET")
	r.HandleFunc("/category/{id}", h.CategoryProducts).Methods("GET")
	r.HandleFunc("/products/{email}", h.SellerProducts).Methods("GET")
	r.HandleFunc("/advertisedProducts", h.AdvertisedProducts).Methods("GET")
	r.HandleFunc("/users", h.RegisterUser).Methods("POST")
	r.HandleFunc("/users/{email}", h.Profile).Methods("GET")
	r.HandleFunc("/jwt", h.Token).Methods("GET")
	r.HandleFunc("/bookings", h.CreateBooking).Methods("POST")
	r.HandleFunc("/booking/{id}", h.Booking).Methods("GET")
	r.HandleFunc("/create-payment-intent", h.CreatePaymentIntent).Methods("POST")
	r.HandleFunc("/payments", h.RecordPayment).Methods("POST")
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/products", h.requireRole(models.RoleSeller, h.CreateProduct)).Methods("POST")
	r.HandleFunc("/products/{id}", h.AdvertiseProduct).Methods("PUT")
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")
	r.HandleFunc("/product/{productName}", h.requireRole(models.RoleSeller, h.MarkSold)).Methods("PUT")
	r.HandleFunc("/reportedProducts", h.requireRole(models.RoleAdmin, h.ReportedProducts)).Methods("GET")
	r.HandleFunc("/reportedProducts/{id}", h.ReportProduct).Methods("PUT")
	r.HandleFunc("/users/{id}", h.requireRole(models.RoleAdmin, h.DeleteUser)).Methods("DELETE")
	r.HandleFunc("/buyers", h.requireRole(models.RoleAdmin, h.Buyers)).Methods("GET")
	r.HandleFunc("/sellers", h.requireRole(models.RoleAdmin, h.Sellers)).Methods("GET")
	r.HandleFunc("/sellers/{id}", h.requireRole(models.RoleAdmin, h.VerifySeller)).Methods("PUT")
	r.HandleFunc("/bookings/{email}", h.BookingsByEmail).Methods("GET")
}

// requireRole gates a handler to exactly the given role. The token has been
// verified by the middleware already; this resolves the subject to a user
// record and checks its role.
func (h *Handler) requireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok {
			h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrInvalidToken)
			return
		}

		user, err := h.service.ResolveRole(r.Context(), email)
		if err != nil || user.Role != role {
			h.writeError(w, http.StatusForbidden, pkgerrors.ErrForbidden)
			return
		}
		next(w, r)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("API running"))
}

// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/yamdb/internal/core"
	"github.com/carterperez-dev/yamdb/internal/mail"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter)
		r.Post("/signup", h.Signup)
		r.Post("/token", h.Token)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if req.Username == ReservedUsername {
		core.JSONError(w, signupError(ErrReservedUsername))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if appErr := signupError(err); appErr != nil {
			core.JSONError(w, appErr)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.ExchangeCode(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			core.JSONError(w, core.NewAppError(
				err, err.Error(), http.StatusBadRequest, "MISSING_FIELDS",
			))
		case errors.Is(err, ErrUserNotFound):
			core.JSONError(w, core.NewAppError(
				err, err.Error(), http.StatusNotFound, "USER_NOT_FOUND",
			))
		case errors.Is(err, ErrInvalidCode):
			core.JSONError(w, core.NewAppError(
				err, err.Error(), http.StatusBadRequest, "INVALID_CODE",
			))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resp)
}

// signupError maps the signup failures callers are told about verbatim.
func signupError(err error) *core.AppError {
	var code string

	switch {
	case errors.Is(err, ErrReservedUsername):
		code = "RESERVED_USERNAME"
	case errors.Is(err, ErrEmailMismatch):
		code = "EMAIL_MISMATCH"
	case errors.Is(err, ErrDuplicateEmail):
		code = "DUPLICATE_EMAIL"
	case errors.Is(err, mail.ErrDelivery):
		return core.NewAppError(
			err,
			"could not send the confirmation code",
			http.StatusBadRequest,
			"MAIL_DELIVERY_FAILED",
		)
	default:
		return nil
	}

	return core.NewAppError(err, err.Error(), http.StatusBadRequest, code)
}

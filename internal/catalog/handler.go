// AngelaMos | 2026
// handler.go

package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/core"
	"github.com/carterperez-dev/yamdb/internal/middleware"
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

// RegisterRoutes mounts categories, genres and titles. Reads are public,
// writes are for admins. titleRoutes, when set, is mounted under
// /titles/{titleID} with its own policy.
func (h *Handler) RegisterRoutes(r chi.Router, titleRoutes func(chi.Router)) {
	readOnlyElseAdmin := middleware.Authorize(access.ReadOnlyElseAdmin)

	r.Route("/categories", func(r chi.Router) {
		r.Use(readOnlyElseAdmin)

		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Delete("/{slug}", h.DeleteCategory)
	})

	r.Route("/genres", func(r chi.Router) {
		r.Use(readOnlyElseAdmin)

		r.Get("/", h.ListGenres)
		r.Post("/", h.CreateGenre)
		r.Delete("/{slug}", h.DeleteGenre)
	})

	r.Route("/titles", func(r chi.Router) {
		r.With(readOnlyElseAdmin).Get("/", h.ListTitles)
		r.With(readOnlyElseAdmin).Post("/", h.CreateTitle)

		r.Route("/{titleID}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(readOnlyElseAdmin)

				r.Get("/", h.GetTitle)
				r.Patch("/", h.UpdateTitle)
				r.Delete("/", h.DeleteTitle)
			})

			if titleRoutes != nil {
				titleRoutes(r)
			}
		})
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.listTerms(w, r, h.service.ListCategories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.createTerm(w, r, h.service.CreateCategory)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, "category", err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	h.listTerms(w, r, h.service.ListGenres)
}

func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	h.createTerm(w, r, h.service.CreateGenre)
}

func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGenre(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, "genre", err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) listTerms(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, params ListTermsParams) ([]Term, int, error),
) {
	params := ListTermsParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	params.Normalize()

	terms, total, err := list(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToTermResponseList(terms), params.Page, params.PageSize, total)
}

func (h *Handler) createTerm(
	w http.ResponseWriter,
	r *http.Request,
	create func(ctx context.Context, req CreateTermRequest) (*Term, error),
) {
	var req CreateTermRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	term, err := create(r.Context(), req)
	if err != nil {
		writeError(w, "term", err)
		return
	}

	core.Created(w, ToTermResponse(term))
}

func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := TitleFilter{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Name:     q.Get("name"),
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
	}
	if year := q.Get("year"); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			core.BadRequest(w, "year must be a number")
			return
		}
		filter.Year = parsed
	}
	filter.Normalize()

	titles, total, err := h.service.ListTitles(r.Context(), filter)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToTitleResponseList(titles), filter.Page, filter.PageSize, total)
}

func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "titleID", "title")
	if !ok {
		return
	}

	title, err := h.service.GetTitle(r.Context(), id)
	if err != nil {
		writeError(w, "title", err)
		return
	}

	core.OK(w, ToTitleResponse(title))
}

func (h *Handler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), req)
	if err != nil {
		writeError(w, "title", err)
		return
	}

	core.Created(w, ToTitleResponse(title))
}

func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "titleID", "title")
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), id, req)
	if err != nil {
		writeError(w, "title", err)
		return
	}

	core.OK(w, ToTitleResponse(title))
}

func (h *Handler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathUUID(w, r, "titleID", "title")
	if !ok {
		return
	}

	if err := h.service.DeleteTitle(r.Context(), id); err != nil {
		writeError(w, "title", err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, resource string, err error) {
	var conflict *core.ConflictError

	switch {
	case errors.As(err, &conflict):
		core.JSONError(w, core.DuplicateError(conflict.Field))
	case errors.Is(err, core.ErrConflict):
		core.JSONError(w, core.ConflictErrorResponse(
			resource+" is still referenced by titles",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}

// AngelaMos | 2026
// handler.go

package review

import (
	"errors"
	"net/http"

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

// RegisterRoutes mounts reviews and comments on a router already scoped
// to /titles/{titleID}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Use(middleware.Authorize(access.AuthorOrStaffElseReadOnly))

		r.Get("/", h.ListReviews)
		r.Post("/", h.CreateReview)

		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", h.GetReview)
			r.Patch("/", h.UpdateReview)
			r.Delete("/", h.DeleteReview)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", h.ListComments)
				r.Post("/", h.CreateComment)
				r.Get("/{commentID}", h.GetComment)
				r.Patch("/{commentID}", h.UpdateComment)
				r.Delete("/{commentID}", h.DeleteComment)
			})
		})
	})
}

type pathIDs struct {
	title, review, comment string
}

// ids parses the UUID path parameters named in params, writing a 404 for
// the first malformed one.
func ids(w http.ResponseWriter, r *http.Request, params ...string) (pathIDs, bool) {
	var out pathIDs
	for _, p := range params {
		var ok bool
		switch p {
		case "titleID":
			out.title, ok = core.PathUUID(w, r, p, "title")
		case "reviewID":
			out.review, ok = core.PathUUID(w, r, p, "review")
		case "commentID":
			out.comment, ok = core.PathUUID(w, r, p, "comment")
		}
		if !ok {
			return out, false
		}
	}
	return out, true
}

func listParams(r *http.Request) ListParams {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
	}
	params.Normalize()
	return params
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID")
	if !ok {
		return
	}

	params := listParams(r)
	reviews, total, err := h.service.ListReviews(r.Context(), id.title, params)
	if err != nil {
		writeError(w, "title", err)
		return
	}

	core.Paginated(w, ToReviewResponseList(reviews), params.Page, params.PageSize, total)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	review, err := h.service.CreateReview(
		r.Context(),
		middleware.GetActor(r.Context()),
		id.title,
		req,
	)
	if err != nil {
		writeError(w, "title", err)
		return
	}

	core.Created(w, ToReviewResponse(review))
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), id.title, id.review)
	if err != nil {
		writeError(w, "review", err)
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	review, err := h.service.UpdateReview(
		r.Context(),
		middleware.GetActor(r.Context()),
		id.title,
		id.review,
		req,
	)
	if err != nil {
		writeError(w, "review", err)
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	err := h.service.DeleteReview(
		r.Context(),
		middleware.GetActor(r.Context()),
		id.title,
		id.review,
	)
	if err != nil {
		writeError(w, "review", err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	params := listParams(r)
	comments, total, err := h.service.ListComments(r.Context(), id.title, id.review, params)
	if err != nil {
		writeError(w, "review", err)
		return
	}

	core.Paginated(w, ToCommentResponseList(comments), params.Page, params.PageSize, total)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	comment, err := h.service.CreateComment(
		r.Context(),
		middleware.GetActor(r.Context()),
		id.title,
		id.review,
		req,
	)
	if err != nil {
		writeError(w, "review", err)
		return
	}

	core.Created(w, ToCommentResponse(comment))
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}

	comment, err := h.service.GetComment(r.Context(), id.title, id.review, id.comment)
	if err != nil {
		writeError(w, "comment", err)
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	comment, err := h.service.UpdateComment(
		r.Context(),
		middleware.GetActor(r.Context()),
		id.title,
		id.review,
		id.comment,
		req,
	)
	if err != nil {
		writeError(w, "comment", err)
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := ids(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}

	err := h.service.DeleteComment(
		r.Context(),
		middleware.GetActor(r.Context()),
		id.title,
		id.review,
		id.comment,
	)
	if err != nil {
		writeError(w, "comment", err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, resource string, err error) {
	var conflict *core.ConflictError

	switch {
	case errors.Is(err, core.ErrUnauthorized), errors.Is(err, core.ErrForbidden):
		middleware.WriteAccessError(w, err)
	case errors.As(err, &conflict):
		core.JSONError(w, core.DuplicateError(conflict.Field))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}

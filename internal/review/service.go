// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/core"
)

// Service owns reviews and their comments. Every write passes the actor
// and the fetched row through the policy, so only the author or staff
// may change or remove an existing entry.
type Service struct {
	repo   Repository
	policy access.Policy
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:   repo,
		policy: access.AuthorOrStaffElseReadOnly,
		logger: logger,
	}
}

func (s *Service) ListReviews(
	ctx context.Context,
	titleID string,
	params ListParams,
) ([]Review, int, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListReviews(ctx, titleID, params)
}

func (s *Service) GetReview(
	ctx context.Context,
	titleID, reviewID string,
) (*Review, error) {
	return s.repo.GetReview(ctx, titleID, reviewID)
}

func (s *Service) CreateReview(
	ctx context.Context,
	actor *access.Actor,
	titleID string,
	req CreateReviewRequest,
) (_ *Review, err error) {
	ctx, span := core.StartSpan(ctx, "review.CreateReview",
		attribute.String("title.id", titleID),
	)
	defer func() { core.EndSpan(span, err) }()

	if err := s.authorize(actor, http.MethodPost, nil); err != nil {
		return nil, err
	}
	if err := checkScore(req.Score); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:       uuid.New().String(),
		TitleID:  titleID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     req.Text,
		Score:    req.Score,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *Service) UpdateReview(
	ctx context.Context,
	actor *access.Actor,
	titleID, reviewID string,
	req UpdateReviewRequest,
) (*Review, error) {
	review, err := s.repo.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(actor, http.MethodPatch, review); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := checkScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.repo.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *Service) DeleteReview(
	ctx context.Context,
	actor *access.Actor,
	titleID, reviewID string,
) error {
	review, err := s.repo.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := s.authorize(actor, http.MethodDelete, review); err != nil {
		return err
	}

	if review.AuthorID != actor.ID {
		s.logger.Info("review removed by staff",
			"review_id", review.ID,
			"author_id", review.AuthorID,
			"actor_id", actor.ID,
		)
	}

	return s.repo.DeleteReview(ctx, review.ID)
}

func (s *Service) ListComments(
	ctx context.Context,
	titleID, reviewID string,
	params ListParams,
) ([]Comment, int, error) {
	if _, err := s.repo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListComments(ctx, reviewID, params)
}

func (s *Service) GetComment(
	ctx context.Context,
	titleID, reviewID, commentID string,
) (*Comment, error) {
	if _, err := s.repo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	return s.repo.GetComment(ctx, reviewID, commentID)
}

func (s *Service) CreateComment(
	ctx context.Context,
	actor *access.Actor,
	titleID, reviewID string,
	req CreateCommentRequest,
) (*Comment, error) {
	if err := s.authorize(actor, http.MethodPost, nil); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New().String(),
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     req.Text,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) UpdateComment(
	ctx context.Context,
	actor *access.Actor,
	titleID, reviewID, commentID string,
	req UpdateCommentRequest,
) (*Comment, error) {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(actor, http.MethodPatch, comment); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) DeleteComment(
	ctx context.Context,
	actor *access.Actor,
	titleID, reviewID, commentID string,
) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := s.authorize(actor, http.MethodDelete, comment); err != nil {
		return err
	}

	return s.repo.DeleteComment(ctx, comment.ID)
}

func (s *Service) CountContent(ctx context.Context) (map[string]int, error) {
	reviews, comments, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{"reviews": reviews, "comments": comments}, nil
}

func (s *Service) authorize(
	actor *access.Actor,
	method string,
	resource access.Resource,
) error {
	return s.policy.Authorize(access.Request{
		Actor:    actor,
		Method:   method,
		Resource: resource,
	})
}

func (s *Service) requireTitle(ctx context.Context, titleID string) error {
	exists, err := s.repo.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("title %s: %w", titleID, core.ErrNotFound)
	}
	return nil
}

func checkScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf(
			"score must be between %d and %d: %w",
			MinScore, MaxScore, core.ErrInvalidInput,
		)
	}
	return nil
}

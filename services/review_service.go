package services

import (
	"context"
	"errors"
	"strings"

	"storefront/models"
	"storefront/repositories"
)

type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
}

func NewReviewService(reviews repositories.ReviewRepository, users repositories.UserRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviews, userRepo: users}
}

func (s *ReviewService) List(ctx context.Context, limit int) ([]models.Review, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.reviewRepo.List(ctx, limit)
}

// Create stores the review as pending moderation.
func (s *ReviewService) Create(ctx context.Context, userID string, req models.CreateReviewRequest) (*models.Review, error) {
	author := "Anonymous"
	if u, err := s.userRepo.FindByID(ctx, userID); err == nil && u.Name != "" {
		author = u.Name
	}

	review := &models.Review{
		UserID:  userID,
		Author:  author,
		Title:   strings.TrimSpace(req.Title),
		Content: strings.TrimSpace(req.Content),
		Rating:  req.Rating,
		Status:  models.ReviewPending,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Moderate(ctx context.Context, id string, req models.ReviewStatusRequest) error {
	err := s.reviewRepo.UpdateStatus(ctx, id, req.Status, req.Verified)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrReviewNotFound
	}
	return err
}

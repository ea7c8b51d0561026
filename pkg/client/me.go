package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/hermes-client/pkg/models"
	"github.com/hashicorp-forge/hermes-client/pkg/transport"
)

// ReviewsService wraps review endpoints.
type ReviewsService struct {
	doer Doer
}

// Mine returns documents awaiting the current user's review.
func (s *ReviewsService) Mine(ctx context.Context) ([]models.DocumentReview, error) {
	return myReviews(ctx, s.doer)
}

// MeService wraps endpoints about the authenticated user.
type MeService struct {
	doer Doer
}

// Profile returns the current user and their subscriptions.
func (s *MeService) Profile(ctx context.Context) (*models.MeProfile, error) {
	var profile models.MeProfile
	req := transport.Request{Method: http.MethodGet, Path: "me"}
	if err := do(ctx, s.doer, req, &profile); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Reviews returns documents awaiting the current user's review.
func (s *MeService) Reviews(ctx context.Context) ([]models.DocumentReview, error) {
	return myReviews(ctx, s.doer)
}

// Subscriptions returns the products the current user follows.
func (s *MeService) Subscriptions(ctx context.Context) ([]string, error) {
	var resp struct {
		Subscriptions []string `json:"subscriptions"`
	}
	req := transport.Request{Method: http.MethodGet, Path: "me/subscriptions"}
	if err := do(ctx, s.doer, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	if resp.Subscriptions == nil {
		return []string{}, nil
	}
	return resp.Subscriptions, nil
}

// RecentlyViewed returns up to limit recently viewed documents.
func (s *MeService) RecentlyViewed(ctx context.Context, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = 10
	}

	var docs []models.Document
	req := transport.Request{
		Method: http.MethodGet,
		Path:   "me/recently-viewed-docs",
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	}
	if err := do(ctx, s.doer, req, &docs); err != nil {
		return nil, fmt.Errorf("failed to get recently viewed documents: %w", err)
	}
	return docs, nil
}

func myReviews(ctx context.Context, d Doer) ([]models.DocumentReview, error) {
	var reviews []models.DocumentReview
	req := transport.Request{Method: http.MethodGet, Path: "me/reviews"}
	if err := do(ctx, d, req, &reviews); err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/procure-match/backend/internal/domain/entity"
)

// LoginRequest represents the request body for reviewer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the response for authentication endpoints.
type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	Reviewer    ReviewerResponse `json:"reviewer"`
}

// ReviewerResponse represents the reviewer data in API responses.
type ReviewerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ToReviewerResponse converts a domain Reviewer entity to a ReviewerResponse DTO.
func ToReviewerResponse(reviewer *entity.Reviewer) ReviewerResponse {
	return ReviewerResponse{
		ID:        reviewer.ID.String(),
		Email:     reviewer.Email,
		Name:      reviewer.Name,
		CreatedAt: reviewer.CreatedAt,
	}
}

// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"fmt"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
)

// LoginReviewerInput represents the input for reviewer login.
type LoginReviewerInput struct {
	Email    string
	Password string
}

// LoginReviewerOutput represents the output of reviewer login.
type LoginReviewerOutput struct {
	AccessToken string
	Reviewer    *entity.Reviewer
}

// LoginReviewerUseCase handles reviewer login logic.
type LoginReviewerUseCase struct {
	reviewerRepo    adapter.ReviewerRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewLoginReviewerUseCase creates a new LoginReviewerUseCase instance.
func NewLoginReviewerUseCase(
	reviewerRepo adapter.ReviewerRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *LoginReviewerUseCase {
	return &LoginReviewerUseCase{
		reviewerRepo:    reviewerRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute performs the reviewer login.
func (uc *LoginReviewerUseCase) Execute(ctx context.Context, input LoginReviewerInput) (*LoginReviewerOutput, error) {
	reviewer, err := uc.reviewerRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		// Return generic error to prevent email enumeration
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid email or password",
			domainerror.ErrInvalidCredentials,
		)
	}

	if err := uc.passwordService.VerifyPassword(reviewer.PasswordHash, input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid email or password",
			domainerror.ErrInvalidCredentials,
		)
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(ctx, reviewer.ID, reviewer.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &LoginReviewerOutput{
		AccessToken: accessToken,
		Reviewer:    reviewer,
	}, nil
}

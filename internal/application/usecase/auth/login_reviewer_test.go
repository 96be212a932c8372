package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
)

type fakeReviewerRepo struct {
	reviewers map[string]*entity.Reviewer
}

func (f *fakeReviewerRepo) Create(_ context.Context, reviewer *entity.Reviewer) error {
	f.reviewers[reviewer.Email] = reviewer
	return nil
}

func (f *fakeReviewerRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reviewer, error) {
	for _, reviewer := range f.reviewers {
		if reviewer.ID == id {
			return reviewer, nil
		}
	}
	return nil, domainerror.ErrReviewerNotFound
}

func (f *fakeReviewerRepo) FindByEmail(_ context.Context, email string) (*entity.Reviewer, error) {
	reviewer, ok := f.reviewers[email]
	if !ok {
		return nil, domainerror.ErrReviewerNotFound
	}
	return reviewer, nil
}

// fakePasswordService matches when the stored hash is "hashed:" + password.
type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type fakeTokenService struct {
	token string
	err   error
}

func (f *fakeTokenService) GenerateAccessToken(_ context.Context, _ uuid.UUID, _ string) (string, error) {
	return f.token, f.err
}

func (f *fakeTokenService) ValidateAccessToken(_ context.Context, _ string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func TestLoginReviewerUseCase_Execute(t *testing.T) {
	reviewer := entity.NewReviewer("ap@example.com", "AP Clerk", "hashed:secret123")
	repo := &fakeReviewerRepo{reviewers: map[string]*entity.Reviewer{reviewer.Email: reviewer}}
	tokens := &fakeTokenService{token: "signed-token"}
	uc := NewLoginReviewerUseCase(repo, fakePasswordService{}, tokens)

	t.Run("valid credentials return a token", func(t *testing.T) {
		output, err := uc.Execute(context.Background(), LoginReviewerInput{
			Email:    "ap@example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.AccessToken != "signed-token" {
			t.Errorf("expected the signed token, got %s", output.AccessToken)
		}
		if output.Reviewer.Email != "ap@example.com" {
			t.Errorf("expected reviewer in output, got %s", output.Reviewer.Email)
		}
	})

	t.Run("wrong password yields a generic credentials error", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), LoginReviewerInput{
			Email:    "ap@example.com",
			Password: "wrong",
		})
		var authErr *domainerror.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected an auth error, got %v", err)
		}
		if authErr.Code != domainerror.ErrCodeInvalidCredentials {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidCredentials, authErr.Code)
		}
	})

	t.Run("unknown email yields the same generic error", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), LoginReviewerInput{
			Email:    "nobody@example.com",
			Password: "secret123",
		})
		var authErr *domainerror.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected an auth error, got %v", err)
		}
		if authErr.Code != domainerror.ErrCodeInvalidCredentials {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidCredentials, authErr.Code)
		}
	})
}

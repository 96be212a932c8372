package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reviewer is a procurement team member allowed to review match results and
// apply resolutions. The reviewer's identity is the actor on every audit
// event.
type Reviewer struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewReviewer creates a new Reviewer entity.
func NewReviewer(email, name, passwordHash string) *Reviewer {
	now := time.Now().UTC()
	return &Reviewer{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

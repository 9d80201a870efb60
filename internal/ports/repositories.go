package ports

import (
	"context"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
)

// InterviewRepository archives completed interviews.
type InterviewRepository interface {
	Save(ctx context.Context, record *domain.InterviewRecord) error
	FindByID(ctx context.Context, id string) (*domain.InterviewRecord, error)
	FindByIdentity(ctx context.Context, identity string, limit, offset int) ([]domain.InterviewRecord, error)
}

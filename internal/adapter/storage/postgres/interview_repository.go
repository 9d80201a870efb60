package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

type InterviewRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInterviewRepository(db *gorm.DB, log *zap.Logger) ports.InterviewRepository {
	return &InterviewRepository{
		db:  db,
		log: log,
	}
}

func (r *InterviewRepository) Save(ctx context.Context, record *domain.InterviewRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*domain.InterviewRecord, error) {
	var record domain.InterviewRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *InterviewRepository) FindByIdentity(ctx context.Context, identity string, limit, offset int) ([]domain.InterviewRecord, error) {
	var records []domain.InterviewRecord
	err := r.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("ended_at desc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

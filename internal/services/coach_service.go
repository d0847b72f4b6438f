package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"go.uber.org/zap"
)

type coachReader interface {
	ListAll(ctx context.Context) ([]models.Coach, error)
	GetByID(ctx context.Context, coachID uuid.UUID) (*models.Coach, error)
}

type coachCatalogCache interface {
	Get(ctx context.Context) ([]models.Coach, bool, error)
	Set(ctx context.Context, coaches []models.Coach) error
}

type CoachService struct {
	coachRepo coachReader
	cache     coachCatalogCache
	logger    *zap.Logger
}

// NewCoachService builds the coach catalog service. cache may be nil.
func NewCoachService(coachRepo coachReader, cache coachCatalogCache, logger *zap.Logger) *CoachService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachService{
		coachRepo: coachRepo,
		cache:     cache,
		logger:    logger,
	}
}

// AvailableCoachesResult is the matched coach list plus the tier that was
// required to get there.
type AvailableCoachesResult struct {
	Coaches           []models.Coach
	RequiredSeniority models.SeniorityLevel
}

func (s *CoachService) ListCoaches(ctx context.Context) ([]models.Coach, error) {
	if s.cache != nil {
		coaches, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("coach cache read failed", zap.Error(err))
		} else if ok {
			return coaches, nil
		}
	}

	coaches, err := s.coachRepo.ListAll(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, coaches); err != nil {
			s.logger.Warn("coach cache write failed", zap.Error(err))
		}
	}
	return coaches, nil
}

func (s *CoachService) GetCoach(ctx context.Context, coachID uuid.UUID) (*models.Coach, error) {
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, translateStorageError(err)
	}
	return coach, nil
}

func (s *CoachService) AvailableCoaches(ctx context.Context, riskScore int, lang string) (*AvailableCoachesResult, error) {
	required, err := RequiredSeniority(riskScore)
	if err != nil {
		return nil, err
	}

	coaches, err := s.ListCoaches(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := MatchCoaches(coaches, riskScore, lang)
	if err != nil {
		return nil, err
	}

	return &AvailableCoachesResult{
		Coaches:           matched,
		RequiredSeniority: required,
	}, nil
}

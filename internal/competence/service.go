package competence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	competenceDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/competence"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*competenceDatamodel.Competence, error)
	// GetByID and GetByName return nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*competenceDatamodel.Competence, error)
	GetByName(ctx context.Context, nom string) (*competenceDatamodel.Competence, error)
	Create(ctx context.Context, competence *competenceDatamodel.Competence) error
	Update(ctx context.Context, competence *competenceDatamodel.Competence) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Competence, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get competences from repository", "error", err)
		return nil, fmt.Errorf("list competences: %w", err)
	}

	competences := make([]*Competence, 0, len(rows))
	for _, row := range rows {
		competences = append(competences, FromDataModel(row))
	}

	s.logger.DebugContext(ctx, "retrieved competences", "count", len(competences))
	return competences, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Competence, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get competence: %w", err)
	}
	if row == nil {
		return nil, apperrors.ErrCompetenceNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CompetenceDTO) (*Competence, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Nom, 0); err != nil {
		return nil, err
	}

	c := NewCompetence(dto.Nom, dto.Description)
	row := ToDataModel(c)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.storageError(ctx, "create competence", err)
	}

	s.logger.InfoContext(ctx, "competence created", "competence_id", row.ID, "nom", row.Nom, "caller_id", apperrors.UserIDFromContext(ctx))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CompetenceDTO) (*Competence, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Nom, id); err != nil {
		return nil, err
	}

	existing.Rename(dto.Nom, dto.Description)
	row := ToDataModel(existing)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.storageError(ctx, "update competence", err)
	}

	s.logger.InfoContext(ctx, "competence updated", "competence_id", id, "caller_id", apperrors.UserIDFromContext(ctx))
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete competence", "competence_id", id, "error", err)
		return fmt.Errorf("delete competence: %w", err)
	}
	if !deleted {
		return apperrors.ErrCompetenceNotFound
	}

	s.logger.InfoContext(ctx, "competence deleted", "competence_id", id, "caller_id", apperrors.UserIDFromContext(ctx))
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, nom string, selfID int64) error {
	other, err := s.repo.GetByName(ctx, strings.TrimSpace(nom))
	if err != nil {
		return fmt.Errorf("check competence name: %w", err)
	}
	if other != nil && other.ID != selfID {
		return apperrors.ErrCompetenceNameTaken
	}
	return nil
}

// storageError maps a unique violation lost to a concurrent writer onto the conflict error.
func (s *Service) storageError(ctx context.Context, op string, err error) error {
	if errors.Is(err, apperrors.ErrCompetenceNameTaken) {
		return err
	}
	s.logger.ErrorContext(ctx, "failed to "+op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/competence"
	competenceDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/competence"
	"gorm.io/gorm"
)

type CompetenceRepository struct {
	db *gorm.DB
}

func NewCompetenceRepository(db *gorm.DB) competence.RepositoryAPI {
	return &CompetenceRepository{db: db}
}

func (r *CompetenceRepository) GetAll(ctx context.Context) ([]*competenceDatamodel.Competence, error) {
	var competences []*competenceDatamodel.Competence
	err := r.db.WithContext(ctx).Order("nom ASC").Find(&competences).Error
	return competences, err
}

func (r *CompetenceRepository) GetByID(ctx context.Context, id int64) (*competenceDatamodel.Competence, error) {
	var c competenceDatamodel.Competence
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompetenceRepository) GetByName(ctx context.Context, nom string) (*competenceDatamodel.Competence, error) {
	var c competenceDatamodel.Competence
	err := r.db.WithContext(ctx).Where("nom = ?", nom).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompetenceRepository) Create(ctx context.Context, c *competenceDatamodel.Competence) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CompetenceRepository) Update(ctx context.Context, c *competenceDatamodel.Competence) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

// Delete reports whether a row was removed.
func (r *CompetenceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&competenceDatamodel.Competence{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrCompetenceNameTaken
	}
	return err
}

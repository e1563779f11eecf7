package competence

import (
	"strings"
	"time"

	competenceDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/competence"
)

type Competence struct {
	ID          int64     `json:"id"`
	Nom         string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCompetence(nom, description string) *Competence {
	now := time.Now().UTC()
	return &Competence{
		Nom:         strings.TrimSpace(nom),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c *Competence) Rename(nom, description string) {
	c.Nom = strings.TrimSpace(nom)
	c.Description = description
	c.UpdatedAt = time.Now().UTC()
}

func ToDataModel(c *Competence) *competenceDatamodel.Competence {
	return &competenceDatamodel.Competence{
		ID:          c.ID,
		Nom:         c.Nom,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *competenceDatamodel.Competence) *Competence {
	return &Competence{
		ID:          c.ID,
		Nom:         c.Nom,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

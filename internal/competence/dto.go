package competence

import (
	"strings"

	"github.com/frahmantamala/hr-admin/internal/core/common/validation"
)

type CompetenceDTO struct {
	Nom         string `json:"nom"`
	Description string `json:"description"`
}

func (d CompetenceDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("nom", strings.TrimSpace(d.Nom)).Required().MaxLength(100)
	validator.Field("description", d.Description).MaxLength(500)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

package competence

import "time"

type Competence struct {
	ID          int64     `gorm:"primaryKey"`
	Nom         string    `gorm:"column:nom;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Competence) TableName() string {
	return "competences"
}

package journal

import "time"

// JournalAction has no foreign key to users: entries outlive the actor.
type JournalAction struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index:idx_journal_user_occurred,priority:1"`
	ActorName   string    `gorm:"column:actor_name;not null"`
	Action      string    `gorm:"column:action;not null"`
	Description string    `gorm:"column:description;not null"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null;index:idx_journal_user_occurred,priority:2"`
}

func (JournalAction) TableName() string {
	return "journal_actions"
}

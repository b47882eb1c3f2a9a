package models

import "time"

// Interview is 1:1 with an Application; the unique index on application_id
// is what closes the check-then-insert race on first link creation.
type Interview struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicationID string    `gorm:"column:application_id;type:uuid;uniqueIndex" json:"application_id"`
	ScheduledAt   time.Time `gorm:"column:scheduled_at;type:timestamptz" json:"scheduled_at"`
	URL           string    `gorm:"column:url;type:text" json:"url"`
	CreatedDate   time.Time `gorm:"column:created_date;type:timestamptz" json:"created_date"`
}

func (Interview) TableName() string { return "interviews" }

package models

import "time"

type Notification struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	IsRead      bool      `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedDate time.Time `gorm:"column:created_date;type:timestamptz;index" json:"created_date"`
}

func (Notification) TableName() string { return "notifications" }

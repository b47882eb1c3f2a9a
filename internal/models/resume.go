package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Resume struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex" json:"user_id"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	// JSONB (raw JSON, flexible structure)
	Experience  datatypes.JSON `gorm:"column:experience;type:jsonb" json:"experience"`
	Education   datatypes.JSON `gorm:"column:education;type:jsonb" json:"education"`
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb" json:"preferences"`

	LinkedinURL string    `gorm:"column:linkedin_url;type:text" json:"linkedin_url"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Resume) TableName() string { return "resumes" }

// CV is an uploaded document; the file itself lives in external storage and
// only its URL is kept here.
type CV struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title       string    `gorm:"column:title;type:text" json:"title"`
	FilePath    string    `gorm:"column:file_path;type:text" json:"file_path"`
	IsDefault   bool      `gorm:"column:is_default;default:false" json:"is_default"`
	CreatedDate time.Time `gorm:"column:created_date;type:timestamptz" json:"created_date"`
	UpdatedDate time.Time `gorm:"column:updated_date;type:timestamptz" json:"updated_date"`
}

func (CV) TableName() string { return "cvs" }

package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleJobSeeker UserRole = "JOBSEEKER"
	RoleRecruiter UserRole = "RECRUITER"
)

// ParseUserRole rejects unknown role strings instead of defaulting.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleJobSeeker:
		return RoleJobSeeker, true
	case RoleRecruiter:
		return RoleRecruiter, true
	default:
		return "", false
	}
}

// Identity comes from the auth boundary (JWT); no credentials are stored here.
type User struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username   string    `gorm:"column:username;type:text;uniqueIndex" json:"username"`
	Email      string    `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	FirstName  string    `gorm:"column:first_name;type:text" json:"first_name"`
	LastName   string    `gorm:"column:last_name;type:text" json:"last_name"`
	Role       UserRole  `gorm:"column:role;type:text;index" json:"role"`
	Avatar     string    `gorm:"column:avatar;type:text" json:"avatar"`
	Phone      string    `gorm:"column:phone;type:text" json:"phone"`
	IsActive   bool      `gorm:"column:is_active;default:true" json:"is_active"`
	JoinedDate time.Time `gorm:"column:joined_date;type:timestamptz" json:"joined_date"`
}

func (User) TableName() string { return "users" }

type Company struct {
	ID           string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID       string `gorm:"column:user_id;type:uuid;uniqueIndex" json:"user_id"`
	CompanyName  string `gorm:"column:company_name;type:text" json:"company_name"`
	Website      string `gorm:"column:website;type:text" json:"website"`
	Introduction string `gorm:"column:introduction;type:text" json:"introduction"`
	Industry     string `gorm:"column:industry;type:text" json:"industry"`
	CompanySize  string `gorm:"column:company_size;type:text" json:"company_size"`
	Address      string `gorm:"column:address;type:text" json:"address"`
}

func (Company) TableName() string { return "companies" }

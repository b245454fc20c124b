package models

// AdminUser is a staff account allowed to use the admin API.
type AdminUser struct {
	BaseModel
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

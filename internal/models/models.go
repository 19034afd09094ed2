package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	StatusActive  = "active"
	StatusSoldOut = "sold_out"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken is one row of the refresh token registry. Rows are only ever
// inserted or revoked; the user cascade is the only delete path.
type RefreshToken struct {
	TokenID           string     `gorm:"primaryKey;size:36"           json:"token_id"`
	UserID            uint       `gorm:"index;not null"               json:"user_id"`
	User              *User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	IsRevoked         bool       `gorm:"not null;default:false"       json:"is_revoked"`
	ExpiresAt         time.Time  `gorm:"not null"                     json:"expires_at"`
	CreatedAt         time.Time  `gorm:"not null"                     json:"created_at"`
	RevokedAt         *time.Time `json:"revoked_at,omitempty"`
	ReplacedByTokenID *string    `gorm:"size:36"                      json:"replaced_by_token_id,omitempty"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string    `gorm:"not null"                   json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                   json:"price"`
	Stock       int       `gorm:"not null;default:0"         json:"stock"`
	Category    string    `json:"category"`
	Tag         string    `json:"tag"`
	ImageURL    string    `json:"image_url"`
	SpecFileURL string    `json:"spec_file_url"`
	Status      string    `gorm:"not null;default:active"    json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Color string `gorm:"not null;default:''"      json:"color"`
}

// SiteConfig is a singleton row with ID 1.
type SiteConfig struct {
	ID          uint      `gorm:"primaryKey"                          json:"id"`
	WhatsApp    string    `gorm:"column:whatsapp;not null;default:''" json:"whatsapp"`
	Maintenance bool      `gorm:"not null;default:false"              json:"maintenance"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SiteConfig) TableName() string {
	return "site_config"
}

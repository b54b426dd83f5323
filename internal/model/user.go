package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Mobile    string         `json:"mobile" gorm:"not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"not null"` // bcrypt hash
	Name      string         `json:"name" gorm:"not null"`
	Branch    string         `json:"branch" gorm:"not null"`
	Role      string         `json:"role" gorm:"default:'user'"` // "user", "admin"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

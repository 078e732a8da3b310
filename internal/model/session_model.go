package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	SessionId       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId          string         `gorm:"type:varchar(64);not null;index"` // External identity from the JWT
	Title           string         `gorm:"type:text;not null"`
	Sharable        bool           `gorm:"not null;default:false"`
	TitleSummarized bool           `gorm:"not null;default:false"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}

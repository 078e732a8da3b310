package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatLog stores the whole message log of a session as one jsonb document,
// keyed 1:1 by session id. Exchange append order inside the document is the
// replay order.
type ChatLog struct {
	SessionId uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Messages  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the conversation identity record. SessionId doubles as the share
// capability: anyone holding the id can read a shared session's history, so it
// must be an unguessable UUIDv4.
type Session struct {
	SessionId       uuid.UUID
	UserId          string
	Title           string
	Sharable        bool
	TitleSummarized bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}

package specification

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters by session id
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByUserID filters by the owning user
type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// NotDeleted filters out soft-deleted records explicitly.
// GORM already scopes DeletedAt automatically; this exists for queries that
// need to be explicit about it.
type NotDeleted struct{}

func (s NotDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// ByMessageID matches chat logs whose jsonb document contains a question
// record with the given messageId, via a Postgres containment query.
type ByMessageID struct {
	MessageID uuid.UUID
}

func (s ByMessageID) Apply(db *gorm.DB) *gorm.DB {
	probe, _ := json.Marshal([]map[string]interface{}{
		{"data": []map[string]interface{}{{"messageId": s.MessageID}}},
	})
	return db.Where("messages @> ?", string(probe))
}

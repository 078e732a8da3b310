package mapper

import (
	"time"

	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/model"

	"gorm.io/gorm"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		SessionId:       s.SessionId,
		UserId:          s.UserId,
		Title:           s.Title,
		Sharable:        s.Sharable,
		TitleSummarized: s.TitleSummarized,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       s.DeletedAt.Valid,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		SessionId:       s.SessionId,
		UserId:          s.UserId,
		Title:           s.Title,
		Sharable:        s.Sharable,
		TitleSummarized: s.TitleSummarized,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

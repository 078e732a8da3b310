package dto

import (
	"time"

	"ai-webchat-be/internal/entity"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	UserId string `json:"userId" validate:"required"`
	Title  string `json:"title" validate:"required"`
}

type CreateSessionResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
	Sharable  bool      `json:"sharable"`
	IsDeleted bool      `json:"isDeleted"`
	UserId    string    `json:"userId"`
	Title     string    `json:"title"`
}

// SessionTitleResponse is one sidebar entry of the title history.
type SessionTitleResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type SessionDetailResponse struct {
	SessionId uuid.UUID  `json:"sessionId"`
	UserId    string     `json:"userId"`
	Title     string     `json:"title"`
	Sharable  bool       `json:"sharable"`
	IsDeleted bool       `json:"isDeleted"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type SessionPageResponse struct {
	TotalSessions int64                    `json:"totalSessions"`
	Sessions      []*SessionDetailResponse `json:"sessions"`
	Limit         int                      `json:"limit"`
	Skip          int                      `json:"skip"`
}

type SessionHistoryResponse struct {
	SessionId uuid.UUID         `json:"sessionId"`
	Messages  []entity.Exchange `json:"messages"`
}

type ShareSessionResponse struct {
	Message      string `json:"message"`
	ShareableUrl string `json:"shareableUrl"`
}

type RenameSessionRequest struct {
	NewTitle string `json:"newTitle" validate:"required"`
}

type SessionMutationResponse struct {
	Message string                 `json:"message"`
	Session *SessionDetailResponse `json:"session,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func SessionToDetail(s *entity.Session) *SessionDetailResponse {
	if s == nil {
		return nil
	}
	return &SessionDetailResponse{
		SessionId: s.SessionId,
		UserId:    s.UserId,
		Title:     s.Title,
		Sharable:  s.Sharable,
		IsDeleted: s.IsDeleted,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

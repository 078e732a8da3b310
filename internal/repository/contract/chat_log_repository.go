package contract

import (
	"context"

	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatLogRepository interface {
	Create(ctx context.Context, log *entity.ChatLog) error
	// Update rewrites the whole jsonb exchange document. Callers must hold the
	// session mutation lock so concurrent read-modify-write cycles cannot
	// interleave.
	Update(ctx context.Context, log *entity.ChatLog) error
	Delete(ctx context.Context, sessionId uuid.UUID) error // soft delete
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatLog, error)
}

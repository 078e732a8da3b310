package unitofwork

import (
	"context"

	"ai-webchat-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin/Commit
// make paired session+log writes atomic (create and delete must never leave
// one of the two rows behind).
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	ChatLogRepository() contract.ChatLogRepository
}

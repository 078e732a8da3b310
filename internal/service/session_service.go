// FILE: internal/service/session_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/dto"
	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/repository/memory"
	"ai-webchat-be/internal/repository/specification"
	"ai-webchat-be/internal/repository/unitofwork"
	"ai-webchat-be/pkg/events"
	pktNats "ai-webchat-be/pkg/nats"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	TitleHistory(ctx context.Context, userId string) ([]*dto.SessionTitleResponse, error)
	ListSessions(ctx context.Context, userId string, limit, skip int) (*dto.SessionPageResponse, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error)
	GetSharedHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error)
	Share(ctx context.Context, sessionId uuid.UUID) (*dto.ShareSessionResponse, error)
	Unshare(ctx context.Context, sessionId uuid.UUID) (*dto.SessionMutationResponse, error)
	Rename(ctx context.Context, sessionId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionMutationResponse, error)
	Delete(ctx context.Context, sessionId uuid.UUID) (*dto.MessageResponse, error)
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	listCache      *memory.SessionListCache
	eventPublisher *pktNats.Publisher
	baseURL        string
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	listCache *memory.SessionListCache,
	eventPublisher *pktNats.Publisher,
	baseURL string,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		listCache:      listCache,
		eventPublisher: eventPublisher,
		baseURL:        baseURL,
	}
}

// Create persists the session row and its empty chat log in one transaction,
// so neither can exist without the other.
func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := entity.Session{
		SessionId: uuid.New(),
		UserId:    req.UserId,
		Title:     req.Title,
		Sharable:  false,
		CreatedAt: time.Now(),
	}
	log := entity.ChatLog{
		SessionId: session.SessionId,
		Messages:  []entity.Exchange{},
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.ChatLogRepository().Create(ctx, &log); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.listCache.Invalidate(req.UserId)
	s.publishEvent(ctx, events.SessionCreated, map[string]interface{}{
		"session_id": session.SessionId,
		"user_id":    session.UserId,
		"title":      session.Title,
	})

	return &dto.CreateSessionResponse{
		SessionId: session.SessionId,
		Sharable:  session.Sharable,
		IsDeleted: session.IsDeleted,
		UserId:    session.UserId,
		Title:     session.Title,
	}, nil
}

// TitleHistory returns the sidebar list, newest first, served from the
// per-user cache when possible.
func (s *sessionService) TitleHistory(ctx context.Context, userId string) ([]*dto.SessionTitleResponse, error) {
	if titles, found := s.listCache.Get(userId); found {
		return titles, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	titles := make([]*dto.SessionTitleResponse, 0, len(sessions))
	for _, session := range sessions {
		titles = append(titles, &dto.SessionTitleResponse{
			SessionId: session.SessionId,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
		})
	}

	if len(titles) > 0 {
		s.listCache.Set(userId, titles)
	}
	return titles, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userId string, limit, skip int) (*dto.SessionPageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.SessionRepository().Count(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: skip},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	page := &dto.SessionPageResponse{
		TotalSessions: total,
		Sessions:      make([]*dto.SessionDetailResponse, 0, len(sessions)),
		Limit:         limit,
		Skip:          skip,
	}
	for _, session := range sessions {
		page.Sessions = append(page.Sessions, dto.SessionToDetail(session))
	}
	return page, nil
}

func (s *sessionService) GetHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}
	return s.history(ctx, uow, session.SessionId)
}

// GetSharedHistory serves the read-only share link. The session id is the
// only capability, so a non-sharable session is indistinguishable from an
// absent one.
func (s *sessionService) GetSharedHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}
	if !session.Sharable {
		return nil, apperror.NotFound("Session not found")
	}
	return s.history(ctx, uow, session.SessionId)
}

// Share flips sharable on, idempotently. Repeated calls return the same URL.
func (s *sessionService) Share(ctx context.Context, sessionId uuid.UUID) (*dto.ShareSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	if !session.Sharable {
		session.Sharable = true
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			return nil, apperror.Persistence(err)
		}
	}

	return &dto.ShareSessionResponse{
		Message:      "Session is now shareable",
		ShareableUrl: fmt.Sprintf("%s/session/share/%s", s.baseURL, session.SessionId),
	}, nil
}

func (s *sessionService) Unshare(ctx context.Context, sessionId uuid.UUID) (*dto.SessionMutationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	if session.Sharable {
		session.Sharable = false
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			return nil, apperror.Persistence(err)
		}
	}

	return &dto.SessionMutationResponse{
		Message: "Session sharing disabled",
		Session: dto.SessionToDetail(session),
	}, nil
}

// Rename sets the title and marks it summarized so a late async
// summarization cannot overwrite what the user typed.
func (s *sessionService) Rename(ctx context.Context, sessionId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionMutationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	session.Title = req.NewTitle
	session.TitleSummarized = true
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.listCache.Invalidate(session.UserId)
	s.publishEvent(ctx, events.SessionTitleUpdated, map[string]interface{}{
		"session_id": session.SessionId,
		"user_id":    session.UserId,
		"title":      session.Title,
	})

	return &dto.SessionMutationResponse{
		Message: "Session renamed",
		Session: dto.SessionToDetail(session),
	}, nil
}

// Delete soft-deletes the session and its chat log together.
func (s *sessionService) Delete(ctx context.Context, sessionId uuid.UUID) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().Delete(ctx, sessionId); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.ChatLogRepository().Delete(ctx, sessionId); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.listCache.Invalidate(session.UserId)
	s.publishEvent(ctx, events.SessionDeleted, map[string]interface{}{
		"session_id": session.SessionId,
		"user_id":    session.UserId,
	})

	return &dto.MessageResponse{Message: "Session deleted successfully"}, nil
}

func (s *sessionService) findSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if session == nil {
		return nil, apperror.NotFound("Session not found")
	}
	return session, nil
}

func (s *sessionService) history(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	log, err := uow.ChatLogRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if log == nil {
		return nil, apperror.NotFound("Session not found")
	}
	return &dto.SessionHistoryResponse{
		SessionId: sessionId,
		Messages:  log.Messages,
	}, nil
}

func (s *sessionService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewBaseEvent(eventType, data)
	// Auxiliary; a dead bus must not fail the request
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

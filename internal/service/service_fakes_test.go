package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/repository/contract"
	"ai-webchat-be/internal/repository/specification"
	"ai-webchat-be/internal/repository/unitofwork"
	"ai-webchat-be/pkg/llm"

	"github.com/google/uuid"
)

// --- In-memory repositories ---

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
	findAlls int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	clone := *session
	r.sessions[session.SessionId] = &clone
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.Session) error {
	if _, ok := r.sessions[session.SessionId]; !ok {
		return errors.New("session missing")
	}
	clone := *session
	r.sessions[session.SessionId] = &clone
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, sessionId uuid.UUID) error {
	session, ok := r.sessions[sessionId]
	if !ok {
		return errors.New("session missing")
	}
	now := time.Now()
	session.DeletedAt = &now
	session.IsDeleted = true
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, session := range r.matches(specs) {
		clone := *session
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	r.findAlls++
	matched := r.matches(specs)

	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "created_at" {
			sort.Slice(matched, func(i, j int) bool {
				if order.Desc {
					return matched[i].CreatedAt.After(matched[j].CreatedAt)
				}
				return matched[i].CreatedAt.Before(matched[j].CreatedAt)
			})
		}
	}
	for _, spec := range specs {
		if page, ok := spec.(specification.Pagination); ok {
			if page.Offset >= len(matched) {
				matched = nil
				break
			}
			matched = matched[page.Offset:]
			if page.Limit < len(matched) {
				matched = matched[:page.Limit]
			}
		}
	}

	out := make([]*entity.Session, 0, len(matched))
	for _, session := range matched {
		clone := *session
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.matches(specs))), nil
}

func (r *fakeSessionRepo) matches(specs []specification.Specification) []*entity.Session {
	var out []*entity.Session
	for _, session := range r.sessions {
		if session.IsDeleted {
			continue
		}
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.BySessionID:
				if session.SessionId != s.SessionID {
					ok = false
				}
			case specification.ByUserID:
				if session.UserId != s.UserID {
					ok = false
				}
			}
		}
		if ok {
			out = append(out, session)
		}
	}
	return out
}

type fakeChatLogRepo struct {
	logs map[uuid.UUID]*entity.ChatLog
}

func newFakeChatLogRepo() *fakeChatLogRepo {
	return &fakeChatLogRepo{logs: make(map[uuid.UUID]*entity.ChatLog)}
}

func cloneLog(log *entity.ChatLog) *entity.ChatLog {
	raw, _ := json.Marshal(log.Messages)
	var messages []entity.Exchange
	_ = json.Unmarshal(raw, &messages)
	if messages == nil {
		messages = []entity.Exchange{}
	}
	return &entity.ChatLog{SessionId: log.SessionId, Messages: messages}
}

func (r *fakeChatLogRepo) Create(_ context.Context, log *entity.ChatLog) error {
	r.logs[log.SessionId] = cloneLog(log)
	return nil
}

func (r *fakeChatLogRepo) Update(_ context.Context, log *entity.ChatLog) error {
	if _, ok := r.logs[log.SessionId]; !ok {
		return errors.New("chat log missing")
	}
	r.logs[log.SessionId] = cloneLog(log)
	return nil
}

func (r *fakeChatLogRepo) Delete(_ context.Context, sessionId uuid.UUID) error {
	if _, ok := r.logs[sessionId]; !ok {
		return errors.New("chat log missing")
	}
	delete(r.logs, sessionId)
	return nil
}

func (r *fakeChatLogRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatLog, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.BySessionID:
			if log, ok := r.logs[s.SessionID]; ok {
				return cloneLog(log), nil
			}
			return nil, nil
		case specification.ByMessageID:
			for _, log := range r.logs {
				if _, record := log.FindRecord(s.MessageID); record != nil {
					return cloneLog(log), nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

// --- Unit of work ---

type fakeUow struct {
	sessions *fakeSessionRepo
	logs     *fakeChatLogRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) SessionRepository() contract.SessionRepository { return u.sessions }
func (u *fakeUow) ChatLogRepository() contract.ChatLogRepository { return u.logs }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

// --- Provider, publisher, notifier ---

type fakeProvider struct {
	responses []string
	chatCalls [][]llm.Message
	genCalls  []string
}

func (f *fakeProvider) next() (string, error) {
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.chatCalls = append(f.chatCalls, history)
	return f.next()
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.genCalls = append(f.genCalls, prompt)
	return f.next()
}

type capturePublisher struct {
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type captureNotifier struct {
	userIds  []string
	sessions []uuid.UUID
	titles   []string
}

func (n *captureNotifier) SendTitleUpdated(userID string, sessionID uuid.UUID, title string) {
	n.userIds = append(n.userIds, userID)
	n.sessions = append(n.sessions, sessionID)
	n.titles = append(n.titles, title)
}

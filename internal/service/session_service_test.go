package service

import (
	"context"
	"testing"
	"time"

	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/dto"
	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type sessionHarness struct {
	sessions *fakeSessionRepo
	logs     *fakeChatLogRepo
	cache    *memory.SessionListCache
	svc      ISessionService
}

func newSessionHarness() *sessionHarness {
	h := &sessionHarness{
		sessions: newFakeSessionRepo(),
		logs:     newFakeChatLogRepo(),
		cache:    memory.NewSessionListCache(),
	}
	factory := &fakeFactory{uow: &fakeUow{sessions: h.sessions, logs: h.logs}}
	h.svc = NewSessionService(factory, h.cache, nil, "http://localhost:3000")
	return h
}

func (h *sessionHarness) create(t *testing.T, userId, title string) *dto.CreateSessionResponse {
	t.Helper()
	res, err := h.svc.Create(context.Background(), &dto.CreateSessionRequest{UserId: userId, Title: title})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return res
}

func TestCreateSessionPersistsBothRows(t *testing.T) {
	h := newSessionHarness()

	res := h.create(t, "user-1", "New chat")

	assert.Equal(t, "user-1", res.UserId)
	assert.Equal(t, "New chat", res.Title)
	assert.False(t, res.Sharable)
	assert.False(t, res.IsDeleted)

	assert.Contains(t, h.sessions.sessions, res.SessionId)
	assert.Contains(t, h.logs.logs, res.SessionId)
	assert.Empty(t, h.logs.logs[res.SessionId].Messages)
}

func TestShareIsIdempotent(t *testing.T) {
	h := newSessionHarness()
	res := h.create(t, "user-1", "New chat")

	first, err := h.svc.Share(context.Background(), res.SessionId)
	assert.NoError(t, err)
	second, err := h.svc.Share(context.Background(), res.SessionId)
	assert.NoError(t, err)

	assert.Equal(t, first.ShareableUrl, second.ShareableUrl)
	assert.Equal(t, "http://localhost:3000/session/share/"+res.SessionId.String(), first.ShareableUrl)

	stored := h.sessions.sessions[res.SessionId]
	assert.True(t, stored.Sharable)
}

func TestShareUnknownSession(t *testing.T) {
	h := newSessionHarness()

	_, err := h.svc.Share(context.Background(), uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSharedHistoryRequiresSharable(t *testing.T) {
	h := newSessionHarness()
	res := h.create(t, "user-1", "New chat")

	_, err := h.svc.GetSharedHistory(context.Background(), res.SessionId)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = h.svc.Share(context.Background(), res.SessionId)
	assert.NoError(t, err)

	history, err := h.svc.GetSharedHistory(context.Background(), res.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, res.SessionId, history.SessionId)
}

func TestUnshareDisablesSharedHistory(t *testing.T) {
	h := newSessionHarness()
	res := h.create(t, "user-1", "New chat")

	_, err := h.svc.Share(context.Background(), res.SessionId)
	assert.NoError(t, err)

	unshared, err := h.svc.Unshare(context.Background(), res.SessionId)
	assert.NoError(t, err)
	assert.False(t, unshared.Session.Sharable)

	_, err = h.svc.GetSharedHistory(context.Background(), res.SessionId)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteSessionRemovesBothRows(t *testing.T) {
	h := newSessionHarness()
	res := h.create(t, "user-1", "New chat")

	msg, err := h.svc.Delete(context.Background(), res.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, "Session deleted successfully", msg.Message)

	_, err = h.svc.GetHistory(context.Background(), res.SessionId)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = h.svc.Delete(context.Background(), res.SessionId)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRenameMarksTitleSettled(t *testing.T) {
	h := newSessionHarness()
	res := h.create(t, "user-1", "New chat")

	renamed, err := h.svc.Rename(context.Background(), res.SessionId, &dto.RenameSessionRequest{NewTitle: "Budget planning"})
	assert.NoError(t, err)
	assert.Equal(t, "Budget planning", renamed.Session.Title)

	stored := h.sessions.sessions[res.SessionId]
	assert.True(t, stored.TitleSummarized)
}

func TestTitleHistoryServedFromCache(t *testing.T) {
	h := newSessionHarness()
	h.create(t, "user-1", "First chat")
	h.create(t, "user-1", "Second chat")

	titles, err := h.svc.TitleHistory(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, titles, 2)
	queriesAfterFirst := h.sessions.findAlls

	again, err := h.svc.TitleHistory(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Equal(t, queriesAfterFirst, h.sessions.findAlls)

	// A new session invalidates the cache
	h.create(t, "user-1", "Third chat")
	refreshed, err := h.svc.TitleHistory(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, refreshed, 3)
}

func TestTitleHistoryOrderedByRecency(t *testing.T) {
	h := newSessionHarness()

	old := &entity.Session{
		SessionId: uuid.New(),
		UserId:    "user-1",
		Title:     "Old chat",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	recent := &entity.Session{
		SessionId: uuid.New(),
		UserId:    "user-1",
		Title:     "Recent chat",
		CreatedAt: time.Now(),
	}
	h.sessions.Create(context.Background(), old)
	h.sessions.Create(context.Background(), recent)

	titles, err := h.svc.TitleHistory(context.Background(), "user-1")
	assert.NoError(t, err)
	if assert.Len(t, titles, 2) {
		assert.Equal(t, "Recent chat", titles[0].Title)
		assert.Equal(t, "Old chat", titles[1].Title)
	}
}

func TestListSessionsPagination(t *testing.T) {
	h := newSessionHarness()
	for i := 0; i < 5; i++ {
		h.sessions.Create(context.Background(), &entity.Session{
			SessionId: uuid.New(),
			UserId:    "user-1",
			Title:     "Chat",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
	}

	page, err := h.svc.ListSessions(context.Background(), "user-1", 2, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalSessions)
	assert.Len(t, page.Sessions, 2)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 1, page.Skip)
}

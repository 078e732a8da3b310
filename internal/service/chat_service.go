// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/constant"
	"ai-webchat-be/internal/dto"
	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/pkg/keyedmutex"
	"ai-webchat-be/internal/pkg/prompt"
	"ai-webchat-be/internal/repository/memory"
	"ai-webchat-be/internal/repository/specification"
	"ai-webchat-be/internal/repository/unitofwork"
	"ai-webchat-be/pkg/events"
	"ai-webchat-be/pkg/llm"
	pktNats "ai-webchat-be/pkg/nats"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

// TitleNotifier pushes title updates to connected clients. Satisfied by the
// websocket hub; an interface here keeps the service free of transport types.
type TitleNotifier interface {
	SendTitleUpdated(userID string, sessionID uuid.UUID, title string)
}

type IChatService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	Regenerate(ctx context.Context, sessionId, messageId uuid.UUID) (*dto.RegenerateResponse, error)
	Navigate(ctx context.Context, sessionId, messageId uuid.UUID, direction int) (*dto.MessageResponse, error)
	SubmitFeedback(ctx context.Context, messageId, answerId uuid.UUID, feedback string) (*dto.FeedbackResponse, error)
	SummarizeTitle(ctx context.Context, sessionId uuid.UUID) (*dto.SessionMutationResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	provider         llm.CompletionProvider
	prompts          *prompt.Builder
	sessionLocks     *keyedmutex.KeyedMutex
	listCache        *memory.SessionListCache
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	titleNotifier    TitleNotifier
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.CompletionProvider,
	prompts *prompt.Builder,
	sessionLocks *keyedmutex.KeyedMutex,
	listCache *memory.SessionListCache,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	titleNotifier TitleNotifier,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		provider:         provider,
		prompts:          prompts,
		sessionLocks:     sessionLocks,
		listCache:        listCache,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		titleNotifier:    titleNotifier,
	}
}

// SendMessage appends a new turn: the provider is called with the full prior
// conversation plus the question, and the reply becomes the turn's first
// answer. The whole read-modify-write runs under the session lock.
func (c *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if req.Question == "" && req.Image == nil {
		return nil, apperror.Validation("Question or image is required")
	}

	// The stored question text falls back to a placeholder for image-only
	// turns; the provider call keeps the raw question so the image travels as
	// its own vision message.
	questionText := req.Question
	if questionText == "" {
		questionText = constant.ImageOnlyQuestionText
	}

	unlock := c.sessionLocks.Lock(req.SessionId.String())
	defer unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	session, log, err := c.findSessionWithLog(ctx, uow, req.SessionId)
	if err != nil {
		return nil, err
	}

	messages := c.prompts.ForSend(log.Messages, req.Question, req.Image)
	answerText, err := c.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	var files []entity.UploadedFile
	if req.Image != nil {
		files = []entity.UploadedFile{*req.Image}
	}

	messageId := uuid.New()
	exchange := entity.NewExchange(messageId, questionText, files, answerText)
	log.Append(exchange)

	if err := uow.ChatLogRepository().Update(ctx, log); err != nil {
		return nil, apperror.Persistence(err)
	}

	// First answer of the conversation triggers async title summarization,
	// unless the title is already settled.
	if len(log.Messages) == 1 && !session.TitleSummarized {
		c.enqueueTitleJob(ctx, session.SessionId)
	}

	return &dto.SendMessageResponse{
		SessionId:     session.SessionId,
		MessageId:     messageId,
		UploadedFiles: exchange.Record().UploadedFiles,
		Messages:      log.Messages,
	}, nil
}

// Regenerate appends an alternative answer to an existing turn and moves the
// selection cursor to it. Prior answers are never touched.
func (c *chatService) Regenerate(ctx context.Context, sessionId, messageId uuid.UUID) (*dto.RegenerateResponse, error) {
	unlock := c.sessionLocks.Lock(sessionId.String())
	defer unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	_, log, err := c.findSessionWithLog(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	exchange, record := log.FindRecord(messageId)
	if record == nil {
		return nil, apperror.NotFound("Message not found")
	}

	messages := c.prompts.ForRegenerate(log.Messages, exchange)
	answerText, err := c.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	record.AppendAnswer(answerText)

	if err := uow.ChatLogRepository().Update(ctx, log); err != nil {
		return nil, apperror.Persistence(err)
	}

	return &dto.RegenerateResponse{
		SessionId: sessionId,
		MessageId: messageId,
		Messages:  []entity.Exchange{*exchange},
	}, nil
}

// Navigate moves the answer cursor by one, clamped at both ends. No provider
// call; the new position is persisted before responding.
func (c *chatService) Navigate(ctx context.Context, sessionId, messageId uuid.UUID, direction int) (*dto.MessageResponse, error) {
	unlock := c.sessionLocks.Lock(sessionId.String())
	defer unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	_, log, err := c.findSessionWithLog(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	_, record := log.FindRecord(messageId)
	if record == nil {
		return nil, apperror.NotFound("Message not found")
	}

	record.Navigate(direction)

	if err := uow.ChatLogRepository().Update(ctx, log); err != nil {
		return nil, apperror.Persistence(err)
	}

	return &dto.MessageResponse{Message: "updated"}, nil
}

// SubmitFeedback marks one specific answer good or bad, independent of the
// cursor. The owning session is discovered through the message id.
func (c *chatService) SubmitFeedback(ctx context.Context, messageId, answerId uuid.UUID, feedback string) (*dto.FeedbackResponse, error) {
	if feedback != constant.FeedbackGood && feedback != constant.FeedbackBad {
		return nil, apperror.Validation("Invalid feedback value")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Locate the owning session first, then redo the read under its lock.
	probe, err := uow.ChatLogRepository().FindOne(ctx, specification.ByMessageID{MessageID: messageId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if probe == nil {
		return nil, apperror.NotFound("Message not found")
	}

	unlock := c.sessionLocks.Lock(probe.SessionId.String())
	defer unlock()

	log, err := uow.ChatLogRepository().FindOne(ctx, specification.BySessionID{SessionID: probe.SessionId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if log == nil {
		return nil, apperror.NotFound("Message not found")
	}

	answer := log.FindAnswer(messageId, answerId)
	if answer == nil {
		return nil, apperror.NotFound("Answer not found")
	}

	answer.Feedback = &feedback

	if err := uow.ChatLogRepository().Update(ctx, log); err != nil {
		return nil, apperror.Persistence(err)
	}

	c.publishEvent(ctx, events.AnswerFeedback, map[string]interface{}{
		"session_id": log.SessionId,
		"message_id": messageId,
		"answer_id":  answerId,
		"feedback":   feedback,
	})

	return &dto.FeedbackResponse{
		AnswerId:   answer.AnswerId,
		Feedback:   answer.Feedback,
		MessageId:  answer.MessageId,
		Text:       answer.Text,
		QuestionId: answer.QuestionId,
	}, nil
}

// SummarizeTitle compresses the first answer of the conversation into a short
// title, exactly once per session. Repeat calls return the settled title.
func (c *chatService) SummarizeTitle(ctx context.Context, sessionId uuid.UUID) (*dto.SessionMutationResponse, error) {
	unlock := c.sessionLocks.Lock(sessionId.String())
	defer unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	session, log, err := c.findSessionWithLog(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	if session.TitleSummarized {
		return &dto.SessionMutationResponse{
			Message: "Title already summarized",
			Session: dto.SessionToDetail(session),
		}, nil
	}

	if len(log.Messages) == 0 {
		return nil, apperror.NotFound("No messages found for this session.")
	}
	record := log.Messages[0].Record()
	firstAnswer := record.FirstAnswer()
	if firstAnswer == nil {
		return nil, apperror.NotFound("No messages found for this session.")
	}

	title, err := c.generate(ctx, c.prompts.ForTitle(firstAnswer.Text))
	if err != nil {
		return nil, err
	}

	session.Title = cleanTitle(title)
	session.TitleSummarized = true
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, apperror.Persistence(err)
	}

	c.listCache.Invalidate(session.UserId)
	if c.titleNotifier != nil {
		c.titleNotifier.SendTitleUpdated(session.UserId, session.SessionId, session.Title)
	}
	c.publishEvent(ctx, events.SessionTitleUpdated, map[string]interface{}{
		"session_id": session.SessionId,
		"user_id":    session.UserId,
		"title":      session.Title,
	})

	return &dto.SessionMutationResponse{
		Message: "Title summarized",
		Session: dto.SessionToDetail(session),
	}, nil
}

func (c *chatService) findSessionWithLog(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*entity.Session, *entity.ChatLog, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if session == nil {
		return nil, nil, apperror.NotFound("Session not found")
	}

	log, err := uow.ChatLogRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if log == nil {
		return nil, nil, apperror.NotFound("Session not found")
	}
	return session, log, nil
}

// complete calls the provider with bounded retry; completion failures are the
// dominant failure source.
func (c *chatService) complete(ctx context.Context, messages []llm.Message) (string, error) {
	op := func() (string, error) {
		return c.provider.Chat(ctx, messages,
			llm.WithTemperature(0.7),
			llm.WithMaxTokens(800),
			llm.WithTopP(0.95),
		)
	}
	text, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return "", apperror.Provider(err)
	}
	return text, nil
}

func (c *chatService) generate(ctx context.Context, promptText string) (string, error) {
	op := func() (string, error) {
		return c.provider.Generate(ctx, promptText,
			llm.WithTemperature(0.7),
			llm.WithMaxTokens(800),
			llm.WithTopP(0.95),
		)
	}
	text, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return "", apperror.Provider(err)
	}
	return text, nil
}

func (c *chatService) enqueueTitleJob(ctx context.Context, sessionId uuid.UUID) {
	if c.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.SummarizeTitleJob{SessionId: sessionId})
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to enqueue title summarization for %s: %v\n", sessionId, err)
	}
}

func (c *chatService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.NewBaseEvent(eventType, data)
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func cleanTitle(title string) string {
	title = strings.ReplaceAll(title, `"`, "")
	return strings.TrimSpace(title)
}

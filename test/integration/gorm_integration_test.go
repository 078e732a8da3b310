package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/repository/specification"
	"ai-webchat-be/internal/repository/unitofwork"
	"ai-webchat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.ChatLogRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Transactional session and log create", func(t *testing.T) {
		ctx := context.Background()

		session := &entity.Session{
			SessionId: uuid.New(),
			UserId:    "integration-user-" + uuid.New().String(),
			Title:     "Integration chat",
			CreatedAt: time.Now(),
		}
		chatLog := &entity.ChatLog{
			SessionId: session.SessionId,
			Messages:  []entity.Exchange{},
		}

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.SessionRepository().Create(ctx, session)
		assert.NoError(t, err)
		err = uow.ChatLogRepository().Create(ctx, chatLog)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Session with ChatLog in Transaction")

		// Round-trip the jsonb document with one exchange
		freshUow := uowFactory.NewUnitOfWork(ctx)
		stored, err := freshUow.ChatLogRepository().FindOne(ctx,
			specification.BySessionID{SessionID: session.SessionId},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			exchange := entity.NewExchange(uuid.New(), "What is 2+2?", nil, "4")
			stored.Append(exchange)
			err = freshUow.ChatLogRepository().Update(ctx, stored)
			assert.NoError(t, err)

			reloaded, err := freshUow.ChatLogRepository().FindOne(ctx,
				specification.BySessionID{SessionID: session.SessionId},
			)
			assert.NoError(t, err)
			if assert.NotNil(t, reloaded) && assert.Len(t, reloaded.Messages, 1) {
				record := reloaded.Messages[0].Record()
				assert.Equal(t, "What is 2+2?", record.Text)
				assert.Equal(t, 1, record.SelectedAnswer)
				assert.Equal(t, "4", record.Answer[0].Text)
			}

			// Containment lookup by messageId
			record := stored.Messages[0].Record()
			byMessage, err := freshUow.ChatLogRepository().FindOne(ctx,
				specification.ByMessageID{MessageID: record.MessageId},
			)
			assert.NoError(t, err)
			if assert.NotNil(t, byMessage) {
				assert.Equal(t, session.SessionId, byMessage.SessionId)
			}
		}

		// Soft delete both rows
		cleanupUow := uowFactory.NewUnitOfWork(ctx)
		err = cleanupUow.Begin(ctx)
		assert.NoError(t, err)
		defer cleanupUow.Rollback()

		err = cleanupUow.SessionRepository().Delete(ctx, session.SessionId)
		assert.NoError(t, err)
		err = cleanupUow.ChatLogRepository().Delete(ctx, session.SessionId)
		assert.NoError(t, err)
		err = cleanupUow.Commit()
		assert.NoError(t, err)

		gone, err := uowFactory.NewUnitOfWork(ctx).SessionRepository().FindOne(ctx,
			specification.BySessionID{SessionID: session.SessionId},
		)
		assert.NoError(t, err)
		assert.Nil(t, gone)
	})
}

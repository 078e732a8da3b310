package implementation

import (
	"context"
	"errors"

	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/mapper"
	"ai-webchat-be/internal/model"
	"ai-webchat-be/internal/repository/contract"
	"ai-webchat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatLogMapper
}

func NewChatLogRepository(db *gorm.DB) contract.ChatLogRepository {
	return &ChatLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatLogMapper(),
	}
}

func (r *ChatLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatLogRepositoryImpl) Create(ctx context.Context, log *entity.ChatLog) error {
	m, err := r.mapper.ToModel(log)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ChatLogRepositoryImpl) Update(ctx context.Context, log *entity.ChatLog) error {
	m, err := r.mapper.ToModel(log)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.ChatLog{}).
		Where("session_id = ?", m.SessionId).
		Update("messages", m.Messages).Error
}

func (r *ChatLogRepositoryImpl) Delete(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChatLog{}, "session_id = ?", sessionId).Error
}

func (r *ChatLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatLog, error) {
	var m model.ChatLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

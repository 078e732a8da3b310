package mapper

import (
	"encoding/json"

	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatLogMapper struct{}

func NewChatLogMapper() *ChatLogMapper {
	return &ChatLogMapper{}
}

// ToEntity decodes the jsonb exchange document. A log row with an empty or
// missing document maps to an empty message list, never nil.
func (m *ChatLogMapper) ToEntity(l *model.ChatLog) (*entity.ChatLog, error) {
	if l == nil {
		return nil, nil
	}

	messages := []entity.Exchange{}
	if len(l.Messages) > 0 {
		if err := json.Unmarshal(l.Messages, &messages); err != nil {
			return nil, err
		}
	}

	return &entity.ChatLog{
		SessionId: l.SessionId,
		Messages:  messages,
	}, nil
}

func (m *ChatLogMapper) ToModel(l *entity.ChatLog) (*model.ChatLog, error) {
	if l == nil {
		return nil, nil
	}

	messages := l.Messages
	if messages == nil {
		messages = []entity.Exchange{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	return &model.ChatLog{
		SessionId: l.SessionId,
		Messages:  datatypes.JSON(raw),
	}, nil
}

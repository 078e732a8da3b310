// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	chatService IChatService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chatService IChatService,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		chatService: chatService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SummarizeTitleJob
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal title job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Summarizing title for session: %s", payload.SessionId)

	_, err := cs.chatService.SummarizeTitle(ctx, payload.SessionId)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindNotFound, apperror.KindValidation:
			// Session deleted or emptied before the job ran. Ack.
			log.Printf("[WARN] Title job dropped for session %s: %v", payload.SessionId, err)
			msg.Ack()
		default:
			log.Printf("[ERROR] Title job failed for session %s: %v", payload.SessionId, err)
			msg.Nack() // Nack for retriable errors
		}
		return
	}

	log.Printf("[SUCCESS] Title summarized for session: %s", payload.SessionId)
	msg.Ack()
}

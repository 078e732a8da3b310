package dto

import (
	"ai-webchat-be/internal/entity"

	"github.com/google/uuid"
)

// SendMessageRequest is assembled by the controller from the question query
// parameter and the optional multipart image.
type SendMessageRequest struct {
	SessionId uuid.UUID
	Question  string
	Image     *entity.UploadedFile
}

type SendMessageResponse struct {
	SessionId     uuid.UUID             `json:"sessionId"`
	MessageId     uuid.UUID             `json:"messageId"`
	UploadedFiles []entity.UploadedFile `json:"uploadedFiles"`
	Messages      []entity.Exchange     `json:"messages"`
}

// RegenerateResponse carries only the exchange that was regenerated.
type RegenerateResponse struct {
	SessionId uuid.UUID         `json:"sessionId"`
	MessageId uuid.UUID         `json:"messageId"`
	Messages  []entity.Exchange `json:"messages"`
}

type FeedbackResponse struct {
	AnswerId   uuid.UUID `json:"answerId"`
	Feedback   *string   `json:"feedback"`
	MessageId  uuid.UUID `json:"messageId"`
	Text       string    `json:"text"`
	QuestionId uuid.UUID `json:"questionId"`
}

// SummarizeTitleJob is the payload of the async title-summarization pipeline.
type SummarizeTitleJob struct {
	SessionId uuid.UUID `json:"session_id"`
}

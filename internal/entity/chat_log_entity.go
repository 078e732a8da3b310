package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadedFile is an image stored inline with the question that carried it.
type UploadedFile struct {
	Base64 string `json:"base64"`
	Type   string `json:"type"`
}

// Answer is one generated response. Text is immutable once stored; only
// Feedback may change afterwards (nil = none, "good" or "bad").
type Answer struct {
	AnswerId   uuid.UUID `json:"answerId"`
	Feedback   *string   `json:"feedback"`
	MessageId  uuid.UUID `json:"messageId"`
	Text       string    `json:"text"`
	QuestionId uuid.UUID `json:"questionId"`
}

// QuestionRecord is a question plus its versioned set of candidate answers and
// a 1-based selection cursor. Invariant: 1 <= SelectedAnswer <= len(Answer),
// and Answer is append-only.
type QuestionRecord struct {
	QuestionId     uuid.UUID      `json:"questionId"`
	MessageId      uuid.UUID      `json:"messageId"`
	Text           string         `json:"text"`
	SelectedAnswer int            `json:"selectedAnswer"`
	UploadedFiles  []UploadedFile `json:"uploadedFiles"`
	Answer         []Answer       `json:"answer"`
}

// Exchange is one logged conversation turn. Data always holds exactly one
// QuestionRecord; the array shape is kept for wire compatibility with stored
// logs (multi-question turns were an unused extension point).
type Exchange struct {
	QuestionId       uuid.UUID        `json:"questionId"`
	CreatedAt        time.Time        `json:"createdAt"`
	SelectedQuestion int              `json:"selectedQuestion"`
	Data             []QuestionRecord `json:"data"`
}

// ChatLog is the ordered message log of one session. Exchanges are append-only
// and their order drives conversation-history replay.
type ChatLog struct {
	SessionId uuid.UUID
	Messages  []Exchange
}

// NewExchange builds a turn holding the question and its first answer, with
// the selection cursors at their defaults.
func NewExchange(messageId uuid.UUID, text string, files []UploadedFile, answerText string) Exchange {
	questionId := uuid.New()
	if files == nil {
		files = []UploadedFile{}
	}
	return Exchange{
		QuestionId:       questionId,
		CreatedAt:        time.Now(),
		SelectedQuestion: 1,
		Data: []QuestionRecord{
			{
				QuestionId:     questionId,
				MessageId:      messageId,
				Text:           text,
				SelectedAnswer: 1,
				UploadedFiles:  files,
				Answer: []Answer{
					{
						AnswerId:   uuid.New(),
						Feedback:   nil,
						MessageId:  messageId,
						Text:       answerText,
						QuestionId: questionId,
					},
				},
			},
		},
	}
}

// Record returns the single question record of the turn.
func (e *Exchange) Record() *QuestionRecord {
	if len(e.Data) == 0 {
		return nil
	}
	return &e.Data[0]
}

// AppendAnswer appends a regenerated answer and moves the cursor to it.
// Existing answers are never touched.
func (q *QuestionRecord) AppendAnswer(text string) *Answer {
	q.Answer = append(q.Answer, Answer{
		AnswerId:   uuid.New(),
		Feedback:   nil,
		MessageId:  q.MessageId,
		Text:       text,
		QuestionId: q.QuestionId,
	})
	q.SelectedAnswer = len(q.Answer)
	return &q.Answer[len(q.Answer)-1]
}

// Navigate moves the selection cursor by direction (-1 or +1), clamped to
// [1, len(Answer)]. Moving past either end is a no-op, not an error.
func (q *QuestionRecord) Navigate(direction int) {
	next := q.SelectedAnswer + direction
	if next < 1 {
		next = 1
	}
	if next > len(q.Answer) {
		next = len(q.Answer)
	}
	q.SelectedAnswer = next
}

// Selected returns the answer the cursor points at.
func (q *QuestionRecord) Selected() *Answer {
	if q.SelectedAnswer < 1 || q.SelectedAnswer > len(q.Answer) {
		return nil
	}
	return &q.Answer[q.SelectedAnswer-1]
}

// FirstAnswer returns the original answer of the turn.
func (q *QuestionRecord) FirstAnswer() *Answer {
	if len(q.Answer) == 0 {
		return nil
	}
	return &q.Answer[0]
}

// Image returns the uploaded image of the question, if any.
func (q *QuestionRecord) Image() *UploadedFile {
	if len(q.UploadedFiles) == 0 {
		return nil
	}
	return &q.UploadedFiles[0]
}

// Append adds a turn at the end of the log.
func (c *ChatLog) Append(exchange Exchange) {
	c.Messages = append(c.Messages, exchange)
}

// FindRecord locates a question record by messageId.
func (c *ChatLog) FindRecord(messageId uuid.UUID) (*Exchange, *QuestionRecord) {
	for i := range c.Messages {
		for j := range c.Messages[i].Data {
			if c.Messages[i].Data[j].MessageId == messageId {
				return &c.Messages[i], &c.Messages[i].Data[j]
			}
		}
	}
	return nil, nil
}

// FindAnswer locates an answer by messageId and answerId.
func (c *ChatLog) FindAnswer(messageId, answerId uuid.UUID) *Answer {
	_, record := c.FindRecord(messageId)
	if record == nil {
		return nil
	}
	for i := range record.Answer {
		if record.Answer[i].AnswerId == answerId {
			return &record.Answer[i]
		}
	}
	return nil
}

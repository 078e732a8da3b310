package prompt

import (
	"fmt"

	"ai-webchat-be/internal/constant"
	"ai-webchat-be/internal/entity"
	"ai-webchat-be/pkg/llm"
)

// Builder turns a stored chat log into provider messages. When ReplaySelected
// is false the replay always uses each turn's original question and first
// answer, regardless of where the selection cursors point.
type Builder struct {
	ReplaySelected bool
}

func NewBuilder(replaySelected bool) *Builder {
	return &Builder{ReplaySelected: replaySelected}
}

// History converts logged turns into alternating user/assistant text
// messages. Replay is text only; stored images are never re-sent.
func (b *Builder) History(exchanges []entity.Exchange) []llm.Message {
	messages := make([]llm.Message, 0, len(exchanges)*2)
	for i := range exchanges {
		record := b.record(&exchanges[i])
		if record == nil {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleUser,
			Content: record.Text,
		})

		answer := b.answer(record)
		if answer == nil {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleAssistant,
			Content: answer.Text,
		})
	}
	return messages
}

// ForSend builds the prompt for a new turn: the chat system prompt, the
// replayed history, the typed question when there is one, and the uploaded
// image as its own trailing vision message.
func (b *Builder) ForSend(exchanges []entity.Exchange, question string, image *entity.UploadedFile) []llm.Message {
	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ChatSystemPromptV1},
	}
	messages = append(messages, b.History(exchanges)...)

	if question != "" {
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleUser,
			Content: question,
		})
	}
	if image != nil {
		messages = append(messages, visionMessage(image))
	}
	return messages
}

// ForRegenerate builds the prompt for regenerating the target turn: the
// regenerate system prompt, the full replayed history (including the answer
// being diverged from), and the target question asked again, with its image
// when one was uploaded. The divergence instruction needs the previous answer
// in context to diverge from it.
func (b *Builder) ForRegenerate(exchanges []entity.Exchange, target *entity.Exchange) []llm.Message {
	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ChatRegenerateSystemPromptV1},
	}
	messages = append(messages, b.History(exchanges)...)

	record := b.record(target)
	if record != nil {
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleUser,
			Content: record.Text,
		})
		if image := record.Image(); image != nil {
			messages = append(messages, visionMessage(image))
		}
	}
	return messages
}

// ForTitle renders the title-summarization prompt from the first answer of
// the conversation.
func (b *Builder) ForTitle(firstAnswer string) string {
	return fmt.Sprintf(constant.TitleSummaryPromptV1, firstAnswer)
}

func (b *Builder) record(exchange *entity.Exchange) *entity.QuestionRecord {
	if b.ReplaySelected {
		return exchange.Record()
	}
	if len(exchange.Data) == 0 {
		return nil
	}
	return &exchange.Data[0]
}

func (b *Builder) answer(record *entity.QuestionRecord) *entity.Answer {
	if b.ReplaySelected {
		return record.Selected()
	}
	return record.FirstAnswer()
}

func visionMessage(image *entity.UploadedFile) llm.Message {
	return llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: constant.ImageQuestionPrompt,
		Images:  []llm.ImagePart{{MimeType: image.Type, Base64: image.Base64}},
	}
}

package prompt

import (
	"strings"
	"testing"

	"ai-webchat-be/internal/constant"
	"ai-webchat-be/internal/entity"

	"github.com/google/uuid"
)

func exchangeWithAnswers(question string, answers ...string) entity.Exchange {
	ex := entity.NewExchange(uuid.New(), question, nil, answers[0])
	record := ex.Record()
	for _, text := range answers[1:] {
		record.AppendAnswer(text)
	}
	return ex
}

func TestHistoryReplaysFirstAnswerByDefault(t *testing.T) {
	ex := exchangeWithAnswers("What is 2+2?", "4", "Four")

	b := NewBuilder(false)
	messages := b.History([]entity.Exchange{ex})

	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Role != constant.ChatMessageRoleUser || messages[0].Content != "What is 2+2?" {
		t.Errorf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Role != constant.ChatMessageRoleAssistant || messages[1].Content != "4" {
		t.Errorf("assistant replay = %q, want first answer %q", messages[1].Content, "4")
	}
}

func TestHistoryReplaysSelectedAnswerWhenConfigured(t *testing.T) {
	ex := exchangeWithAnswers("What is 2+2?", "4", "Four")

	b := NewBuilder(true)
	messages := b.History([]entity.Exchange{ex})

	if messages[1].Content != "Four" {
		t.Errorf("assistant replay = %q, want selected answer %q", messages[1].Content, "Four")
	}
}

func TestHistoryReplaysImageTurnsAsTextOnly(t *testing.T) {
	files := []entity.UploadedFile{{Base64: "aGVsbG8=", Type: "image/png"}}
	ex := entity.NewExchange(uuid.New(), constant.ImageOnlyQuestionText, files, "a cat")

	b := NewBuilder(false)
	messages := b.History([]entity.Exchange{ex})

	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Content != constant.ImageOnlyQuestionText {
		t.Errorf("replayed question = %q, want stored text %q", messages[0].Content, constant.ImageOnlyQuestionText)
	}
	if len(messages[0].Images) != 0 {
		t.Errorf("history replay must not carry images, got %d", len(messages[0].Images))
	}
}

func TestForSendPrependsSystemPromptAndAppendsQuestion(t *testing.T) {
	ex := exchangeWithAnswers("first question", "first answer")

	b := NewBuilder(false)
	messages := b.ForSend([]entity.Exchange{ex}, "second question", nil)

	if len(messages) != 4 {
		t.Fatalf("len(messages) = %d, want 4", len(messages))
	}
	if messages[0].Role != constant.ChatMessageRoleSystem || messages[0].Content != constant.ChatSystemPromptV1 {
		t.Errorf("unexpected system message: %+v", messages[0])
	}
	last := messages[len(messages)-1]
	if last.Role != constant.ChatMessageRoleUser || last.Content != "second question" {
		t.Errorf("unexpected trailing question: %+v", last)
	}
}

func TestForSendKeepsQuestionTextAlongsideImage(t *testing.T) {
	b := NewBuilder(false)
	image := &entity.UploadedFile{Base64: "aGVsbG8=", Type: "image/png"}
	messages := b.ForSend(nil, "what color is this bird?", image)

	// system + question + vision
	if len(messages) != 3 {
		t.Fatalf("len(messages) = %d, want 3", len(messages))
	}
	if messages[1].Content != "what color is this bird?" || len(messages[1].Images) != 0 {
		t.Errorf("question must stay its own text message: %+v", messages[1])
	}
	vision := messages[2]
	if vision.Content != constant.ImageQuestionPrompt {
		t.Errorf("vision content = %q, want %q", vision.Content, constant.ImageQuestionPrompt)
	}
	if len(vision.Images) != 1 || vision.Images[0].Base64 != "aGVsbG8=" || vision.Images[0].MimeType != "image/png" {
		t.Errorf("unexpected image parts: %+v", vision.Images)
	}
}

func TestForSendImageOnlySkipsTextMessage(t *testing.T) {
	b := NewBuilder(false)
	image := &entity.UploadedFile{Base64: "aGVsbG8=", Type: "image/png"}
	messages := b.ForSend(nil, "", image)

	// system + vision, no empty text message
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[1].Content != constant.ImageQuestionPrompt || len(messages[1].Images) != 1 {
		t.Errorf("unexpected vision message: %+v", messages[1])
	}
}

func TestForRegenerateReplaysFullHistory(t *testing.T) {
	target := exchangeWithAnswers("target question", "previous answer")
	later := exchangeWithAnswers("later question", "later answer")

	b := NewBuilder(false)
	messages := b.ForRegenerate([]entity.Exchange{target, later}, &target)

	if messages[0].Content != constant.ChatRegenerateSystemPromptV1 {
		t.Errorf("unexpected system prompt")
	}
	// system + two replayed pairs + the target question asked again
	if len(messages) != 6 {
		t.Fatalf("len(messages) = %d, want 6", len(messages))
	}

	var sawPrevious, sawLater bool
	for _, m := range messages {
		if m.Content == "previous answer" {
			sawPrevious = true
		}
		if m.Content == "later question" {
			sawLater = true
		}
	}
	if !sawPrevious {
		t.Error("the answer being diverged from must be in context")
	}
	if !sawLater {
		t.Error("turns after the target must stay in context")
	}

	last := messages[len(messages)-1]
	if last.Role != constant.ChatMessageRoleUser || last.Content != "target question" {
		t.Errorf("unexpected trailing message: %+v", last)
	}
}

func TestForRegenerateReplaysTargetImage(t *testing.T) {
	files := []entity.UploadedFile{{Base64: "aGVsbG8=", Type: "image/png"}}
	target := entity.NewExchange(uuid.New(), constant.ImageOnlyQuestionText, files, "a cat")

	b := NewBuilder(false)
	messages := b.ForRegenerate([]entity.Exchange{target}, &target)

	last := messages[len(messages)-1]
	if last.Content != constant.ImageQuestionPrompt || len(last.Images) != 1 {
		t.Errorf("target image must be re-sent as a vision message: %+v", last)
	}
}

func TestForTitle(t *testing.T) {
	b := NewBuilder(false)
	got := b.ForTitle("4")
	if !strings.Contains(got, "generate an optimal 4-5 words title") {
		t.Errorf("title prompt missing instruction:\n%s", got)
	}
	if !strings.Contains(got, "4. Remove double quotes") {
		t.Errorf("title prompt missing interpolated answer:\n%s", got)
	}
}

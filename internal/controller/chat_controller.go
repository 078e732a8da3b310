package controller

import (
	"encoding/base64"
	"io"

	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/dto"
	"ai-webchat-be/internal/entity"
	"ai-webchat-be/internal/pkg/serverutils"
	"ai-webchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	Navigate(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	SummarizeTitle(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("regenerate/:sessionId/:messageId", c.Regenerate)
	h.Post(":messageId/:answerId", c.Feedback)
	h.Post(":sessionId", c.Send)
	h.Put(":sessionId/:messageId/:direction", c.Navigate)
	h.Put(":sessionId", c.SummarizeTitle)
}

// Send takes the question as a query parameter and an optional multipart
// image under the "image" field.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	req := dto.SendMessageRequest{
		SessionId: sessionId,
		Question:  ctx.Query("question", ""),
	}

	image, err := readImage(ctx)
	if err != nil {
		return err
	}
	req.Image = image

	res, err := c.chatService.SendMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) Regenerate(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}
	messageId, err := parseMessageId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.Regenerate(ctx.Context(), sessionId, messageId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) Navigate(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}
	messageId, err := parseMessageId(ctx)
	if err != nil {
		return err
	}

	var direction int
	switch ctx.Params("direction") {
	case "1":
		direction = 1
	case "-1":
		direction = -1
	default:
		return apperror.Validation("Invalid direction value")
	}

	res, err := c.chatService.Navigate(ctx.Context(), sessionId, messageId, direction)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) Feedback(ctx *fiber.Ctx) error {
	messageId, parseErr := uuid.Parse(ctx.Params("messageId"))
	if parseErr != nil {
		return apperror.Validation("Invalid message id")
	}
	answerId, parseErr := uuid.Parse(ctx.Params("answerId"))
	if parseErr != nil {
		return apperror.Validation("Invalid answer id")
	}
	feedback := ctx.Query("feedback", "")

	res, err := c.chatService.SubmitFeedback(ctx.Context(), messageId, answerId, feedback)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) SummarizeTitle(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.SummarizeTitle(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func parseMessageId(ctx *fiber.Ctx) (uuid.UUID, error) {
	messageId, err := uuid.Parse(ctx.Params("messageId"))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid message id")
	}
	return messageId, nil
}

// readImage pulls the optional multipart image into memory and encodes it.
// A missing image field is not an error.
func readImage(ctx *fiber.Ctx) (*entity.UploadedFile, error) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil || fileHeader == nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.Validation("Could not read uploaded image")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, apperror.Validation("Could not read uploaded image")
	}

	mimeType := ctx.FormValue("type")
	if mimeType == "" {
		mimeType = fileHeader.Header.Get("Content-Type")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return &entity.UploadedFile{
		Base64: base64.StdEncoding.EncodeToString(raw),
		Type:   mimeType,
	}, nil
}

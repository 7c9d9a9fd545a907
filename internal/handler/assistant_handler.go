package handler

import (
	"eduassist/internal/dto"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AssistantHandler struct {
	messages  service.MessageService
	validator *validation.Validator
}

func NewAssistantHandler(messages service.MessageService, v *validation.Validator) *AssistantHandler {
	return &AssistantHandler{messages: messages, validator: v}
}

// Chat godoc
// @Summary Ask the teaching assistant
// @Description Answers with the language model when configured, otherwise with a canned reply
// @Tags assistant
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ChatRequest true "Message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /assistant/chat [post]
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	return c.JSON(dto.ChatResponse{Reply: h.messages.Chat(c.UserContext(), req.Message)})
}

package handler

import (
	"eduassist/internal/dto"
	"eduassist/internal/middleware"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PlayerHandler serves the public quiz player. No authentication is required.
type PlayerHandler struct {
	service   service.PlayerService
	validator *validation.Validator
}

func NewPlayerHandler(service service.PlayerService, v *validation.Validator) *PlayerHandler {
	return &PlayerHandler{service: service, validator: v}
}

// Start godoc
// @Summary Start a quiz session
// @Description Opens a session from a quiz id or a share link. A quiz that cannot be loaded yields a session in the error state.
// @Tags player
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Quiz id or share link"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /play/sessions [post]
func (h *PlayerHandler) Start(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	target := req.QuizID
	if target == "" {
		target = req.Link
	}

	session, err := h.service.Start(c.UserContext(), target)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSessionResponse(session))
}

// Get godoc
// @Summary Get a quiz session
// @Tags player
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /play/sessions/{id} [get]
func (h *PlayerHandler) Get(c *fiber.Ctx) error {
	session, err := h.service.Get(c.UserContext(), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToSessionResponse(session))
}

// Begin godoc
// @Summary Enter the respondent's name and start answering
// @Tags player
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.BeginRequest true "Respondent"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /play/sessions/{id}/begin [post]
func (h *PlayerHandler) Begin(c *fiber.Ctx) error {
	var req dto.BeginRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	session, err := h.service.Begin(c.UserContext(), middleware.ValidatedID(c), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToSessionResponse(session))
}

// Answer godoc
// @Summary Select an option for a question
// @Description The last selection for a question wins
// @Tags player
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Question index"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Wrong state or time limit passed"
// @Router /play/sessions/{id}/answers/{index} [put]
func (h *PlayerHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	session, err := h.service.Select(c.UserContext(), middleware.ValidatedID(c), middleware.ValidatedIndex(c), *req.Option)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToSessionResponse(session))
}

// Submit godoc
// @Summary Submit answers for grading
// @Tags player
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse "No answers"
// @Failure 409 {object} middleware.ErrorResponse
// @Router /play/sessions/{id}/submit [post]
func (h *PlayerHandler) Submit(c *fiber.Ctx) error {
	session, err := h.service.Submit(c.UserContext(), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToSessionResponse(session))
}

// Retry godoc
// @Summary Retry the same quiz
// @Tags player
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /play/sessions/{id}/retry [post]
func (h *PlayerHandler) Retry(c *fiber.Ctx) error {
	session, err := h.service.Retry(c.UserContext(), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToSessionResponse(session))
}

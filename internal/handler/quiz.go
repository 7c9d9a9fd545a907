package handler

import (
	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/middleware"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, v *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: v,
	}
}

// Generate godoc
// @Summary Generate quiz questions
// @Description Asks the language model for a batch of multiple-choice questions. Nothing is saved.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateQuizRequest true "Generation parameters"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse "Model output was not a valid question list"
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "No language model configured"
// @Router /quizzes/generate [post]
func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	questions, err := h.service.Generate(c.UserContext(), domain.QuizSpec{
		Grade:      domain.Grade(req.Grade),
		Topic:      req.Topic,
		Difficulty: domain.Difficulty(req.Difficulty),
		Count:      req.Count,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.GenerateQuizResponse{Questions: dto.ToQuestionDTOs(questions)})
}

// Create godoc
// @Summary Save a quiz
// @Description Saves a reviewed question batch for the signed-in teacher
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	quiz, err := h.service.Create(c.UserContext(), middleware.TeacherEmail(c), &domain.Quiz{
		Name:       req.Name,
		Grade:      domain.Grade(req.Grade),
		Topic:      req.Topic,
		Difficulty: domain.Difficulty(req.Difficulty),
		Questions:  dto.ToDomainQuestions(req.Questions),
	})
	if err != nil {
		return err
	}

	resp := dto.ToQuizResponse(quiz, true)
	resp.ShareLink = h.service.ShareLink(quiz.ID)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List quizzes
// @Description Returns saved quizzes, newest first, without their questions
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.QuizResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) List(c *fiber.Ctx) error {
	quizzes, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(quizzes, func(q *domain.Quiz, _ int) dto.QuizResponse {
		resp := dto.ToQuizResponse(q, false)
		resp.ShareLink = h.service.ShareLink(q.ID)
		return resp
	}))
}

// Get godoc
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	quiz, err := h.service.Get(c.UserContext(), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	resp := dto.ToQuizResponse(quiz, true)
	resp.ShareLink = h.service.ShareLink(quiz.ID)
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a quiz
// @Description Only the teacher who saved the quiz can delete it
// @Tags quizzes
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.TeacherEmail(c), middleware.ValidatedID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Share godoc
// @Summary Get the public player link of a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.ShareLinkResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/share [get]
func (h *QuizHandler) Share(c *fiber.Ctx) error {
	quiz, err := h.service.Get(c.UserContext(), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ShareLinkResponse{QuizID: quiz.ID, Link: h.service.ShareLink(quiz.ID)})
}

// Attempts godoc
// @Summary List recorded attempts of a quiz
// @Description Empty unless attempt recording is enabled
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {array} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/attempts [get]
func (h *QuizHandler) Attempts(c *fiber.Ctx) error {
	attempts, err := h.service.ListAttempts(c.UserContext(), middleware.TeacherEmail(c), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(attempts, func(a *domain.Attempt, _ int) dto.AttemptResponse {
		return dto.ToAttemptResponse(a)
	}))
}

package handler

import (
	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/middleware"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type HomeworkHandler struct {
	service   service.HomeworkService
	validator *validation.Validator
}

func NewHomeworkHandler(service service.HomeworkService, v *validation.Validator) *HomeworkHandler {
	return &HomeworkHandler{service: service, validator: v}
}

// List godoc
// @Summary List homework
// @Description Sorted by deadline, soonest first
// @Tags homework
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.HomeworkResponse
// @Router /homework [get]
func (h *HomeworkHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Create godoc
// @Summary Assign homework
// @Description Saves the homework and reminds the parents of the class
// @Tags homework
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.HomeworkRequest true "Homework"
// @Success 201 {object} dto.CreateHomeworkResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /homework [post]
func (h *HomeworkHandler) Create(c *fiber.Ctx) error {
	var req dto.HomeworkRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.Create(c.UserContext(), &domain.Homework{
		Subject:   req.Subject,
		ClassName: req.ClassName,
		Content:   req.Content,
		Deadline:  req.Deadline,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Delete godoc
// @Summary Delete homework
// @Tags homework
// @Security ApiKeyAuth
// @Param id path string true "Homework ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /homework/{id} [delete]
func (h *HomeworkHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.ValidatedID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

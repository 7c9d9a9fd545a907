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

type StudentHandler struct {
	students  service.StudentService
	classes   service.ClassService
	validator *validation.Validator
}

func NewStudentHandler(students service.StudentService, classes service.ClassService, v *validation.Validator) *StudentHandler {
	return &StudentHandler{students: students, classes: classes, validator: v}
}

// ListStudents godoc
// @Summary List students
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param class query string false "Only this class"
// @Success 200 {array} dto.StudentResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	students, err := h.students.List(c.UserContext(), c.Query("class"))
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(students, func(s *domain.Student, _ int) dto.StudentResponse {
		return dto.ToStudentResponse(s)
	}))
}

// GetStudent godoc
// @Summary Get a student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	student, err := h.students.Get(c.UserContext(), middleware.ValidatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToStudentResponse(student))
}

// CreateStudent godoc
// @Summary Add a student
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.StudentRequest true "Student"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req dto.StudentRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	student, err := h.students.Create(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStudentResponse(student))
}

// UpdateStudent godoc
// @Summary Replace a student's details
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body dto.StudentRequest true "Student"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	var req dto.StudentRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	student, err := h.students.Update(c.UserContext(), middleware.ValidatedID(c), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToStudentResponse(student))
}

// DeleteStudent godoc
// @Summary Remove a student
// @Tags students
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	if err := h.students.Delete(c.UserContext(), middleware.ValidatedID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListClasses godoc
// @Summary List classes
// @Tags classes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.ClassResponse
// @Router /classes [get]
func (h *StudentHandler) ListClasses(c *fiber.Ctx) error {
	classes, err := h.classes.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(classes, func(cl *domain.Class, _ int) dto.ClassResponse {
		return dto.ToClassResponse(cl)
	}))
}

// CreateClass godoc
// @Summary Add a class
// @Tags classes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ClassRequest true "Class"
// @Success 201 {object} dto.ClassResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /classes [post]
func (h *StudentHandler) CreateClass(c *fiber.Ctx) error {
	var req dto.ClassRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	class, err := h.classes.Create(c.UserContext(), &domain.Class{Name: req.Name, Teacher: req.Teacher})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToClassResponse(class))
}

// DeleteClass godoc
// @Summary Remove a class
// @Tags classes
// @Security ApiKeyAuth
// @Param id path string true "Class ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /classes/{id} [delete]
func (h *StudentHandler) DeleteClass(c *fiber.Ctx) error {
	if err := h.classes.Delete(c.UserContext(), middleware.ValidatedID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

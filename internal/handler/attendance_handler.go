package handler

import (
	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/middleware"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	service   service.AttendanceService
	validator *validation.Validator
}

func NewAttendanceHandler(service service.AttendanceService, v *validation.Validator) *AttendanceHandler {
	return &AttendanceHandler{service: service, validator: v}
}

// Get godoc
// @Summary Get the attendance sheet of a day
// @Description Every student is listed; students without a record are present
// @Tags attendance
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /attendance/{date} [get]
func (h *AttendanceHandler) Get(c *fiber.Ctx) error {
	resp, err := h.service.Get(c.UserContext(), middleware.ValidatedDate(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Save godoc
// @Summary Save the attendance sheet of a day
// @Description Replaces the whole sheet, then notifies parents of absent students unless notify is false
// @Tags attendance
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param request body dto.AttendanceRequest true "Statuses"
// @Success 200 {object} dto.NotifyResult
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /attendance/{date} [put]
func (h *AttendanceHandler) Save(c *fiber.Ctx) error {
	var req dto.AttendanceRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	statuses := make(map[string]domain.AttendanceStatus, len(req.Statuses))
	for id, status := range req.Statuses {
		statuses[id] = domain.AttendanceStatus(status)
	}
	notify := req.Notify == nil || *req.Notify

	result, err := h.service.Save(c.UserContext(), middleware.ValidatedDate(c), statuses, notify)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Summary godoc
// @Summary Present and absent counts for a day
// @Tags attendance
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AttendanceSummaryResponse
// @Router /attendance/{date}/summary [get]
func (h *AttendanceHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), middleware.ValidatedDate(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// Week godoc
// @Summary Daily counts for the seven days ending at date
// @Tags attendance
// @Produce json
// @Security ApiKeyAuth
// @Param date path string true "Last day (YYYY-MM-DD)"
// @Success 200 {array} dto.AttendanceSummaryResponse
// @Router /attendance/week/{date} [get]
func (h *AttendanceHandler) Week(c *fiber.Ctx) error {
	week, err := h.service.Week(c.UserContext(), middleware.ValidatedDate(c))
	if err != nil {
		return err
	}
	return c.JSON(week)
}

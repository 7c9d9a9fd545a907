package handler

import (
	"eduassist/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth       *AuthHandler
	Quiz       *QuizHandler
	Player     *PlayerHandler
	Student    *StudentHandler
	Attendance *AttendanceHandler
	Homework   *HomeworkHandler
	Assistant  *AssistantHandler
}

// RegisterRoutes mounts the API under api. protected guards teacher routes;
// auth and player routes are public.
func RegisterRoutes(api fiber.Router, h Handlers, protected fiber.Handler, vm *middleware.ValidationMiddleware) {
	id := vm.ValidateIDParam("id")
	date := vm.ValidateDateParam("date")

	authGroup := api.Group("/auth")
	authGroup.Get("/google/login", h.Auth.GoogleLogin)
	authGroup.Get("/google/callback", h.Auth.GoogleCallback)

	play := api.Group("/play/sessions")
	play.Post("/", h.Player.Start)
	play.Get("/:id", id, h.Player.Get)
	play.Post("/:id/begin", id, h.Player.Begin)
	play.Put("/:id/answers/:index", id, vm.ValidateIndexParam("index"), h.Player.Answer)
	play.Post("/:id/submit", id, h.Player.Submit)
	play.Post("/:id/retry", id, h.Player.Retry)

	quizzes := api.Group("/quizzes", protected)
	quizzes.Post("/generate", h.Quiz.Generate)
	quizzes.Post("/", h.Quiz.Create)
	quizzes.Get("/", h.Quiz.List)
	quizzes.Get("/:id", id, h.Quiz.Get)
	quizzes.Delete("/:id", id, h.Quiz.Delete)
	quizzes.Get("/:id/share", id, h.Quiz.Share)
	quizzes.Get("/:id/attempts", id, h.Quiz.Attempts)

	students := api.Group("/students", protected)
	students.Get("/", h.Student.ListStudents)
	students.Post("/", h.Student.CreateStudent)
	students.Get("/:id", id, h.Student.GetStudent)
	students.Put("/:id", id, h.Student.UpdateStudent)
	students.Delete("/:id", id, h.Student.DeleteStudent)

	classes := api.Group("/classes", protected)
	classes.Get("/", h.Student.ListClasses)
	classes.Post("/", h.Student.CreateClass)
	classes.Delete("/:id", id, h.Student.DeleteClass)

	attendance := api.Group("/attendance", protected)
	attendance.Get("/week/:date", date, h.Attendance.Week)
	attendance.Get("/:date", date, h.Attendance.Get)
	attendance.Put("/:date", date, h.Attendance.Save)
	attendance.Get("/:date/summary", date, h.Attendance.Summary)

	homework := api.Group("/homework", protected)
	homework.Get("/", h.Homework.List)
	homework.Post("/", h.Homework.Create)
	homework.Delete("/:id", id, h.Homework.Delete)

	api.Post("/assistant/chat", protected, h.Assistant.Chat)
}

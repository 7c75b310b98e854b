package routes

import (
	"github.com/gofiber/fiber/v3"

	"sseojum/internal/delivery/http/handler"
)

type Registry struct {
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	jobInfo  *handler.JobInfoHandler
	upload   *handler.UploadHandler
	session  *handler.SessionHandler
	question *handler.QuestionHandler

	authMW fiber.Handler
}

func NewRegistry(
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	jobInfo *handler.JobInfoHandler,
	upload *handler.UploadHandler,
	session *handler.SessionHandler,
	question *handler.QuestionHandler,
	authMW fiber.Handler,
) *Registry {
	return &Registry{
		health:   health,
		auth:     auth,
		jobInfo:  jobInfo,
		upload:   upload,
		session:  session,
		question: question,
		authMW:   authMW,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	r.auth.RegisterRoutes(v1.Group("/auth"))
	r.jobInfo.RegisterRoutes(v1)

	v1.Post("/upload", r.upload.Upload)
	v1.Post("/revise", r.question.Revise)

	v1.Get("/session/:id", r.session.Get)
	v1.Post("/session/:id/questions", r.question.Add)
	v1.Delete("/session/:id", r.session.Delete, r.authMW)
}

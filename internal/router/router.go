package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/config"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/handler"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/middleware"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.AdminStudentHandler
	TeacherHandler    *handler.AdminTeacherHandler
	SubjectHandler    *handler.AdminSubjectHandler
	AllocationHandler *handler.AdminAllocationHandler
	ResultHandler     *handler.AdminResultHandler
	MarksHandler      *handler.TeacherMarksHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(admin.Group("/students"))
	}
	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(admin.Group("/teachers"))
	}
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.Register(admin.Group("/subjects"))
	}
	if deps.AllocationHandler != nil {
		deps.AllocationHandler.Register(admin.Group("/allocations"))
	}
	if deps.ResultHandler != nil {
		// Result, export and import routes sit directly on the admin group.
		deps.ResultHandler.Register(admin)
	}

	if deps.MarksHandler != nil {
		teacher := api.Group("/teacher", jwtMiddleware)
		deps.MarksHandler.Register(teacher)
	}
}

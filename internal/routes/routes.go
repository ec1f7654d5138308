package routes

import (
	"strings"

	"github.com/arnold/simlegacy-api/internal/config"
	"github.com/arnold/simlegacy-api/internal/handlers"
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewApp builds the Fiber app with its global middleware and every route.
func NewApp(h *handlers.Handler, cfg *config.Config, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "simlegacy-api",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    6 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + handlers.ClientIDHeader,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Static("/uploads", cfg.UploadsDir)
	app.Get("/healthz", h.Healthz)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	Setup(app, h, cfg, logger)
	return app
}

func Setup(app *fiber.App, h *handlers.Handler, cfg *config.Config, logger *zap.Logger) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", h.SignUp)
	auth.Post("/signin", middleware.LoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow, logger), h.SignIn)
	auth.Post("/signout", h.SignOut)
	auth.Get("/session", middleware.Protected(cfg.JWTSecret), h.Session)

	protected := api.Group("/", middleware.Protected(cfg.JWTSecret))

	protected.Get("/me", h.GetMe)

	challenges := protected.Group("/challenges")
	challenges.Get("/", h.GetChallenges)
	challenges.Post("/", h.CreateChallenge)
	challenges.Get("/:id", h.GetChallenge)
	challenges.Patch("/:id", h.UpdateChallenge)
	challenges.Delete("/:id", h.DeleteChallenge)
	challenges.Get("/:id/points", h.GetPoints)
	challenges.Get("/:id/achievements", h.GetChallengeAchievements)

	challenges.Get("/:id/sims", h.GetChallengeSims)
	challenges.Post("/:id/sims", h.CreateSim)

	challenges.Post("/:id/goals", h.CreateGoal)
	challenges.Patch("/:id/goals/:goalId", h.UpdateGoal)
	challenges.Delete("/:id/goals/:goalId", h.DeleteGoal)
	challenges.Post("/:id/goals/:goalId/toggle", h.ToggleGoal)
	challenges.Put("/:id/goals/:goalId/value", h.UpdateGoalValue)
	challenges.Post("/:id/goals/:goalId/complete", h.CompleteGoal)

	sims := protected.Group("/sims")
	sims.Get("/", h.GetAllSims)
	sims.Patch("/:simId", h.UpdateSim)
	sims.Delete("/:simId", h.DeleteSim)
	sims.Post("/:simId/heir", h.SetHeir)
	sims.Post("/:simId/avatar", h.UploadAvatar)
	sims.Get("/:simId/achievements", h.GetSimAchievements)

	protected.Get("/achievements", h.GetAchievements)

	protected.Get("/preferences", h.GetPreferences)
	protected.Put("/preferences", h.UpdatePreferences)

	protected.Post("/uploads", h.UploadImage)

	protected.Get("/catalog", h.GetCatalog)
	protected.Get("/catalog/templates", h.GetTemplates)

	wizards := protected.Group("/wizards")
	wizards.Get("/:flow", h.GetWizard)
	wizards.Delete("/:flow", h.ClearWizard)
	wizards.Post("/:flow/next", h.NextWizardStep)
	wizards.Post("/:flow/prev", h.PrevWizardStep)
	wizards.Put("/:flow/:step", h.SaveWizardStep)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.GetNotifications)
	notifications.Put("/:id/read", h.MarkNotificationRead)
	notifications.Post("/read-all", h.MarkAllRead)

	protected.Post("/device-token", h.RegisterDeviceToken)

	// WebSocket for live challenge updates
	app.Get("/ws/challenges/:id", h.WebSocketUpgrade(), websocket.New(h.HandleWebSocket))
}

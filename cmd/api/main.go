package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-studio-crm/internal/common/api"
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/database"
	"go-studio-crm/internal/features/comments"
	"go-studio-crm/internal/features/crm"
	"go-studio-crm/internal/features/export"
	"go-studio-crm/internal/features/notification"
	"go-studio-crm/internal/features/schedule"
	"go-studio-crm/internal/features/submission"
	"go-studio-crm/internal/features/system"
	"go-studio-crm/internal/logger"
	"go-studio-crm/internal/middleware"
	"go-studio-crm/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			crm.NewLeadRepository,
			crm.NewClientRepository,
			submission.NewSubmissionRepository,
			notification.NewNotificationRepository,
			comments.NewMongoStore,

			notification.NewHub,
			notification.NewNotificationService,
			notification.NewCommentNotifier,
			comments.NewCommentService,
			crm.NewCRMService,
			submission.NewSubmissionService,
			export.NewExportService,
			schedule.NewScheduler,

			// Initialize Controller
			comments.NewCommentController,
			crm.NewCRMController,
			submission.NewSubmissionController,
			notification.NewNotificationController,
			export.NewExportController,

			// Initialize API Routes
			AsRoute(comments.NewCommentApi),
			AsRoute(crm.NewCRMApi),
			AsRoute(submission.NewSubmissionApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(export.NewExportApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			func(lc fx.Lifecycle, scheduler *schedule.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Start()
					},
					OnStop: func(ctx context.Context) error {
						return scheduler.Stop()
					},
				})
			},
			func(lc fx.Lifecycle, commentService comments.CommentService) {
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return commentService.Close()
					},
				})
			},
		),
	)

	app.Run()
}

package cmd

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"course-manager/core/loader"
	"course-manager/core/logger"
	"course-manager/core/middleware/auth"
	"course-manager/core/middleware/rayid"
	"course-manager/core/storage"
	"course-manager/feature/category"
	"course-manager/feature/course"
	"course-manager/feature/dashboard"
	"course-manager/feature/integrity"
	"course-manager/feature/learner"
	"course-manager/feature/media"
	"course-manager/feature/question"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "course-manager/docs/swagger"
)

// @title Course Manager API
// @version 1.0
// @description API for managing courses, their videos and materials.
// @host localhost:3030
// @BasePath /

// serviceName is reported by the health check.
const serviceName = "Receitas API"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the course manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		srv, err := newServer(a)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := srv.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = srv.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// newServer builds the fiber app with middleware and every feature registered.
func newServer(a *app) (*fiber.App, error) {
	logg := a.logger

	srv := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             a.cfg.Server.BodyLimit(),
	})

	// RayID first so every later log line carries it.
	srv.Use(rayid.New())
	srv.Use(recover.New())
	srv.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(a.cfg.Server.Origins(), ","),
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Authorization, Content-Type, Accept, Origin, X-Requested-With, " + auth.Header + ", " + rayid.Header,
		ExposeHeaders: "Content-Range, Accept-Ranges, " + rayid.Header,
	}))

	srv.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public routes
	srv.Get("/swagger/*", swagger.HandlerDefault)
	srv.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": serviceName, "status": "ok"})
	})

	// Players fetch media without custom headers, so downloads stay public.
	srv.Use(auth.New(auth.Config{
		ApiKey: a.cfg.Server.ApiKey,
		Skip: func(c *fiber.Ctx) bool {
			p := c.Path()
			return c.Method() == fiber.MethodGet && (strings.HasPrefix(p, "/videos/") || strings.HasPrefix(p, "/materiais/"))
		},
	}))

	uploader := course.NewUploader(a.blobs, storage.DefaultNamer, a.cfg.Storage.MaxFileSize(), logg)

	mgr := loader.NewManager(logg)
	mgr.Register(course.NewFeature(course.NewService(a.repo, a.blobs, uploader, logg)))
	mgr.Register(category.NewFeature(category.NewService(a.repo, logg)))
	mgr.Register(learner.NewFeature(learner.NewService(a.repo, logg)))
	mgr.Register(question.NewFeature(question.NewService(a.repo, logg)))
	mgr.Register(dashboard.NewFeature(dashboard.NewService(a.repo, logg)))
	mgr.Register(media.NewFeature(media.NewService(a.blobs, logg)))
	mgr.Register(integrity.NewFeature(integrity.NewService(a.blobs, a.repo, a.db, a.cfg.Integrity, logg)))

	if err := mgr.LoadAll(srv); err != nil {
		return nil, err
	}
	return srv, nil
}

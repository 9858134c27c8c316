package main // Entry point package

import (
	"log" // Logging library

	_ "time/tzdata" // embedded zone database fallback for minimal containers

	"github.com/joho/godotenv"    // .env file loader for local runs
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/attendance-scheduler/internal/config"     // Internal config loader
	"github.com/iliyamo/attendance-scheduler/internal/database"   // MySQL connection setup
	"github.com/iliyamo/attendance-scheduler/internal/handler"    // HTTP handlers for the run endpoints
	"github.com/iliyamo/attendance-scheduler/internal/queue"      // Broker audit consumer
	"github.com/iliyamo/attendance-scheduler/internal/repository" // Store access
	"github.com/iliyamo/attendance-scheduler/internal/router"     // Internal router setup
	"github.com/iliyamo/attendance-scheduler/internal/service"    // Attendance-mark dispatch
	"github.com/iliyamo/attendance-scheduler/internal/whatsapp"   // Messaging provider client
)

func main() {
	_ = godotenv.Load() // load .env when present; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal(err)
	}

	rdb := config.NewRedisClient() // nil disables rate limiting

	profiles := repository.NewProfileRepo(db)
	events := repository.NewEventRepo(db)
	marker := service.NewMarker(cfg.AttendanceAPIURL, cfg.AttendanceAPIKey)
	wa := whatsapp.NewClient(whatsapp.Config{
		LoginURL:     cfg.WhatsAppLoginURL,
		RefreshURL:   cfg.WhatsAppRefreshURL,
		TemplateURL:  cfg.WhatsAppTemplateURL,
		Username:     cfg.WhatsAppUsername,
		Password:     cfg.WhatsAppPassword,
		TemplateName: cfg.WhatsAppTemplateName,
		LanguageCode: cfg.WhatsAppLanguageCode,
	})

	sched := handler.NewSchedulerHandler(profiles, events, marker)
	notif := handler.NewNotifierHandler(profiles, events, wa)

	// Background audit consumer; it maintains its own reconnect loop.
	go func() {
		if err := queue.StartMaterializedConsumer(); err != nil {
			log.Printf("materialized-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterTriggers(e, sched, notif, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}

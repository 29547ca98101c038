package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"db-slice-export/internal/app"
	"db-slice-export/internal/config"
	"db-slice-export/internal/handlers"
	"db-slice-export/internal/middleware"

	configLoader "github.com/andiksetyawan/config"
)

func main() {
	log.Println("Loading configuration...")

	cfg := &config.AppConfig{}
	loader := configLoader.New(
		configLoader.WithEnvPath(".env"),
	)

	if err := loader.Load(cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Configuration loaded (Server Port: %s)", cfg.Server.Port)

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	application, err := app.NewApplication(cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	handler := handlers.NewHandler(
		application.ExportService,
		application.ScheduleService,
		application.SchemaService,
		application.Hints,
	)

	http.HandleFunc("/", middleware.CORS(handler.RootHandler))
	http.HandleFunc("/health", middleware.CORS(handler.HealthHandler))
	http.HandleFunc("/api/export", middleware.CORS(handler.ExportHandler))
	http.HandleFunc("/api/schema/tables", middleware.CORS(handler.TablesHandler))
	http.HandleFunc("/api/scheduler/start", middleware.CORS(handler.StartSchedulerHandler))
	http.HandleFunc("/api/scheduler/stop", middleware.CORS(handler.StopSchedulerHandler))
	http.HandleFunc("/api/scheduler/run", middleware.CORS(handler.RunHandler))
	http.HandleFunc("/api/scheduler/status", middleware.CORS(handler.StatusHandler))
	http.HandleFunc("/api/scheduler/config", middleware.CORS(handler.ConfigHandler))

	if cfg.Export.Schedule != "" && cfg.Export.Seeds != "" {
		if err := application.ScheduleService.Start(); err != nil {
			log.Printf("Scheduler not started: %v", err)
		}
	}

	port := cfg.Server.Port

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("\nShutting down server...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

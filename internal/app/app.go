package app

import (
	"database/sql"
	"fmt"

	"db-slice-export/internal/config"
	"db-slice-export/internal/models"
	"db-slice-export/internal/services"
)

type Application struct {
	Config          *config.AppConfig
	DB              *sql.DB
	Hints           models.Hints
	SchemaService   *services.SchemaService
	ExportService   *services.ExportService
	ScheduleService *services.ScheduleService
}

func NewApplication(cfg *config.AppConfig, db *sql.DB) (*Application, error) {
	hints, err := config.LoadHints(cfg.Export.HintsFile)
	if err != nil {
		return nil, err
	}

	seeds, err := models.ParseSeeds(cfg.Export.Seeds)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_SEEDS: %v", err)
	}

	app := &Application{
		Config: cfg,
		DB:     db,
		Hints:  hints,
	}

	app.SchemaService = services.NewSchemaService(db)
	app.ExportService = services.NewExportService(
		app.SchemaService,
		services.NewMySQLFetcher(db),
		services.NewMySQLRenderer(),
		hints,
	)
	app.ScheduleService = services.NewScheduleService(
		app.ExportService,
		cfg.Export.Schedule,
		seeds,
		cfg.Export.OutputDir,
	)

	return app, nil
}

func (app *Application) Close() {
	if app.DB != nil {
		app.DB.Close()
	}
}

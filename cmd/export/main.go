package main

import (
	"context"
	"log"
	"os"

	"github.com/alecthomas/kong"
	configLoader "github.com/andiksetyawan/config"

	"db-slice-export/internal/config"
	"db-slice-export/internal/models"
	"db-slice-export/internal/services"
)

// CLI exports a referentially-complete slice around the seed rows as a
// replayable insert script. Database connection settings come from the
// environment (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME) or a .env
// file, matching the server binary.
var CLI struct {
	Table  string   `arg:"" help:"Table the seed rows live in."`
	Keys   []string `arg:"" name:"key" help:"Primary key values of the seed rows; comma-separate the columns of a composite key."`
	Hints  string   `help:"YAML file with foreign key hints for relationships not declared as constraints." type:"existingfile"`
	Output string   `help:"Write the statements to a file instead of stdout." short:"o" type:"path"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("dbslice-export"),
		kong.Description("Export a referentially-complete slice of a MySQL database as insert statements."),
	)

	cfg := &config.AppConfig{}
	loader := configLoader.New(
		configLoader.WithEnvPath(".env"),
	)
	if err := loader.Load(cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	hintsFile := CLI.Hints
	if hintsFile == "" {
		hintsFile = cfg.Export.HintsFile
	}
	hints, err := config.LoadHints(hintsFile)
	kctx.FatalIfErrorf(err)

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	keys := make([][]interface{}, len(CLI.Keys))
	for i, key := range CLI.Keys {
		keys[i] = models.ParseKey(key)
	}

	exportService := services.NewExportService(
		services.NewSchemaService(db),
		services.NewMySQLFetcher(db),
		services.NewMySQLRenderer(),
		hints,
	)

	statements, err := exportService.Export(context.Background(), CLI.Table, keys)
	kctx.FatalIfErrorf(err)

	out := os.Stdout
	if CLI.Output != "" {
		out, err = os.Create(CLI.Output)
		kctx.FatalIfErrorf(err)
		defer out.Close()
	}

	for _, stmt := range statements {
		if _, err := out.WriteString(stmt.SQL + "\n"); err != nil {
			log.Fatalf("Failed to write statement: %v", err)
		}
	}
}

package config

type AppConfig struct {
	Server ServerConfig   `envPrefix:"SERVER_"`
	Export ExportConfig   `envPrefix:"EXPORT_"`
	DB     DatabaseConfig `envPrefix:"DB_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"3000"`
}

type ExportConfig struct {
	// Cron expression for scheduled exports in server mode. Empty disables
	// the scheduler.
	Schedule string `env:"SCHEDULE" envDefault:""`

	// Seeds exported on every scheduled run, e.g. "build:17;job:3,4".
	Seeds string `env:"SEEDS" envDefault:""`

	OutputDir string `env:"OUTPUT_DIR" envDefault:"./exports"`

	// Optional YAML file with foreign key hints.
	HintsFile string `env:"HINTS_FILE" envDefault:""`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD" envDefault:"password"`
	Name     string `env:"NAME" envDefault:"master_db"`
}

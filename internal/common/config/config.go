package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config is the application configuration, loaded once per process.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Jaeger   JaegerConfig   `json:"jaeger"`
	Log      LogConfig      `json:"log"`
	Auth     AuthConfig     `json:"auth"`
	Jobs     JobsConfig     `json:"jobs"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Name     string   `json:"name"`      // service name (also used as tracer name)
	Host     string   `json:"host"`      // bind address
	HTTPPort int      `json:"http_port"` // HTTP port
	Origins  []string `json:"origins"`   // allowed CORS origins for the admin UI
}

// DatabaseConfig describes the MySQL connection.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"` // overridden by DB_PASSWORD when set
	Database string `json:"database"`
	MaxIdle  int    `json:"max_idle"`
	MaxOpen  int    `json:"max_open"`
}

// JaegerConfig describes the tracing agent.
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // sampling rate 0.0-1.0
}

// LogConfig describes logging behaviour.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // log file path when output=file
}

// AuthConfig describes token issuing and the seeded operator account.
type AuthConfig struct {
	JWTSecret     string `json:"jwt_secret"` // overridden by JWT_SECRET when set
	Issuer        string `json:"issuer"`
	Audience      string `json:"audience"`
	TokenTTLHours int    `json:"token_ttl_hours"`
	AdminUsername string `json:"admin_username"` // seeded at startup if missing
	AdminPassword string `json:"admin_password"` // overridden by ADMIN_PASSWORD when set
}

// JobsConfig describes the background sweeps.
type JobsConfig struct {
	ReconcileIntervalMinutes int  `json:"reconcile_interval_minutes"` // vehicle status sweep; 0 disables
	MonthlyExpensesOnStart   bool `json:"monthly_expenses_on_start"`  // run monthly generation once at boot
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig reads the JSON config file. A missing file is not an error:
// defaults are used so a fresh checkout runs against a local MySQL.
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = defaultConfig()
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			logrus.Warnf("config file not found: %s, using default config", configPath)
			applyEnvOverrides(globalConfig)
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}
		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
		applyEnvOverrides(globalConfig)
	})

	if err != nil {
		return nil, err
	}
	return globalConfig, nil
}

// GetConfig returns the loaded configuration, or defaults before LoadConfig.
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

// applyEnvOverrides lets secrets come from the environment (.env or real env)
// so they never have to live in the checked-in config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Auth.AdminPassword = v
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "carsmotion-backoffice",
			Host:     "0.0.0.0",
			HTTPPort: 8080,
			Origins:  []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "carsmotion",
			MaxIdle:  10,
			MaxOpen:  50,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
		Auth: AuthConfig{
			JWTSecret:     "dev-secret-change-me",
			Issuer:        "carsmotion",
			Audience:      "carsmotion-admin",
			TokenTTLHours: 24,
			AdminUsername: "admin",
			AdminPassword: "admin",
		},
		Jobs: JobsConfig{
			ReconcileIntervalMinutes: 60,
			MonthlyExpensesOnStart:   false,
		},
	}
}

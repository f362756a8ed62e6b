package config

import (
	"time"

	"github.com/driveloop/service-rental/pkg/config"
)

// ServiceConfig holds all configuration for the rental booking service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	DBConfig      config.DatabaseConfig
	JWTConfig     config.JWTConfig
	KafkaConfig   config.KafkaConfig
	SweepInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("RENTAL")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("SWEEP_INTERVAL_MINUTES", 60)

	return &ServiceConfig{
		Port:          config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:        config.GetAppEnv(v),
		DBConfig:      config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:     config.LoadJWTConfig(v),
		KafkaConfig:   config.LoadKafkaConfig(v),
		SweepInterval: time.Duration(v.GetInt("SWEEP_INTERVAL_MINUTES")) * time.Minute,
	}, nil
}

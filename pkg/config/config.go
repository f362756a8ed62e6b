package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Load builds a viper instance bound to environment variables with the given
// prefix (e.g. prefix "RENTAL" reads RENTAL_DB_HOST). A local .env file is
// read when present; missing files are not an error.
func Load(prefix string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// .env is optional; only a malformed file is fatal.
			if !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("failed to read .env: %w", err)
			}
		}
	}

	setDefaults(v)
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
}

// GetAppEnv returns the configured application environment.
func GetAppEnv(v *viper.Viper) string {
	return v.GetString("APP_ENV")
}

// GetServicePort returns the listen address for the named port variable,
// normalized to the ":8080" form http.Server expects.
func GetServicePort(v *viper.Viper, key string) string {
	port := v.GetString(key)
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// LoadDatabaseConfig reads PostgreSQL settings; dbNameKey names the variable
// holding the database name.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) DatabaseConfig {
	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString(dbNameKey),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

// LoadJWTConfig reads token signing settings.
func LoadJWTConfig(v *viper.Viper) JWTConfig {
	return JWTConfig{Secret: v.GetString("JWT_SECRET")}
}

// LoadKafkaConfig reads broker settings. Brokers are a comma-separated list.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	raw := v.GetString("KAFKA_BROKERS")
	brokers := strings.Split(raw, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return KafkaConfig{
		Brokers:     brokers,
		GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
	}
}

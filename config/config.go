package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		ExternalAPI struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"externalAPI"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
	Planner struct {
		AverageSpeedKmh    float64 `mapstructure:"averageSpeedKmh"`
		DefaultVisitMins   int     `mapstructure:"defaultVisitMinutes"`
		AbsorbRadiusKm     float64 `mapstructure:"absorbRadiusKm"`
		MaxClusterSpreadKm float64 `mapstructure:"maxClusterSpreadKm"`
		DayBudgetHours     float64 `mapstructure:"dayBudgetHours"`
	} `mapstructure:"planner"`
	Places struct {
		BaseURL string `mapstructure:"baseURL"`
		APIKey  string `mapstructure:"apiKey"`
	} `mapstructure:"places"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Environment variables override file values for secrets.
	v.SetEnvPrefix("EXPLORESL")
	v.AutomaticEnv()
	_ = v.BindEnv("auth.jwtSecret", "EXPLORESL_JWT_SECRET")
	_ = v.BindEnv("places.apiKey", "EXPLORESL_PLACES_API_KEY")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}

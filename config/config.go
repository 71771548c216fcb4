package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Pending booking context: "memory" or "redis".
	ContextStore      string        `mapstructure:"CONTEXT_STORE"`
	PendingContextTTL time.Duration `mapstructure:"PENDING_CONTEXT_TTL"`

	// Remote model fallback. Empty key disables it.
	LLMProvider string        `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey   string        `mapstructure:"LLM_API_KEY"`
	LLMModel    string        `mapstructure:"LLM_MODEL"`
	LLMBaseURL  string        `mapstructure:"LLM_BASE_URL"`
	LLMTimeout  time.Duration `mapstructure:"LLM_TIMEOUT"`

	// Weather lookup (Open-Meteo).
	WeatherURL       string        `mapstructure:"WEATHER_URL"`
	WeatherLatitude  float64       `mapstructure:"WEATHER_LATITUDE"`
	WeatherLongitude float64       `mapstructure:"WEATHER_LONGITUDE"`
	WeatherTimeout   time.Duration `mapstructure:"WEATHER_TIMEOUT"`

	// Google speech-to-text credentials. Empty disables transcription.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	NotificationsEnabled bool          `mapstructure:"NOTIFICATIONS_ENABLED"`
	BookingTimeout       time.Duration `mapstructure:"BOOKING_TIMEOUT"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TIMEZONE", "Africa/Casablanca")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_NAME", "courtconnect")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CONTEXT_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("CONTEXT_STORE", "memory")
	v.SetDefault("PENDING_CONTEXT_TTL", "0s")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_BASE_URL", "")
	v.SetDefault("LLM_TIMEOUT", "20s")
	v.SetDefault("WEATHER_URL", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("WEATHER_LATITUDE", 33.5333)
	v.SetDefault("WEATHER_LONGITUDE", -5.1167)
	v.SetDefault("WEATHER_TIMEOUT", "5s")
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	v.SetDefault("NOTIFICATIONS_ENABLED", false)
	v.SetDefault("BOOKING_TIMEOUT", "10s")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

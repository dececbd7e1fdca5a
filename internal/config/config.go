package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Register  RegisterConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type PrinterConfig struct {
	Type    string // usb, network, buffer or none
	USBPath string
	Address string
	Timeout time.Duration
	// Width is the receipt width in characters: 32 for 58mm paper, 48 for 80mm.
	Width int
}

// RegisterConfig configures the cashier terminal service.
type RegisterConfig struct {
	Port            string
	SalesAPIURL     string
	SalesAPITimeout time.Duration
	BusinessName    string
	// SaveStatusReset is how long a save result stays on screen.
	SaveStatusReset time.Duration
	// TokenSecret signs the register's bearer token for the sales API.
	// Authentication is disabled when empty.
	TokenSecret string
	RegisterID  string
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, using environment variables", slog.Any("error", err))
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "shundor-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "shundor_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_TIMEOUT", "5s")
	viper.SetDefault("RECEIPT_WIDTH", 32)
	viper.SetDefault("REGISTER_PORT", "8080")
	viper.SetDefault("SALES_API_URL", "http://localhost:8000/api")
	viper.SetDefault("SALES_API_TIMEOUT", "10s")
	viper.SetDefault("BUSINESS_NAME", "Shundor Space")
	viper.SetDefault("SAVE_STATUS_RESET", "3s")
	viper.SetDefault("REGISTER_TOKEN_SECRET", "")
	viper.SetDefault("REGISTER_ID", "register-1")

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Printer: PrinterConfig{
			Type:    strings.ToLower(viper.GetString("PRINTER_TYPE")),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Timeout: viper.GetDuration("PRINTER_TIMEOUT"),
			Width:   viper.GetInt("RECEIPT_WIDTH"),
		},
		Register: RegisterConfig{
			Port:            viper.GetString("REGISTER_PORT"),
			SalesAPIURL:     strings.TrimRight(viper.GetString("SALES_API_URL"), "/"),
			SalesAPITimeout: viper.GetDuration("SALES_API_TIMEOUT"),
			BusinessName:    viper.GetString("BUSINESS_NAME"),
			SaveStatusReset: viper.GetDuration("SAVE_STATUS_RESET"),
			TokenSecret:     viper.GetString("REGISTER_TOKEN_SECRET"),
			RegisterID:      viper.GetString("REGISTER_ID"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

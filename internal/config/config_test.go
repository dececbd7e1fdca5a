package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Load()

	assert.Equal(t, "Shundor Space", cfg.Register.BusinessName)
	assert.Equal(t, 3*time.Second, cfg.Register.SaveStatusReset)
	assert.Equal(t, 10*time.Second, cfg.Register.SalesAPITimeout)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, 32, cfg.Printer.Width)
	assert.Empty(t, cfg.Register.TokenSecret)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SALES_API_URL", "http://sales.local/api/")
	t.Setenv("SAVE_STATUS_RESET", "1500ms")
	t.Setenv("PRINTER_TYPE", "NETWORK")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, "http://sales.local/api", cfg.Register.SalesAPIURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Register.SaveStatusReset)
	assert.Equal(t, "network", cfg.Printer.Type)
	assert.True(t, cfg.App.IsProduction())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "pos", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=pos port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}

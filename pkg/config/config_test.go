package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vouchers-api/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 100, cfg.Voucher.MaxQuantity)
	assert.True(t, cfg.Voucher.AttachPDF)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "postgres://postgres:@localhost:5432/vouchers?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_ValoresDeEntorno(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("DB_PASSWORD", "p@ss:word")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("SMTP_HOST", "smtp.example.com")
	v.Set("VOUCHER_ATTACH_PDF", "false")
	v.Set("DB_AUTO_MIGRATE", "true")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Voucher.AttachPDF)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword", "la contraseña debe ir codificada en el DSN")
}

func TestFromViper_DatabaseURLTienePrioridad(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgresql://u:p@db:5432/x")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_MaxQuantityInvalido(t *testing.T) {
	v := viper.New()
	v.Set("VOUCHER_MAX_QUANTITY", "0")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

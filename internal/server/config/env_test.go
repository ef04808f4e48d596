package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("SECRET_KEY", "prod-secret")
	t.Setenv("TOKEN_VALIDITY", "48h")
	t.Setenv("COOKIE_VALIDITY", "30m")
	t.Setenv("ENV", EnvProduction)
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("LOGIN_RATE_LIMIT", "5")
	t.Setenv("LOGIN_RATE_WINDOW", "2m")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":9090", c.EndpointAddr)
	assert.Equal(t, "prod-secret", c.SecretKey)
	assert.Equal(t, 48*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 30*time.Minute, c.CookieValidityDuration)
	assert.Equal(t, EnvProduction, c.Env)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, 5, c.LoginRateLimit)
	assert.Equal(t, 2*time.Minute, c.LoginRateWindow)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
}

func TestParseEnv_MalformedValuesIgnored(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "tomorrow")
	t.Setenv("BCRYPT_COST", "lots")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
}

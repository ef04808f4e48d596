package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset or
// malformed values leave the current config untouched.
//
// Recognized variables:
//
//	ADDRESS            HTTP bind address
//	DATABASE_DSN       PostgreSQL DSN
//	SECRET_KEY         JWT HMAC secret
//	TOKEN_VALIDITY     session token lifetime (e.g. "24h")
//	COOKIE_VALIDITY    session cookie lifetime (e.g. "1h")
//	ENV                "development" or "production"
//	BCRYPT_COST        password hashing work factor
//	LOGIN_RATE_LIMIT   login/signup attempts per window per IP
//	LOGIN_RATE_WINDOW  rate limit window (e.g. "1m")
//	REDIS_ADDR         Redis address for the rate limiter
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("COOKIE_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.CookieValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("ENV"); ok {
		config.Env = v
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("LOGIN_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.LoginRateLimit = n
		}
	}
	if v, ok := os.LookupEnv("LOGIN_RATE_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.LoginRateWindow = d
		}
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "24h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	TokenValidityDuration  timex.Duration `json:"token_validity_duration"`
	CookieValidityDuration timex.Duration `json:"cookie_validity_duration"`
	Env                    string         `json:"env"`
	BcryptCost             int            `json:"bcrypt_cost"`
	LoginRateLimit         int            `json:"login_rate_limit"`
	LoginRateWindow        timex.Duration `json:"login_rate_window"`
	RedisAddr              string         `json:"redis_addr"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, when present. Unset JSON fields keep the values already
// in config. An unreadable or invalid file panics: a config file that was
// explicitly asked for but cannot be used is a fatal startup condition.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CookieValidityDuration.Duration != 0 {
		config.CookieValidityDuration = c.CookieValidityDuration.Duration
	}
	if c.Env != "" {
		config.Env = c.Env
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.LoginRateLimit != 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	if c.LoginRateWindow.Duration != 0 {
		config.LoginRateWindow = c.LoginRateWindow.Duration
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
}

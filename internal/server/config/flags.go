package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   session token validity (e.g., "24h")
//	-k duration   session cookie validity (e.g., "1h")
//	-e string     environment ("development" or "production")
//	-r string     Redis address for the login rate limiter
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components (e.g. the
// -c/-config flags owned by the JSON overlay).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-e", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.DurationVar(&config.CookieValidityDuration, "k", config.CookieValidityDuration, "cookie validity duration")
	fs.StringVar(&config.Env, "e", config.Env, "environment (development|production)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for rate limiting")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

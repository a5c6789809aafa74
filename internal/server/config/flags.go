package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/postgate/internal/flagx"
)

var ownFlags = []string{"-a", "-g", "-d", "-s", "-k", "-t", "-m", "-mail", "-from", "-prod", "-log-level"}

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string       HTTP bind address (e.g. ":8000")
//	-g string       gRPC health bind address
//	-d string       PostgreSQL DSN
//	-s string       session token (JWT) secret
//	-k string       verification code HMAC secret
//	-t duration     session lifetime (e.g. "8h")
//	-m duration     verification code lifetime (e.g. "5m")
//	-mail string    mail driver: log or ses
//	-from string    sender address for verification mail
//	-prod           production mode (secure cookies)
//	-log-level      debug, info, warn or error
//
// Arguments owned by other layers (-c/-config) are filtered out first.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("postgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "session token secret")
	fs.StringVar(&config.CodeSecret, "k", config.CodeSecret, "verification code secret")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.DurationVar(&config.CodeTTL, "m", config.CodeTTL, "verification code lifetime")
	fs.StringVar(&config.MailDriver, "mail", config.MailDriver, "mail driver (log|ses)")
	fs.StringVar(&config.MailFrom, "from", config.MailFrom, "verification mail sender")
	fs.BoolVar(&config.Production, "prod", config.Production, "production mode")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	return fs.Parse(flagx.FilterArgs(args, ownFlags))
}

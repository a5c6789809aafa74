package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/postgate/internal/flagx"
)

// Duration decodes either a Go duration string ("5m", "8h") or an integer
// number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = v
		return nil
	}

	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	d.Duration = time.Duration(n)
	return nil
}

// JsonConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from zero so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr       *string   `json:"http_addr"`
	GRPCAddr       *string   `json:"grpc_addr"`
	DatabaseDSN    *string   `json:"database_dsn"`
	JWTSecret      *string   `json:"jwt_secret"`
	CodeSecret     *string   `json:"code_secret"`
	SessionTTL     *Duration `json:"session_ttl"`
	CodeTTL        *Duration `json:"code_ttl"`
	PasswordHasher *string   `json:"password_hasher"`
	BcryptCost     *int      `json:"bcrypt_cost"`
	MailDriver     *string   `json:"mail_driver"`
	MailFrom       *string   `json:"mail_from"`
	SESRegion      *string   `json:"ses_region"`
	SESEndpoint    *string   `json:"ses_endpoint"`
	SESAccessKey   *string   `json:"ses_access_key"`
	SESSecretKey   *string   `json:"ses_secret_key"`
	Production     *bool     `json:"production"`
	PostsPerPage   *int      `json:"posts_per_page"`
	LogLevel       *string   `json:"log_level"`
	LogFormat      *string   `json:"log_format"`
}

// parseJson loads the file named by -c/-config (if any) into config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.JWTSecret, c.JWTSecret)
	setString(&config.CodeSecret, c.CodeSecret)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.MailDriver, c.MailDriver)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESEndpoint, c.SESEndpoint)
	setString(&config.SESAccessKey, c.SESAccessKey)
	setString(&config.SESSecretKey, c.SESSecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.CodeTTL != nil {
		config.CodeTTL = c.CodeTTL.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.Production != nil {
		config.Production = *c.Production
	}
	if c.PostsPerPage != nil {
		config.PostsPerPage = *c.PostsPerPage
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"http_addr":       "www.example:9000",
		"database_dsn":    "postgres://json/db",
		"jwt_secret":      "my_secret_key",
		"session_ttl":     "2h",
		"code_ttl":        int64(3 * time.Minute),
		"password_hasher": "argon2id",
		"mail_driver":     "ses",
		"ses_region":      "eu-west-1",
		"production":      true,
		"posts_per_page":  25,
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres://json/db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.JWTSecret)
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 3*time.Minute, cfg.CodeTTL)
		assert.Equal(t, HasherArgon2id, cfg.PasswordHasher)
		assert.Equal(t, MailDriverSES, cfg.MailDriver)
		assert.Equal(t, "eu-west-1", cfg.SESRegion)
		assert.True(t, cfg.Production)
		assert.Equal(t, 25, cfg.PostsPerPage)
	})

	t.Run("absent keys keep previous values", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", path}))

		assert.Equal(t, "codeSecret", cfg.CodeSecret)
		assert.Equal(t, ":50051", cfg.GRPCAddr)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234"}
		require.NoError(t, parseJson(cfg, nil))
		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
	})
}

func Test_parseJson_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		err := parseJson(&Config{}, []string{"-c", path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode config file")
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"code_ttl": "five minutes"})
		err := parseJson(&Config{}, []string{"-c", path})
		require.Error(t, err)
	})
}

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is built once at startup and passed into the components that need
// it. Nothing reads viper after Load returns.
type Config struct {
	ServerName string
	ServerHost string
	ServerPort int
	Realm      string

	JWTSecret        string
	JWTAlgorithm     string
	JWTExpireMinutes int

	DBDriver   string
	SQLitePath string

	PGHost string
	PGPort string
	PGUser string
	PGPass string
	PGDB   string
}

// Load reads an optional config.yaml from the working directory, with APP_*
// environment variables taking precedence (e.g. APP_JWT_SECRET overrides
// jwt.secret).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.name", "saigo.info")
	v.SetDefault("server.host", "http://localhost")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.realm", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.expire_minutes", 180)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "blog.db")
	v.SetDefault("database.pg_host", "localhost")
	v.SetDefault("database.pg_port", "5432")
	v.SetDefault("database.pg_user", "saigo")
	v.SetDefault("database.pg_pass", "saigo")
	v.SetDefault("database.pg_db", "saigoblog")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "reading config file")
		}
	}

	cfg := Config{
		ServerName:       v.GetString("server.name"),
		ServerHost:       v.GetString("server.host"),
		ServerPort:       v.GetInt("server.port"),
		Realm:            v.GetString("server.realm"),
		JWTSecret:        v.GetString("jwt.secret"),
		JWTAlgorithm:     v.GetString("jwt.algorithm"),
		JWTExpireMinutes: v.GetInt("jwt.expire_minutes"),
		DBDriver:         v.GetString("database.driver"),
		SQLitePath:       v.GetString("database.sqlite_path"),
		PGHost:           v.GetString("database.pg_host"),
		PGPort:           v.GetString("database.pg_port"),
		PGUser:           v.GetString("database.pg_user"),
		PGPass:           v.GetString("database.pg_pass"),
		PGDB:             v.GetString("database.pg_db"),
	}

	if cfg.Realm == "" {
		cfg.Realm = cfg.ServerName
	}

	// Without a configured secret every restart invalidates outstanding
	// tokens, which is fine for dev.
	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.JWTSecret = secret
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, errors.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.PGHost, c.PGUser, c.PGPass, c.PGDB, c.PGPort,
	)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generating jwt secret")
	}
	return hex.EncodeToString(buf), nil
}

// Package config loads service configuration from an INI file with
// environment-variable overrides. The library under xml2json/ takes options
// per call and never reads this.
package config

import (
	"os"
	"time"

	"github.com/go-ini/ini"
)

// Server holds the HTTP listener settings.
type Server struct {
	Port     string
	LogLevel string
}

// Auth holds the JWT settings for the API. When Enabled is false the convert
// endpoints are open.
type Auth struct {
	Enabled  bool
	Secret   string
	Username string
	Password string
	Expire   time.Duration
}

// DB holds the optional gorm connection. An empty DSN disables persistence.
type DB struct {
	Driver string // "mysql" or "postgres"
	DSN    string
}

// Fetch holds defaults for remote document fetching.
type Fetch struct {
	TimeoutMs    int
	MaxRedirects int
	Encoding     string
	CacheTTL     time.Duration
}

// Config is the full service configuration.
type Config struct {
	Server Server
	Auth   Auth
	DB     DB
	Fetch  Fetch
}

func defaults() *Config {
	return &Config{
		Server: Server{Port: "8080", LogLevel: "info"},
		Auth:   Auth{Expire: 2 * time.Hour},
		DB:     DB{Driver: "mysql"},
		Fetch: Fetch{
			TimeoutMs:    10000,
			MaxRedirects: 10,
			Encoding:     "UTF8",
			CacheTTL:     5 * time.Minute,
		},
	}
}

var cfg = defaults()

// Get returns the loaded configuration.
func Get() *Config { return cfg }

// Init loads the INI file at path. A missing file keeps the defaults; either
// way environment overrides are applied afterwards.
func Init(path string) error {
	cfg = defaults()
	if _, err := os.Stat(path); err == nil {
		f, err := ini.Load(path)
		if err != nil {
			return err
		}
		apply(f, cfg)
	}
	applyEnv(cfg)
	return nil
}

func apply(f *ini.File, c *Config) {
	s := f.Section("server")
	c.Server.Port = s.Key("port").MustString(c.Server.Port)
	c.Server.LogLevel = s.Key("loglevel").MustString(c.Server.LogLevel)

	a := f.Section("auth")
	c.Auth.Enabled = a.Key("enabled").MustBool(c.Auth.Enabled)
	c.Auth.Secret = a.Key("secret").MustString(c.Auth.Secret)
	c.Auth.Username = a.Key("username").MustString(c.Auth.Username)
	c.Auth.Password = a.Key("password").MustString(c.Auth.Password)
	c.Auth.Expire = a.Key("expire").MustDuration(c.Auth.Expire)

	d := f.Section("db")
	c.DB.Driver = d.Key("driver").MustString(c.DB.Driver)
	c.DB.DSN = d.Key("dsn").MustString(c.DB.DSN)

	fe := f.Section("fetch")
	c.Fetch.TimeoutMs = fe.Key("timeoutms").MustInt(c.Fetch.TimeoutMs)
	c.Fetch.MaxRedirects = fe.Key("maxredirects").MustInt(c.Fetch.MaxRedirects)
	c.Fetch.Encoding = fe.Key("encoding").MustString(c.Fetch.Encoding)
	c.Fetch.CacheTTL = fe.Key("cachettl").MustDuration(c.Fetch.CacheTTL)
}

func applyEnv(c *Config) {
	if v := os.Getenv("XML2JSON_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("XML2JSON_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("XML2JSON_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
		c.Auth.Enabled = true
	}
	if v := os.Getenv("XML2JSON_DB_DRIVER"); v != "" {
		c.DB.Driver = v
	}
	if v := os.Getenv("XML2JSON_DB_DSN"); v != "" {
		c.DB.DSN = v
	}
}

// Package db owns the optional gorm connection and the in-process cache.
package db

import (
	"errors"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/irapidev/xml2json/comm/config"
	"github.com/irapidev/xml2json/comm/log"
	"github.com/irapidev/xml2json/db/model"
)

var (
	gdb      *gorm.DB
	cacheCli = cache.New(5*time.Minute, 10*time.Minute)
)

// Init opens the database configured in [db]. An empty DSN is not an error;
// the service then runs without conversion history.
func Init() error {
	cfg := config.Get().DB
	if cfg.DSN == "" {
		log.Info("no db dsn configured, conversion history disabled")
		return nil
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return errors.New("unsupported db driver: " + cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&model.ConversionRecord{}); err != nil {
		return err
	}
	gdb = db
	log.Infof("db connected (%s)", cfg.Driver)
	return nil
}

// Get returns the gorm handle, or nil when persistence is disabled.
func Get() *gorm.DB { return gdb }

// Enabled reports whether a database connection is available.
func Enabled() bool { return gdb != nil }

// GetCache returns the shared in-process cache.
func GetCache() *cache.Cache { return cacheCli }

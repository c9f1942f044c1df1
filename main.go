package main

import (
	"flag"

	"github.com/gin-gonic/gin"

	"github.com/irapidev/xml2json/api/convert"
	"github.com/irapidev/xml2json/comm/config"
	"github.com/irapidev/xml2json/comm/log"
	"github.com/irapidev/xml2json/db"
)

func main() {
	configPath := flag.String("config", "config.ini", "path to the ini config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Errorf("load config: %v", err)
		return
	}
	log.Init(config.Get().Server.LogLevel)

	if err := db.Init(); err != nil {
		log.Errorf("init db: %v", err)
		return
	}

	e := gin.Default()
	convert.Routers(e)

	addr := ":" + config.Get().Server.Port
	log.Infof("listening on %s", addr)
	if err := e.Run(addr); err != nil {
		log.Error(err)
	}
}

package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"company-map/internal/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := server.NewLogger(cfg)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg, log)
	r := srv.Router()

	log.Info("company map viewer listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

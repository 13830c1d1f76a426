package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"artezaar-backend/internal/config"
	"artezaar-backend/internal/db"
	"artezaar-backend/internal/otp"
	"artezaar-backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, database, cfg)

	// Retention: long-expired codes are useless for verification and are
	// swept out hourly.
	otpStore := otp.NewGormStore(database)
	retention := time.Duration(cfg.OtpRetentionHours) * time.Hour
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-retention)
		removed, err := otpStore.DeleteExpiredBefore(context.Background(), cutoff)
		if err != nil {
			log.Printf("otp cleanup error: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("otp cleanup removed %d expired codes", removed)
		}
	}); err != nil {
		log.Fatalf("cron error: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package routes

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"gorm.io/gorm"

	"artezaar-backend/internal/config"
	"artezaar-backend/internal/email"
	"artezaar-backend/internal/handlers"
	"artezaar-backend/internal/middleware"
	"artezaar-backend/internal/otp"
)

func Register(router *gin.Engine, database *gorm.DB, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "artezaar-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	store := otp.NewGormStore(database)
	sender := newSender(cfg)
	issuer := otp.NewIssuer(store, sender, time.Duration(cfg.OtpMinutes)*time.Minute)
	verifier := otp.NewVerifier(store)

	authHandler := handlers.NewAuthHandler(issuer, verifier, cfg)
	productHandler := handlers.NewProductHandler(database)

	api := router.Group("/api")
	{
		api.POST("/send-otp", sendLimiter(cfg.OtpRateLimit), authHandler.SendOTP)
		api.POST("/verify-otp", authHandler.VerifyOTP)

		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/categories", productHandler.Categories)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(cfg.JwtSecret))
	{
		protected.POST("/products", productHandler.Publish)
	}
}

func newSender(cfg config.Config) email.Sender {
	if cfg.EmailProvider == "resend" {
		return email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	}
	return email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SmtpHost,
		Port:     cfg.SmtpPort,
		Username: cfg.SmtpUser,
		Password: cfg.SmtpPass,
		From:     cfg.EmailFrom,
	})
}

func sendLimiter(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Printf("invalid OTP_RATE_LIMIT %q, falling back to 10-M: %v", formatted, err)
		rate = limiter.Rate{Period: time.Minute, Limit: 10}
	}
	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

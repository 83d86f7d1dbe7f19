package server

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizalfh/paylane/config"
	"github.com/rizalfh/paylane/internal/analytics"
	"github.com/rizalfh/paylane/internal/gateway"
	"github.com/rizalfh/paylane/internal/handlers"
	"github.com/rizalfh/paylane/internal/mailer"
	"github.com/rizalfh/paylane/internal/middleware"
	"github.com/rizalfh/paylane/internal/store"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	gatewayCfg, err := config.LoadGatewayConfig()
	if err != nil {
		return fmt.Errorf("failed to load gateway config: %v", err)
	}

	smtpCfg, err := config.LoadSMTPConfig()
	if err != nil {
		return fmt.Errorf("failed to load SMTP config: %v", err)
	}

	smtpMailer := mailer.NewSMTPMailer(smtpCfg)
	defer smtpMailer.Close()

	deps := Dependencies{
		Store:      store.NewGormStore(db),
		Verifier:   gateway.NewClient(gatewayCfg),
		Mailer:     smtpMailer,
		AdminEmail: smtpCfg.AdminEmail,
	}

	r := gin.Default()
	setupRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

type Dependencies struct {
	Store      store.Store
	Verifier   gateway.Verifier
	Mailer     mailer.Mailer
	AdminEmail string
}

func setupRoutes(r *gin.Engine, deps Dependencies) {
	paymentHandler := handlers.NewPaymentHandler(deps.Store, deps.Verifier, deps.Mailer, deps.AdminEmail)
	refundHandler := handlers.NewRefundHandler(deps.Store, deps.Mailer, deps.AdminEmail)
	authHandler := handlers.NewAuthHandler(deps.Store)
	adminHandler := handlers.NewAdminHandler(deps.Store)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Store, analytics.NewAggregator())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/verify-payment", paymentHandler.VerifyPayment)
		api.GET("/payments/:email", paymentHandler.ListByEmail)
		api.GET("/payments/:email/refunds", refundHandler.ListByEmail)
		api.GET("/receipts/:reference/qr", paymentHandler.ReceiptQR)
		api.POST("/refund-request", refundHandler.Create)

		admin := api.Group("/admin")
		admin.POST("/login", authHandler.Login)

		protected := admin.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		{
			protected.GET("/transactions", adminHandler.ListTransactions)
			protected.GET("/refunds", adminHandler.ListRefunds)
			protected.PUT("/refunds/:id/status", adminHandler.UpdateRefundStatus)
			protected.GET("/analytics", analyticsHandler.GetAnalytics)
			protected.GET("/staff", adminHandler.ListStaff)
			protected.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}

	// The bundled single-page app handles every unmatched GET path; its
	// client-side router takes over from there.
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.File("./public/index.html")
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

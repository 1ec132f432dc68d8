package main

import (
	"sahara/pkg/config"
	app "sahara/services/donation/internal/app"
)

// @title           Sahara Donation Service API
// @version         1.0
// @description     Donation order and payment confirmation service for the Sahara platform

// @host      localhost:8004
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Validate JWT_SECRET for services that use JWT
	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		panic("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}

package main

import (
	"sahara/pkg/config"
	app "sahara/services/contact/internal/app"
)

// @title           Sahara Contact Service API
// @version         1.0
// @description     Contact form relay service for the Sahara platform

// @host      localhost:8005
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.ContactRelayURL == "" {
		panic("CONTACT_RELAY_URL must be set in environment variables")
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

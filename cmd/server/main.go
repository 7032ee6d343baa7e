package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	appfx "github.com/amityadav/scout/internal/fx"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule,     // Provides: config.Config
		appfx.SearchModule,     // Provides: *search.Registry
		appfx.AggregatorModule, // Provides: *aggregator.Aggregator
		appfx.ServiceModule,    // Provides: *service.SearchService
		appfx.MonitorModule,    // Provides: *monitor.Monitor
		appfx.ServerModule,     // Starts HTTP server and monitor

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}

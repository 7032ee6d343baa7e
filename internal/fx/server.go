package fx

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"go.uber.org/fx"

	"github.com/amityadav/scout/internal/config"
	"github.com/amityadav/scout/internal/monitor"
	"github.com/amityadav/scout/internal/search"
	"github.com/amityadav/scout/internal/server"
	"github.com/amityadav/scout/internal/service"
)

// ServerModule starts the HTTP server and the monitor
var ServerModule = fx.Module("server",
	fx.Invoke(
		StartServer,
		StartMonitor,
	),
)

// ServerParams groups dependencies for starting the HTTP server
type ServerParams struct {
	fx.In
	Lifecycle     fx.Lifecycle
	SearchService *service.SearchService
	Registry      *search.Registry
	Config        config.Config
}

// StartServer starts the REST server with lifecycle management
func StartServer(p ServerParams) {
	restHandler := server.CreateRESTHandler(server.Services{
		SearchService: p.SearchService,
		Registry:      p.Registry,
	}, p.Config)
	recoveryHandler := server.CreateRecoveryHandler(restHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.Config.HTTPPort),
		Handler: recoveryHandler,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}

// MonitorParams groups dependencies for the availability monitor
type MonitorParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Monitor   *monitor.Monitor
}

// StartMonitor starts the provider availability monitor
func StartMonitor(p MonitorParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.Monitor.Start()
		},
		OnStop: func(ctx context.Context) error {
			p.Monitor.Stop()
			return nil
		},
	})
}

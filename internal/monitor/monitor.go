package monitor

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/amityadav/scout/internal/search"
)

// Monitor periodically reports provider availability so operators can see
// when a credential expires or a provider drops out of rotation.
type Monitor struct {
	registry *search.Registry
	schedule string
	cron     *cron.Cron
}

// New creates a monitor with a standard 5-field cron schedule
func New(registry *search.Registry, schedule string) *Monitor {
	return &Monitor{
		registry: registry,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start begins the scheduled availability checks and logs one immediately
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.report); err != nil {
		return err
	}
	m.report()
	m.cron.Start()
	log.Printf("[Monitor] Started (schedule %q)", m.schedule)
	return nil
}

// Stop halts the scheduler; running checks finish on their own
func (m *Monitor) Stop() {
	m.cron.Stop()
	log.Printf("[Monitor] Stopped")
}

func (m *Monitor) report() {
	providers := m.registry.GetAll()
	available := 0
	for _, p := range providers {
		if p.Available() {
			available++
		} else {
			log.Printf("[Monitor] Provider %s is unavailable", p.Name())
		}
	}
	log.Printf("[Monitor] %d/%d providers available", available, len(providers))
}

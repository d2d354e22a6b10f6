package configs

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/pkg/metrics"
)

// App is the process-lifetime context built once in main and handed to the
// routing layer, which wires repositories, services and handlers from it.
type App struct {
	Config   *Config
	DB       *gorm.DB
	Log      *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// NewApp assembles the process context. A nil logger falls back to a no-op logger.
func NewApp(cfg *Config, db *gorm.DB, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	return &App{
		Config:   cfg,
		DB:       db,
		Log:      log,
		Registry: reg,
		Metrics:  metrics.New(reg),
	}
}

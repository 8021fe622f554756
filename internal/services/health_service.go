package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"hdpulse/internal/store"
	ws "hdpulse/internal/websocket"
	"hdpulse/pkg/contracts"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Dataset   DatasetHealth          `json:"dataset"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// DatasetHealth reports the state of the loaded dataset
type DatasetHealth struct {
	Status       string    `json:"status"`
	Path         string    `json:"path"`
	Version      string    `json:"version,omitempty"`
	LoadedAt     time.Time `json:"loaded_at,omitempty"`
	TotalRecords int       `json:"total_records"`
	GateEntries  int       `json:"gate_entries"`
	HDEntries    int       `json:"hd_entries"`
	Message      string    `json:"message,omitempty"`
}

// HealthService reports liveness and dataset state
type HealthService struct {
	store     *store.Store
	hub       *ws.Hub
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(st *store.Store, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		store:     st,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check returns the current health status. The service is degraded, not
// down, when the dataset cannot be reloaded; the cached copy keeps serving.
func (hs *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   contracts.Version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Dataset:   hs.datasetHealth(ctx),
	}

	if status.Dataset.Status != "loaded" {
		status.Status = "degraded"
	}

	status.Runtime = map[string]interface{}{
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
	if hs.hub != nil {
		status.Runtime["websocket_clients"] = hs.hub.ClientCount()
	}

	return status
}

func (hs *HealthService) datasetHealth(ctx context.Context) DatasetHealth {
	health := DatasetHealth{Path: hs.store.Path()}

	dataset, err := hs.store.Load(ctx)
	if err != nil {
		if cached := hs.store.Current(); cached != nil {
			summary := cached.Summary()
			return DatasetHealth{
				Status:       "stale",
				Path:         hs.store.Path(),
				Version:      cached.Version,
				LoadedAt:     cached.LoadedAt,
				TotalRecords: summary.TotalRecords,
				GateEntries:  summary.GateEntries,
				HDEntries:    summary.HDEntries,
				Message:      err.Error(),
			}
		}
		health.Status = "unavailable"
		health.Message = err.Error()
		return health
	}

	summary := dataset.Summary()
	health.Status = "loaded"
	health.Version = dataset.Version
	health.LoadedAt = dataset.LoadedAt
	health.TotalRecords = summary.TotalRecords
	health.GateEntries = summary.GateEntries
	health.HDEntries = summary.HDEntries
	return health
}

package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is any dependency that can report whether it is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	started time.Time
	checks  map[string]Pinger
}

func NewHealthHandler(started time.Time, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{started: started, checks: checks}
}

type healthMemory struct {
	AllocBytes      uint64 `json:"allocBytes"`
	TotalAllocBytes uint64 `json:"totalAllocBytes"`
	SysBytes        uint64 `json:"sysBytes"`
	HeapObjects     uint64 `json:"heapObjects"`
	NumGC           uint32 `json:"numGC"`
}

type healthReport struct {
	Status         string            `json:"status"`
	Timestamp      time.Time         `json:"timestamp"`
	ResponseTimeMs int64             `json:"responseTime"`
	Database       map[string]string `json:"database"`
	Memory         healthMemory      `json:"memory"`
	Goroutines     int               `json:"goroutines"`
	UptimeSeconds  int64             `json:"uptime"`
}

// Check answers 200 when every dependency responds and 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status, code := "OK", http.StatusOK
	database := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			database[name] = "disconnected"
			status, code = "DEGRADED", http.StatusServiceUnavailable
			continue
		}
		database[name] = "connected"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	report := healthReport{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		ResponseTimeMs: time.Since(started).Milliseconds(),
		Database:       database,
		Memory: healthMemory{
			AllocBytes:      mem.Alloc,
			TotalAllocBytes: mem.TotalAlloc,
			SysBytes:        mem.Sys,
			HeapObjects:     mem.HeapObjects,
			NumGC:           mem.NumGC,
		},
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}

	writeJSON(w, code, report)
}

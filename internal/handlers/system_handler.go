package handlers

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"edupay-backend/internal/events"
	"edupay-backend/pkg/utils"
)

// SystemHandler exposes host resource usage for the admin monitoring
// panel.
type SystemHandler struct {
	Hub       *events.Hub
	startedAt time.Time
}

func NewSystemHandler(hub *events.Hub) *SystemHandler {
	return &SystemHandler{Hub: hub, startedAt: time.Now()}
}

type systemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
	DiskTotalGB   float64 `json:"disk_total_gb"`
	Uptime        string  `json:"uptime"`
	WSClients     int     `json:"ws_clients"`
}

func (h *SystemHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := systemStats{
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		WSClients: h.Hub.ClientCount(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
		stats.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
		stats.DiskUsedGB = float64(du.Used) / 1024 / 1024 / 1024
		stats.DiskTotalGB = float64(du.Total) / 1024 / 1024 / 1024
	}

	utils.JSON(w, http.StatusOK, stats)
}

package services

import (
	"context"
	"os"
	"time"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/store"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type ProbeResult struct {
	Connected   bool    `json:"connected"`
	Error       *string `json:"error"`
	RecordCount int     `json:"recordCount"`
	SampleData  any     `json:"sampleData"`
}

type HostStats struct {
	CapturedAt        time.Time `json:"capturedAt"`
	ProcessRSSBytes   int64     `json:"processRssBytes"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	DiskPath          string    `json:"diskPath"`
	DiskTotalBytes    int64     `json:"diskTotalBytes"`
	DiskUsedBytes     int64     `json:"diskUsedBytes"`
	SystemCpuLoad     float64   `json:"systemCpuLoad"`
}

type ConnectionReport struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Tests     map[string]ProbeResult `json:"tests"`
	Config    map[string]string      `json:"config"`
	Host      HostStats              `json:"host"`
}

// Diagnostics answers "is the backend wired up?" without ever failing
// itself: every problem ends up inside the report.
type Diagnostics struct {
	Store    store.Store
	Config   map[string]string
	DiskPath string
}

func (d Diagnostics) Run(ctx context.Context) ConnectionReport {
	tests := map[string]ProbeResult{
		HeroSchema.Table:      probe[models.HeroContent](ctx, d.Store, HeroSchema.Table),
		BentoGridSchema.Table: probe[models.BentoGridImage](ctx, d.Store, BentoGridSchema.Table),
	}
	success := true
	for _, result := range tests {
		success = success && result.Connected
	}
	message := "Database connection successful!"
	if !success {
		message = "Database connection failed"
	}
	return ConnectionReport{
		Success:   success,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Tests:     tests,
		Config:    d.Config,
		Host:      CaptureHostStats(d.DiskPath),
	}
}

func probe[T any](ctx context.Context, st store.Store, table string) ProbeResult {
	if st == nil {
		msg := "store is not configured"
		return ProbeResult{Error: &msg}
	}
	rows := []T{}
	if err := st.Select(ctx, store.Query{Table: table, Limit: 1}, &rows); err != nil {
		msg := err.Error()
		return ProbeResult{Error: &msg}
	}
	result := ProbeResult{Connected: true, RecordCount: len(rows)}
	if len(rows) > 0 {
		result.SampleData = rows[0]
	}
	return result
}

// CaptureHostStats reads memory and disk usage. Readings that fail are left
// at zero.
func CaptureHostStats(diskPath string) HostStats {
	stats := HostStats{CapturedAt: time.Now().UTC(), DiskPath: diskPath}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			stats.ProcessRSSBytes = int64(info.RSS)
		}
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		stats.SystemMemoryTotal = int64(memStat.Total)
		stats.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		stats.DiskPath = "/"
		diskStat, err = disk.Usage("/")
	}
	if err == nil {
		stats.DiskTotalBytes = int64(diskStat.Total)
		stats.DiskUsedBytes = int64(diskStat.Used)
	}
	if load, err := cpu.Percent(0, false); err == nil && len(load) > 0 {
		stats.SystemCpuLoad = load[0] / 100.0
	}
	return stats
}

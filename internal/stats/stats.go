// Package stats collects host metrics for the status endpoint and exports
// job counters for Prometheus scraping.
package stats

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sys/unix"
)

// Job lifecycle metrics, exposed on /metrics.
var (
	JobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codearmor_jobs_started_total",
		Help: "Obfuscation jobs accepted from session channels.",
	})
	JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codearmor_jobs_completed_total",
		Help: "Obfuscation jobs that produced an artifact.",
	})
	JobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codearmor_jobs_failed_total",
		Help: "Obfuscation jobs that ended in a terminal error.",
	})
	JobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codearmor_jobs_in_flight",
		Help: "Obfuscation jobs currently running.",
	})
)

// DiskUsage describes the filesystem holding the output directory.
type DiskUsage struct {
	TotalBytes  uint64  `json:"totalBytes"`
	FreeBytes   uint64  `json:"freeBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

// Snapshot is the host metrics payload served as JSON. Disk is omitted
// when the probe fails; the probe is best-effort by design.
type Snapshot struct {
	Platform      string     `json:"platform"`
	Arch          string     `json:"arch"`
	UptimeSeconds float64    `json:"uptimeSeconds"`
	Goroutines    int        `json:"goroutines"`
	NumCPU        int        `json:"numCpu"`
	AllocBytes    uint64     `json:"allocBytes"`
	SysBytes      uint64     `json:"sysBytes"`
	Disk          *DiskUsage `json:"disk,omitempty"`
}

// Collector produces host metric snapshots.
type Collector struct {
	started  time.Time
	diskPath string
	statfs   func(path string, buf *unix.Statfs_t) error
}

// NewCollector creates a collector probing disk usage at diskPath.
func NewCollector(diskPath string) *Collector {
	return &Collector{
		started:  time.Now(),
		diskPath: diskPath,
		statfs:   unix.Statfs,
	}
}

// Snapshot gathers current host metrics.
func (c *Collector) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snap := Snapshot{
		Platform:      runtime.GOOS,
		Arch:          runtime.GOARCH,
		UptimeSeconds: time.Since(c.started).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		AllocBytes:    mem.Alloc,
		SysBytes:      mem.Sys,
	}
	snap.Disk = c.probeDisk()
	return snap
}

// probeDisk returns disk usage for the configured path, or nil when the
// probe fails.
func (c *Collector) probeDisk() *DiskUsage {
	var fs unix.Statfs_t
	if err := c.statfs(c.diskPath, &fs); err != nil {
		return nil
	}

	total := fs.Blocks * uint64(fs.Bsize)
	free := fs.Bavail * uint64(fs.Bsize)
	if total == 0 {
		return nil
	}
	return &DiskUsage{
		TotalBytes:  total,
		FreeBytes:   free,
		UsedPercent: 100 * float64(total-free) / float64(total),
	}
}

// NewCollectorForTests creates a collector with an injectable disk probe.
func NewCollectorForTests(diskPath string, statfs func(path string, buf *unix.Statfs_t) error) *Collector {
	return &Collector{
		started:  time.Now(),
		diskPath: diskPath,
		statfs:   statfs,
	}
}

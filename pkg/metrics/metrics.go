package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

var (
	storage  tstorage.Storage
	initOnce sync.Once
	initErr  error

	counterMux sync.Mutex
	counters   = map[string]int64{}
)

// InitMetrics opens the embedded time-series store under the workdir
func InitMetrics(workdir string) error {
	initOnce.Do(func() {
		storage, initErr = tstorage.NewStorage(
			tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
			tstorage.WithTimestampPrecision(tstorage.Seconds),
			tstorage.WithRetention(30*24*time.Hour),
		)
	})
	return initErr
}

// SetGauge records an instantaneous value for the named metric
func SetGauge(name string, value int64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
}

// IncrCounter increments a named counter and records the running total
func IncrCounter(name string, delta int64) {
	counterMux.Lock()
	counters[name] += delta
	v := counters[name]
	counterMux.Unlock()
	SetGauge(name, v)
}

// Select returns data points for a metric in the given time range
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	if storage == nil {
		return nil, nil
	}
	return storage.Select(name, nil, start, end)
}

// Close flushes and closes the metrics store
func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}

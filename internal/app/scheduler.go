package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/inventory"
	"go.uber.org/zap"
)

// StartSchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers()
			}
		}
	}()
}

// runSchedulers executes enabled schedulers
func (a *Application) runSchedulers() {
	var schedulers []domain.SysScheduler
	a.gormDB.Where("status = ?", "enabled").Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		// Only run if now >= next_run_at
		if sched.NextRunAt.IsZero() || now.After(sched.NextRunAt) || now.Equal(sched.NextRunAt) {
			switch sched.TaskType {
			case "low_stock_scan":
				a.runLowStockScanScheduler(&sched)
			case "oprlog_prune":
				a.runOprlogPruneScheduler(&sched)
			// Add more task types here
			}
			// Update next_run_at
			a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Update("next_run_at", now.Add(time.Duration(sched.Interval)*time.Second))
		}
	}
}

// runLowStockScanScheduler scans products below their reorder threshold and
// fans out one alert per notifiable operator over the event bus.
func (a *Application) runLowStockScanScheduler(sched *domain.SysScheduler) {
	if !a.GetSettingsBoolValue("notify", "low_stock_enabled") {
		a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
			"last_run_at":  time.Now(),
			"last_result":  "skipped",
			"last_message": "low stock notifications disabled",
		})
		return
	}

	products, err := a.ledger.LowStock(context.Background())
	if err != nil {
		zap.L().Error("low stock scan failed", zap.Error(err))
		a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
			"last_run_at":  time.Now(),
			"last_result":  "failed",
			"last_message": err.Error(),
		})
		return
	}

	if len(products) == 0 {
		a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
			"last_run_at":  time.Now(),
			"last_result":  "success",
			"last_message": "no products below threshold",
		})
		return
	}

	var admins []domain.SysOpr
	a.gormDB.Where("level in ? and status = ? and email <> '' and email <> 'N/A'",
		[]string{"super", "admin", "manager"}, "enabled").Find(&admins)

	// Parallelize publishes with a semaphore to limit concurrent goroutines
	const defaultMaxWorkers = 25
	maxWorkers64 := a.GetSettingsInt64Value("scheduler", "max_workers")
	maxWorkers := int(maxWorkers64)
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, admin := range admins {
		wg.Add(1)
		sem <- struct{}{}
		go func(email string) {
			defer wg.Done()
			defer func() { <-sem }()
			a.bus.Publish(inventory.TopicLowStock, email, products)
		}(admin.Email)
	}
	wg.Wait()

	zap.L().Info("low stock scan completed",
		zap.Int("products", len(products)),
		zap.Int("recipients", len(admins)))

	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  "success",
		"last_message": fmt.Sprintf("%d products below threshold, %d recipients notified", len(products), len(admins)),
	})
}

// runOprlogPruneScheduler removes operation log entries past the retention window
func (a *Application) runOprlogPruneScheduler(sched *domain.SysScheduler) {
	keepDays := a.GetSettingsInt64Value("orders", "keep_log_days")
	if keepDays <= 0 {
		keepDays = 365
	}
	cutoff := time.Now().AddDate(0, 0, -int(keepDays))

	res := a.gormDB.Where("opt_time < ?", cutoff).Delete(&domain.SysOprLog{})
	if res.Error != nil {
		zap.L().Error("operation log prune failed", zap.Error(res.Error))
		a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
			"last_run_at":  time.Now(),
			"last_result":  "failed",
			"last_message": res.Error.Error(),
		})
		return
	}

	zap.L().Info("operation log prune completed", zap.Int64("removed", res.RowsAffected))

	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  "success",
		"last_message": fmt.Sprintf("%d entries removed", res.RowsAffected),
	})
}

package app

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// initJob starts the cron scheduler with the snapshot backup entry.
func (a *Application) initJob() {
	a.sched = cron.New()
	spec := a.appConfig.Job.BackupSpec
	if spec == "" {
		spec = "@daily"
	}
	if _, err := a.sched.AddFunc(spec, a.runBackupJob); err != nil {
		zap.S().Errorf("backup job schedule error: %v", err)
		return
	}
	a.sched.Start()
}

// runBackupJob writes date-stamped JSON dumps of both collections under
// <workdir>/backup. Failures are logged, never fatal.
func (a *Application) runBackupJob() {
	dir := filepath.Join(a.appConfig.System.Workdir, "backup")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.S().Errorf("backup dir error: %v", err)
		return
	}
	stamp := time.Now().Format("2006-01-02")

	items, err := a.inv.ExportJSON()
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, "grocery_inventory_"+stamp+".json"), items, 0o644)
	}
	if err != nil {
		zap.S().Errorf("inventory backup failed: %v", err)
	}

	billDump, err := json.MarshalIndent(a.billBook.Bills(), "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, "grocery_bills_"+stamp+".json"), billDump, 0o644)
	}
	if err != nil {
		zap.S().Errorf("bills backup failed: %v", err)
	}
	zap.S().Infof("snapshot backup written to %s", dir)
}

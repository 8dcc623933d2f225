package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册并启动定时任务
func InitCron(mgr *Manager) error {
	log.Info("Cron Jobs starting...", "spec", mgr.spec)
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", mgr.spec, err)
	}
	mgr.Start()
	return nil
}

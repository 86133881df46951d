package cron

import (
	"Cipherchat/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine           *cron.Cron
	presenceSpec     string
	presenceStatsJob *job.PresenceStatsJob
}

func NewCronManager(presenceSpec string, presenceStatsJob *job.PresenceStatsJob) *Manager {
	if presenceSpec == "" {
		presenceSpec = "@every 1m"
	}
	return &Manager{
		engine:           cron.New(cron.WithSeconds()),
		presenceSpec:     presenceSpec,
		presenceStatsJob: presenceStatsJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.presenceSpec, s.presenceStatsJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

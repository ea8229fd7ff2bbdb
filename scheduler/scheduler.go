package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New 创建调度器（cron 表达式带秒位）
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// AddJob 注册定时任务
func (s *Scheduler) AddJob(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Info().Str("job", name).Msg("任务开始")
		fn()
		s.log.Info().Str("job", name).Msg("任务结束")
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("任务已注册")
	return nil
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("调度器已启动")
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("调度器已停止")
}

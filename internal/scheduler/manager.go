package scheduler

import (
	"github.com/AndrewHnidets/demo-repositories/internal/cache"
	"github.com/AndrewHnidets/demo-repositories/internal/config"
	"github.com/AndrewHnidets/demo-repositories/internal/logger"
	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// Manager runs the periodic jobs.
type Manager struct {
	scheduler gocron.Scheduler
	projects  *logic.ProjectLogic
	views     *cache.ViewCounter
	config    *config.Config
}

func NewManager(projects *logic.ProjectLogic, views *cache.ViewCounter, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Manager{
		scheduler: s,
		projects:  projects,
		views:     views,
		config:    cfg,
	}, nil
}

// Start registers every job and starts the scheduler.
func Start(projects *logic.ProjectLogic, views *cache.ViewCounter, cfg *config.Config) (*Manager, error) {
	manager, err := NewManager(projects, views, cfg)
	if err != nil {
		return nil, err
	}
	manager.RegisterJobs()
	manager.scheduler.Start()
	logger.Info("Scheduler started")
	return manager, nil
}

// RegisterJobs registers all periodic jobs.
func (m *Manager) RegisterJobs() {
	m.registerViewsFlushJob()
}

func (m *Manager) registerViewsFlushJob() {
	job := NewViewsFlushJob(m.projects, m.views)
	_, err := m.scheduler.NewJob(
		job.GetSchedule(m.config),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop shuts the scheduler down; running jobs finish first.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Scheduler stopped")
}

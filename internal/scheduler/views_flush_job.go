package scheduler

import (
	"context"
	"time"

	"github.com/AndrewHnidets/demo-repositories/internal/cache"
	"github.com/AndrewHnidets/demo-repositories/internal/config"
	"github.com/AndrewHnidets/demo-repositories/internal/logger"
	"github.com/AndrewHnidets/demo-repositories/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// ViewsFlushJob drains the redis view counters into the projects table.
type ViewsFlushJob struct {
	projects *logic.ProjectLogic
	views    *cache.ViewCounter
}

func NewViewsFlushJob(projects *logic.ProjectLogic, views *cache.ViewCounter) *ViewsFlushJob {
	return &ViewsFlushJob{projects: projects, views: views}
}

func (j *ViewsFlushJob) GetName() string {
	return "project_views_flush"
}

func (j *ViewsFlushJob) GetSchedule(cfg *config.Config) gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(cfg.Scheduler.ViewsFlushInterval) * time.Second)
}

func (j *ViewsFlushJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := j.views.Drain(ctx)
	if err != nil {
		logger.Error("Failed to drain view counters: %v", err)
		// Whatever was drained before the failure is still applied below.
	}
	if len(counts) == 0 {
		return
	}

	if err := j.projects.AddViews(counts); err != nil {
		logger.Error("Failed to flush view counters: %v", err)
		return
	}
	logger.Info("Flushed view counters for %d projects", len(counts))
}

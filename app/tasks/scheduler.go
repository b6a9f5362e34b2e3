package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/cfg"
	"github.com/novikoff/brandpulse/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// taskTimeout bounds a single task execution and doubles as the window
// for considering a 'running' run in flight.
const taskTimeout = 10 * time.Minute

type Scheduler struct {
	configCache *brand.ConfigCache
	runner      *Runner
	runRepo     database.RunRepository
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(configCache *brand.ConfigCache, runner *Runner, runRepo database.RunRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache: configCache,
		runner:      runner,
		runRepo:     runRepo,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	brandConfigs := s.configCache.GetConfigs()
	if len(brandConfigs) == 0 {
		slog.Debug("No brand configurations found")
		return
	}

	for _, brandConfig := range brandConfigs {
		syncTask := NewSyncBrandConfigTask(brandConfig.Name, s.configCache)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncBrandConfigTask", "brand", brandConfig.Name, "error", err)
		}
	}

	s.enqueueDueTasks()
}

func (s *Scheduler) enqueueDueTasks() {
	brandConfigs := s.configCache.GetEnabledConfigs()
	if len(brandConfigs) == 0 {
		slog.Debug("No enabled brand configurations found")
		return
	}

	now := time.Now().UTC()

	for _, brandConfig := range brandConfigs {
		lastCompleted, err := s.runRepo.GetLastCompletedAt(brandConfig.Name)
		if err != nil {
			slog.Warn("Failed to check last run, skipping", "brand", brandConfig.Name, "error", err)
			continue
		}

		refreshInterval := time.Duration(brandConfig.Settings.RefreshInterval) * time.Second
		if lastCompleted != nil && lastCompleted.Add(refreshInterval).After(now) {
			slog.Debug("Brand not due for refresh yet", "brand", brandConfig.Name, "last_completed", lastCompleted)
			continue
		}

		// A refresh outlasting the scheduler interval must not pile up
		// duplicate tasks behind itself.
		active, err := s.runRepo.HasActiveRun(brandConfig.Name, now.Add(-taskTimeout))
		if err != nil {
			slog.Warn("Failed to check active runs, skipping", "brand", brandConfig.Name, "error", err)
			continue
		}
		if active {
			slog.Debug("Brand refresh already in flight", "brand", brandConfig.Name)
			continue
		}

		refreshTask := NewRefreshBrandTask(brandConfig.Name, brandConfig, s.runner)
		if err := s.EnqueueTask(refreshTask); err != nil {
			slog.Warn("Failed to enqueue RefreshBrandTask", "brand", brandConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "brand", task.GetBrandName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}

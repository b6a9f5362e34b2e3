package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. Used by the main application to manage the worker pool and
// by the API to enqueue on-demand work.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

package background

import (
	"context"
	"log"
	"sync"
	"time"

	"invoicegen/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages recurring background jobs.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	invoiceSvc services.InvoiceServiceInterface
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a scheduler with all recurring jobs registered.
func NewJobScheduler(invoiceSvc services.InvoiceServiceInterface) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		invoiceSvc: invoiceSvc,
		jobs:       make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Overdue invoice sweep - every 12 hours
	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(12*time.Hour),
		gocron.NewTask(js.sweepOverdueInvoices, context.Background()),
		gocron.WithName("overdue-invoice-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue sweep job: %v", err)
	} else {
		js.jobs["overdue-sweep"] = overdueJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepOverdueInvoices marks generated invoices past their due date as overdue.
func (js *JobScheduler) sweepOverdueInvoices(ctx context.Context) error {
	log.Printf("Starting overdue invoice sweep")

	count, err := js.invoiceSvc.MarkOverdueInvoices(ctx)
	if err != nil {
		log.Printf("Overdue invoice sweep failed: %v", err)
		return err
	}

	log.Printf("Overdue invoice sweep completed, %d invoices marked", count)
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}

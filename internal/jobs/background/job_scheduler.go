package background

import (
	"context"
	"log"
	"sync"
	"time"

	"pharmastock/internal/models"
	"pharmastock/internal/repositories"
	"pharmastock/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const (
	expiryScanWindow = 30 * 24 * time.Hour
	expiryScanLimit  = 50
	archiveRetention = 90 * 24 * time.Hour
)

// JobScheduler runs periodic inventory maintenance jobs
type JobScheduler struct {
	scheduler     gocron.Scheduler
	itemService   services.ProductItemService
	itemRepo      repositories.ProductItemRepository
	reportService services.ReportService
	jobs          map[string]gocron.Job
	mu            sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(itemService services.ProductItemService, itemRepo repositories.ProductItemRepository, reportService services.ReportService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		itemService:   itemService,
		itemRepo:      itemRepo,
		reportService: reportService,
		jobs:          make(map[string]gocron.Job),
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
	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.scanExpiringStock, context.Background()),
		gocron.WithName("expiring-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create expiry scan job: %v", err)
	} else {
		js.setJob("expiry-scan", expiryJob)
	}

	warmupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.warmListCache, context.Background()),
		gocron.WithName("list-cache-warmup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create cache warmup job: %v", err)
	} else {
		js.setJob("cache-warmup", warmupJob)
	}

	pruneJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.pruneReportArchives, context.Background()),
		gocron.WithName("report-archive-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create archive prune job: %v", err)
	} else {
		js.setJob("archive-prune", pruneJob)
	}
}

func (js *JobScheduler) setJob(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs[name] = job
}

// scanExpiringStock logs batches expiring inside the scan window so the
// dashboard alert feed can pick them up.
func (js *JobScheduler) scanExpiringStock(ctx context.Context) {
	cutoff := time.Now().Add(expiryScanWindow)
	items, err := js.itemRepo.ListExpiringBefore(ctx, cutoff, expiryScanLimit)
	if err != nil {
		log.Printf("Expiry scan failed: %v", err)
		return
	}
	for _, item := range items {
		log.Printf("ALERT: batch %s of %s expires on %s (stock %d)",
			item.ID.String(), item.ProductName, item.ExpiryDate.Format("2006-01-02"), item.Stock)
	}
}

// pruneReportArchives drops archived exports past the retention period.
func (js *JobScheduler) pruneReportArchives(ctx context.Context) {
	if js.reportService == nil {
		return
	}
	if err := js.reportService.PruneArchives(ctx, archiveRetention); err != nil {
		log.Printf("Report archive prune failed: %v", err)
	}
}

// warmListCache keeps the default first list page hot.
func (js *JobScheduler) warmListCache(ctx context.Context) {
	filter := &models.ItemListFilter{
		SortBy:    models.SortByName,
		SortOrder: models.SortAsc,
		Page:      1,
		Limit:     10,
	}
	if _, _, err := js.itemService.List(ctx, filter); err != nil {
		log.Printf("List cache warmup failed: %v", err)
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"pharmastock/internal/listview"
	"pharmastock/internal/models"
)

const (
	reportBucket = "inventory-reports"

	// archiveURLTTL bounds how long a presigned archive link stays usable.
	archiveURLTTL = 24 * time.Hour

	// archivePruneWindow is how far past the retention cutoff the pruner
	// probes for dated archive objects.
	archivePruneWindow = 60
)

// ErrEmptyReport is returned when no rows survive report assembly.
var ErrEmptyReport = errors.New("no rows to export")

// InventoryExport is a rendered report: the file content, its dated
// filename, and a presigned link to the archived copy when one was stored.
type InventoryExport struct {
	Data       []byte
	Filename   string
	ArchiveURL string
}

// ReportService renders the inventory export and manages its archive in
// object storage.
type ReportService interface {
	InventoryCSV(ctx context.Context, filter *models.ItemListFilter) (*InventoryExport, error)
	PruneArchives(ctx context.Context, keepFor time.Duration) error
}

type reportService struct {
	itemService ProductItemService
	minio       MinioService
}

func NewReportService(itemService ProductItemService, minioService MinioService) ReportService {
	return &reportService{itemService: itemService, minio: minioService}
}

// InventoryCSV serializes the full filtered dataset, not a preview window.
func (s *reportService) InventoryCSV(ctx context.Context, filter *models.ItemListFilter) (*InventoryExport, error) {
	all, err := s.itemService.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]models.ProductItem, 0, len(all))
	for _, item := range all {
		items = append(items, *item)
	}

	report := listview.BuildReport(listview.ItemReportColumns(), listview.ItemReportRows(items))
	if report.Empty() {
		return nil, ErrEmptyReport
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		return nil, err
	}
	export := &InventoryExport{
		Data:     buf.Bytes(),
		Filename: listview.ExportFilename(time.Now()),
	}

	// Archiving is best-effort; the download must not fail on storage issues.
	if s.minio != nil {
		if err := s.minio.EnsureBucketExists(ctx, reportBucket); err != nil {
			log.Printf("Failed to ensure report bucket: %v", err)
		} else if err := s.minio.UploadReport(ctx, reportBucket, export.Filename, export.Data); err != nil {
			log.Printf("Failed to archive report %s: %v", export.Filename, err)
		} else if url, err := s.minio.GetPresignedURL(reportBucket, export.Filename, archiveURLTTL); err != nil {
			log.Printf("Failed to presign archive %s: %v", export.Filename, err)
		} else {
			export.ArchiveURL = url
		}
	}

	return export, nil
}

// PruneArchives deletes archived reports older than the retention period.
// Archive names are dated, so the pruner derives the object names for a
// window of days past the cutoff instead of listing the bucket.
func (s *reportService) PruneArchives(ctx context.Context, keepFor time.Duration) error {
	if s.minio == nil {
		return nil
	}

	cutoff := time.Now().Add(-keepFor)
	var pruneErr error
	for day := 0; day < archivePruneWindow; day++ {
		name := listview.ExportFilename(cutoff.AddDate(0, 0, -day))
		if err := s.minio.DeleteReport(ctx, reportBucket, name); err != nil {
			log.Printf("Failed to prune archive %s: %v", name, err)
			if pruneErr == nil {
				pruneErr = err
			}
		}
	}
	return pruneErr
}

package scan

import (
	"context"
	"fmt"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	"github.com/google/uuid"
)

// Scanner walks the video inventory and generates metadata for each video.
type Scanner struct {
	gen *videometa.Generator
}

// New creates a new Scanner instance.
func New(gen *videometa.Generator) *Scanner {
	return &Scanner{gen: gen}
}

// ScanOptions configures the scan operation.
type ScanOptions struct {
	// Force regenerates videos that already have a metadata document
	Force bool

	// Category restricts the scan to one tier (empty means all)
	Category videometa.Category

	// Processor defines the processing logic (default: publish the synthesized record)
	Processor VideoProcessor

	// DryRun if true, doesn't process videos, just reports what would be processed
	DryRun bool

	// OnSkip is called for each video that already has metadata (optional)
	OnSkip func(entry *videometa.VideoEntry)

	// OnProgress is called after each video is handled (optional)
	OnProgress func(handled, total int64)
}

// ScanResult contains statistics about the scan operation.
type ScanResult struct {
	// RunID identifies this scan in logs
	RunID uuid.UUID

	// TotalFound is the number of videos in the inventory matching the options
	TotalFound int64

	// TotalProcessed is the number of videos successfully processed
	TotalProcessed int64

	// TotalSkipped is the number of videos that already had metadata
	TotalSkipped int64

	// TotalFailed is the number of videos that failed processing
	TotalFailed int64

	// FailedIDs contains the storage paths of videos that failed processing
	FailedIDs []string
}

// Scan lists the videos and processes every one that has no metadata yet
// (or every one, with Force). A failing video is recorded and the scan
// continues. A failed listing is logged and scanned as an empty container;
// rerunning the scan is the recovery path.
func (s *Scanner) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	result := &ScanResult{RunID: uuid.New()}
	logger := s.gen.Logger().With("run_id", result.RunID.String())

	if opts.Category != "" {
		c, ok := videometa.ParseCategory(string(opts.Category))
		if !ok {
			return result, fmt.Errorf("unknown category filter: %s", opts.Category)
		}
		opts.Category = c
	}
	if opts.Processor == nil {
		opts.Processor = NewPublishProcessor(s.gen)
	}

	existing := map[string]struct{}{}
	if !opts.Force {
		names, err := s.gen.ExistingMetadata(ctx)
		if err != nil {
			logger.Warn("failed to list existing metadata, treating as none", "err", err)
		} else {
			existing = names
		}
	}

	videos, err := s.gen.ListVideos(ctx)
	if err != nil {
		logger.Warn("no videos to scan", "err", err)
		return result, nil
	}

	if opts.Category != "" {
		filtered := videos[:0]
		for _, v := range videos {
			if v.Category == opts.Category {
				filtered = append(filtered, v)
			}
		}
		videos = filtered
	}
	result.TotalFound = int64(len(videos))

	for i, v := range videos {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch {
		case isDone(existing, v.CleanName):
			logger.Info("metadata already exists, skipping", "video", v.FileName)
			result.TotalSkipped++
			if opts.OnSkip != nil {
				opts.OnSkip(v)
			}

		case opts.DryRun:
			logger.Info("[DRY-RUN] would generate metadata", "video", v.Path, "category", v.Category, "key", v.MetadataKey())
			result.TotalProcessed++

		default:
			if err := opts.Processor.Process(ctx, v); err != nil {
				logger.Error("failed to process video", "video", v.Path, "err", err)
				result.TotalFailed++
				result.FailedIDs = append(result.FailedIDs, v.Path)
			} else {
				result.TotalProcessed++
			}
		}

		if opts.OnProgress != nil {
			opts.OnProgress(int64(i+1), result.TotalFound)
		}
	}

	logger.Info("scan finished",
		"found", result.TotalFound,
		"processed", result.TotalProcessed,
		"skipped", result.TotalSkipped,
		"failed", result.TotalFailed)
	return result, nil
}

// ForEach is a convenience method that processes every video with a callback
// function, regardless of existing metadata.
//
// Example:
//
//	scanner.ForEach(ctx, func(ctx context.Context, v *videometa.VideoEntry) error {
//	    fmt.Printf("%s -> %s\n", v.Path, v.Category)
//	    return nil
//	})
func (s *Scanner) ForEach(ctx context.Context, fn func(context.Context, *videometa.VideoEntry) error) (*ScanResult, error) {
	return s.Scan(ctx, ScanOptions{
		Force:     true,
		Processor: &funcProcessor{fn: fn},
	})
}

func isDone(existing map[string]struct{}, cleanName string) bool {
	_, ok := existing[cleanName]
	return ok
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	"github.com/ganachan/agentic-retrieval/pkg/videometa/config"
	"github.com/ganachan/agentic-retrieval/pkg/videometa/scan"
	"github.com/spf13/cobra"
)

// ErrNoStorage is returned when neither STORAGE_URL nor BLOB_CONNECTION_STRING is set.
var ErrNoStorage = errors.New("BLOB_CONNECTION_STRING or STORAGE_URL not found in environment")

type options struct {
	envFile   string
	container string
	video     string
	show      string
	overrides string
	category  string
	force     bool
	listOnly  bool
	dryRun    bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "videometa",
		Short:         "Generate metadata for existing videos in blob storage",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(versionString() + "\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file path")
	flags.StringVar(&opts.container, "container", config.DefaultContainer, "Blob container name")
	flags.BoolVar(&opts.force, "force", false, "Overwrite existing metadata files")
	flags.StringVar(&opts.video, "video", "", "Generate metadata for specific video only (path or file name)")
	flags.BoolVar(&opts.listOnly, "list-only", false, "Only list videos, don't generate metadata")
	flags.StringVar(&opts.overrides, "overrides", "", "JSON file of metadata fields to merge into the --video record")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Report what would be generated without writing")
	flags.StringVar(&opts.show, "show", "", "Print the stored metadata of a video (path or file name)")
	flags.StringVar(&opts.category, "category", "", "Only process videos of this category (beginner, intermediate, advanced)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.MarkFlagsMutuallyExclusive("list-only", "video", "show")
	cmd.MarkFlagsMutuallyExclusive("show", "force")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cfgOpts := []config.Option{
		config.WithEnvFile(opts.envFile),
		config.WithEnv(),
	}
	if cmd.Flags().Changed("container") {
		cfgOpts = append(cfgOpts, config.WithContainer(opts.container))
	}

	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		return err
	}
	if cfg.StorageURL == "" && cfg.ConnectionString == "" {
		return ErrNoStorage
	}

	var overrides videometa.Overrides
	if opts.overrides != "" {
		if opts.video == "" {
			return errors.New("--overrides requires --video")
		}
		if overrides, err = loadOverrides(opts.overrides); err != nil {
			return err
		}
	}

	gen, err := cfg.BuildGenerator(logger)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	ctx := cmd.Context()

	switch {
	case opts.listOnly:
		listVideos(ctx, gen, p, cfg.Location())
	case opts.show != "":
		showRecord(ctx, gen, p, opts.show)
	case opts.video != "":
		generateOne(ctx, gen, p, opts.video, overrides, opts.dryRun)
	default:
		return generateAll(ctx, gen, p, opts)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadOverrides(path string) (videometa.Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overrides file: %w", err)
	}
	defer f.Close()
	return videometa.LoadOverrides(f)
}

func listVideos(ctx context.Context, gen *videometa.Generator, p *printer, container string) {
	p.progress("Scanning for existing videos...")
	videos, err := gen.ListVideos(ctx)
	if err != nil {
		p.failure("Error listing videos: %v", err)
		return
	}
	p.videoList(container, videos)
}

func showRecord(ctx context.Context, gen *videometa.Generator, p *printer, id string) {
	entry, err := gen.FindVideo(ctx, id)
	if err != nil {
		p.failure("Video not found: %s", id)
		return
	}
	rec, err := gen.LoadRecord(ctx, entry.CleanName)
	if err != nil {
		if errors.Is(err, videometa.ErrObjectNotFound) {
			p.failure("No metadata for %s (expected %s)", entry.FileName, entry.MetadataKey())
			return
		}
		p.failure("Error reading metadata %s: %v", entry.MetadataKey(), err)
		return
	}
	p.record(rec)
}

func generateOne(ctx context.Context, gen *videometa.Generator, p *printer, id string, overrides videometa.Overrides, dryRun bool) {
	entry, err := gen.FindVideo(ctx, id)
	if err != nil {
		if errors.Is(err, videometa.ErrVideoNotFound) {
			p.failure("Video not found: %s", id)
		} else {
			p.failure("Error listing videos: %v", err)
		}
		return
	}

	if dryRun {
		p.info("[DRY-RUN] Would generate %s for %s", entry.MetadataKey(), entry.FileName)
		return
	}

	p.progress("Generating metadata for: %s", entry.FileName)
	if _, err := gen.Generate(ctx, entry, overrides); err != nil {
		p.failure("Error generating metadata for %s: %v", entry.FileName, err)
		return
	}
	p.success("Created metadata: %s", entry.MetadataKey())
}

func generateAll(ctx context.Context, gen *videometa.Generator, p *printer, opts *options) error {
	publish := scan.NewPublishProcessor(gen)

	result, err := scan.New(gen).Scan(ctx, scan.ScanOptions{
		Force:    opts.force,
		DryRun:   opts.dryRun,
		Category: videometa.Category(opts.category),
		Processor: processorFunc(func(ctx context.Context, v *videometa.VideoEntry) error {
			p.progress("Generating metadata for: %s", v.FileName)
			if err := publish.Process(ctx, v); err != nil {
				p.failure("Error generating metadata for %s: %v", v.FileName, err)
				return err
			}
			p.success("Created metadata: %s", v.MetadataKey())
			return nil
		}),
		OnSkip: func(v *videometa.VideoEntry) {
			p.skip("Skipping %s (metadata exists)", v.FileName)
		},
		OnProgress: func(handled, total int64) {
			gen.Logger().Debug("progress", "handled", handled, "total", total)
		},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.failure("Interrupted")
			p.summary(result, opts.dryRun)
			return nil
		}
		return err
	}

	if result.TotalFound == 0 {
		p.failure("No videos found in blob storage")
		return nil
	}
	p.summary(result, opts.dryRun)
	return nil
}

// processorFunc adapts a function to scan.VideoProcessor.
type processorFunc func(context.Context, *videometa.VideoEntry) error

func (f processorFunc) Process(ctx context.Context, v *videometa.VideoEntry) error {
	return f(ctx, v)
}

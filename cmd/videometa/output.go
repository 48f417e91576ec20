package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	"github.com/ganachan/agentic-retrieval/pkg/videometa/scan"
)

// printer writes the human-readable progress and summary lines.
type printer struct {
	w io.Writer

	progressColor *color.Color
	successColor  *color.Color
	skipColor     *color.Color
	failColor     *color.Color
	infoColor     *color.Color
	headingColor  *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:             w,
		progressColor: color.New(color.FgCyan),
		successColor:  color.New(color.FgHiGreen),
		skipColor:     color.New(color.FgYellow, color.Italic),
		failColor:     color.New(color.FgHiRed, color.Bold),
		infoColor:     color.New(color.FgWhite),
		headingColor:  color.New(color.FgWhite, color.Bold),
	}
}

func (p *printer) line(c *color.Color, format string, args ...any) {
	c.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) progress(format string, args ...any) { p.line(p.progressColor, format, args...) }
func (p *printer) success(format string, args ...any)  { p.line(p.successColor, format, args...) }
func (p *printer) skip(format string, args ...any)     { p.line(p.skipColor, format, args...) }
func (p *printer) failure(format string, args ...any)  { p.line(p.failColor, format, args...) }
func (p *printer) info(format string, args ...any)     { p.line(p.infoColor, format, args...) }

func (p *printer) videoList(container string, videos []*videometa.VideoEntry) {
	p.line(p.headingColor, "\nVideos in %s:", container)
	if len(videos) == 0 {
		p.info("   (none)")
		return
	}
	for _, v := range videos {
		p.info("   %s (%s) - %s bytes (%s)",
			v.FileName, v.Category, humanize.Comma(v.SizeBytes), humanize.IBytes(uint64(v.SizeBytes)))
	}
	p.info("\n%s videos", humanize.Comma(int64(len(videos))))
}

func (p *printer) record(rec *videometa.Record) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		p.failure("Error encoding metadata: %v", err)
		return
	}
	fmt.Fprintln(p.w, string(data))
}

func (p *printer) summary(result *scan.ScanResult, dryRun bool) {
	if dryRun {
		p.line(p.headingColor, "\nDry run complete, nothing was written.")
		p.info("   Would generate: %s", humanize.Comma(result.TotalProcessed))
	} else {
		p.line(p.headingColor, "\nMetadata generation complete!")
		p.info("   Generated: %s", humanize.Comma(result.TotalProcessed))
	}
	p.info("   Skipped: %s", humanize.Comma(result.TotalSkipped))
	if result.TotalFailed > 0 {
		p.failure("   Failed: %s", humanize.Comma(result.TotalFailed))
		for _, id := range result.FailedIDs {
			p.failure("     - %s", id)
		}
	}
	p.info("   Total videos: %s", humanize.Comma(result.TotalFound))
	p.info("   Run: %s", result.RunID)
}

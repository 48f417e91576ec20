package scan

import (
	"context"

	"github.com/ganachan/agentic-retrieval/pkg/videometa"
)

// VideoProcessor processes individual videos found during a scan.
// Return an error to mark the video as failed; the scan continues with the next one.
type VideoProcessor interface {
	Process(ctx context.Context, entry *videometa.VideoEntry) error
}

// PublishProcessor synthesizes each video's record and writes it under metadata/.
type PublishProcessor struct {
	gen *videometa.Generator
}

// NewPublishProcessor creates a processor that publishes through gen.
func NewPublishProcessor(gen *videometa.Generator) *PublishProcessor {
	return &PublishProcessor{gen: gen}
}

func (p *PublishProcessor) Process(ctx context.Context, entry *videometa.VideoEntry) error {
	_, err := p.gen.Generate(ctx, entry, nil)
	return err
}

// funcProcessor adapts a function to the VideoProcessor interface.
type funcProcessor struct {
	fn func(context.Context, *videometa.VideoEntry) error
}

func (p *funcProcessor) Process(ctx context.Context, entry *videometa.VideoEntry) error {
	return p.fn(ctx, entry)
}

package extractor

import (
	"context"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

// Extractor turns a document on disk into an ordered list of fragments.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]fragment.Fragment, error)
	Supports(path string) bool
}

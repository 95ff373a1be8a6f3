package normalizer

import (
	"github.com/baditaflorin/go_ichiran_gloss/internal/core/gloss"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// DefaultNormalizer implements the gloss normalization of ichiran output.
type DefaultNormalizer struct{}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.Normalizer {
	return &DefaultNormalizer{}
}

// Normalize collapses raw analyzer output into one gloss line per segment.
func (n *DefaultNormalizer) Normalize(raw string) string {
	return gloss.Normalize(raw)
}

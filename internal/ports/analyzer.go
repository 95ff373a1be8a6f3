package ports

import "context"

// Analyzer runs the external morphological analyzer for one piece of text
// and returns its verbatim standard output.
type Analyzer interface {
	Lookup(ctx context.Context, text string) (string, error)
}

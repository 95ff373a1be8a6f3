package ports

// Normalizer defines the interface for turning raw analyzer output into a gloss.
type Normalizer interface {
	Normalize(raw string) string
}

package extract

import (
	"context"
	"fmt"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/domain"
)

// Request carries all parameters required to extract candidates from one source.
type Request struct {
	SourceURL string
	// Selector optionally restricts extraction to a DOM subregion.
	Selector string
}

// Extractor captures a single strategy implementation (Firecrawl, local HTML, etc.).
type Extractor interface {
	Name() string
	Extract(ctx context.Context, req Request) ([]domain.Candidate, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{}}
}

// Register adds or replaces an extraction strategy.
func (r *Registry) Register(e Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]Extractor{}
	}
	r.extractors[e.Name()] = e
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Extractor, error) {
	if e, ok := r.extractors[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("extractor %s is not registered", name)
}

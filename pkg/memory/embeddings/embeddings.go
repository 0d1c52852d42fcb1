// Package embeddings reserves the slot for a future vector retrieval
// backend. The current system is intentionally lexical-only; this generator
// exists so status surfaces can report the configured provider and so the
// metadata field has a single owner, but it never produces vectors.
package embeddings

import "github.com/offcontext/offcontext/pkg/config"

// Generator is the placeholder embeddings provider.
type Generator struct {
	cfg config.EmbeddingsConfig
}

// NewGenerator wraps the configured embeddings settings.
func NewGenerator(cfg config.EmbeddingsConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Available reports whether a real embeddings backend is reachable. It is
// always false in this design.
func (g *Generator) Available() bool { return false }

// Provider names the effective provider, falling back to the simple lexical
// matcher when no backend is available.
func (g *Generator) Provider() string {
	if g.Available() {
		return g.cfg.Provider
	}
	return "simple (fallback)"
}

// Dimension returns the configured vector dimension.
func (g *Generator) Dimension() int { return g.cfg.Dimension }

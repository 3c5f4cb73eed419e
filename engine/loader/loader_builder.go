package loader

import "github.com/oxy-go/animgraph/engine/model"

// LoaderBuilderOption is a functional option for configuring a Loader during
// construction.
type LoaderBuilderOption func(*loader)

// WithPreloadedCache seeds the loader's cache, useful for tests that want to
// inject a model without touching disk.
func WithPreloadedCache(cache map[string]*model.SkinnedModel) LoaderBuilderOption {
	return func(l *loader) {
		for path, m := range cache {
			l.cache[path] = m
		}
	}
}

// Package loader imports skeletons and animation clips from glTF/GLB assets
// into the engine's renderer-independent model types. Mesh geometry and
// materials are out of scope (see DESIGN.md) — only the rig the animation
// graph drives is extracted.
package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/oxy-go/animgraph/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	cache map[string]*model.SkinnedModel
}

// Loader imports SkinnedModels from glTF/GLB files on disk.
type Loader interface {
	// Load imports the model at path, extracting its first skin's
	// skeleton and any animations that target it. Results are cached by
	// path; a second Load of the same path returns the cached value.
	Load(path string) (*model.SkinnedModel, error)

	// Get returns a previously loaded model by path, or nil if it hasn't
	// been loaded.
	Get(path string) *model.SkinnedModel

	// Models returns every model loaded so far, keyed by path.
	Models() map[string]*model.SkinnedModel
}

var _ Loader = &loader{}

// NewLoader creates a Loader with an empty cache.
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{cache: make(map[string]*model.SkinnedModel)}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Get(path string) *model.SkinnedModel {
	return l.cache[path]
}

func (l *loader) Models() map[string]*model.SkinnedModel {
	return l.cache
}

func (l *loader) Load(path string) (*model.SkinnedModel, error) {
	if cached, ok := l.cache[path]; ok {
		return cached, nil
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", path, err)
	}

	imported, err := importSkinnedModel(doc)
	if err != nil {
		return nil, fmt.Errorf("loader: import %q: %w", path, err)
	}

	l.cache[path] = imported
	return imported, nil
}

// importSkinnedModel extracts the first skin found in doc and every
// animation clip that targets it.
func importSkinnedModel(doc *gltf.Document) (*model.SkinnedModel, error) {
	if len(doc.Skins) == 0 {
		return &model.SkinnedModel{}, nil
	}

	skelExtractor := newGLTFSkeletonExtractor(doc)
	skeleton, boneMapping, err := skelExtractor.ExtractSkeleton(0)
	if err != nil {
		return nil, fmt.Errorf("extract skeleton: %w", err)
	}

	animExtractor := newGLTFAnimationExtractor(doc)
	clips, err := animExtractor.ExtractAnimationsForSkeleton(boneMapping)
	if err != nil {
		return nil, fmt.Errorf("extract animations: %w", err)
	}

	return &model.SkinnedModel{
		Skeleton: skeleton,
		Clips:    clips,
	}, nil
}

// Package fastembed embeds text locally with ONNX sentence-transformer models.
// The real provider needs cgo (onnxruntime); non-cgo builds get a stub that
// fails at construction.
package fastembed

import (
	"errors"
	"fmt"
)

// DefaultModel is the sentence-transformers model the catalog was designed around.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// ErrFastEmbedNotAvailable is returned when the binary was built without cgo.
var ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without cgo, use the openai provider)")

// Config holds the local embedding settings.
type Config struct {
	Model     string // defaults to DefaultModel
	CacheDir  string // model download cache, defaults to ./local_cache
	MaxLength int    // max tokens per input, defaults to 512
	BatchSize int    // texts per ONNX run, defaults to 256
}

// modelDimensions lists supported model names and their vector sizes.
var modelDimensions = map[string]int{
	"sentence-transformers/all-MiniLM-L6-v2": 384,
	"fast-all-MiniLM-L6-v2":                  384,
	"BAAI/bge-small-en-v1.5":                 384,
	"fast-bge-small-en-v1.5":                 384,
	"BAAI/bge-base-en-v1.5":                  768,
	"fast-bge-base-en-v1.5":                  768,
}

// ModelDimensions returns the vector size for a supported model name.
func ModelDimensions(model string) (int, error) {
	if model == "" {
		model = DefaultModel
	}
	dim, ok := modelDimensions[model]
	if !ok {
		return 0, fmt.Errorf("fastembed: unsupported model %q", model)
	}
	return dim, nil
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.CacheDir == "" {
		c.CacheDir = "local_cache"
	}
	if c.MaxLength <= 0 {
		c.MaxLength = 512
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 256
	}
}

package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"localbrain/internal/domain"
)

// HashEmbedder is a deterministic, offline embedder based on feature
// hashing: each token is hashed into one of a fixed number of buckets
// and the resulting count vector is L2-normalized. It needs no network
// and no preparation phase, which makes it the default for local setups
// and tests. Semantic quality is far below a real model; it only
// captures lexical overlap.
type HashEmbedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
}

const defaultHashDimension = 256

// NewHashEmbedder creates a feature-hashing embedder with the given
// vector dimension.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = defaultHashDimension
	}
	return &HashEmbedder{
		dimension:    dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
	}
}

// Embed hashes the tokens of text into a fixed-dimension vector.
// Identical input always produces an identical vector.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	tokens := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	for _, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dimension)]++
	}
	// L2 normalize so dot products behave like cosine similarity
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * inv)
		}
	}
	return vec, nil
}

// Dimension returns the configured vector dimensionality.
func (e *HashEmbedder) Dimension() int { return e.dimension }

var _ domain.Embedder = (*HashEmbedder)(nil)

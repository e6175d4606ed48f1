package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashEmbedder is a deterministic, offline embedder, selected with the
// "hash" embedding provider. Each lowercased word is
// hashed into one of Dimensions buckets and the result is normalised, so
// texts sharing words score higher under cosine similarity.
type HashEmbedder struct {
	Dimensions int
}

func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{Dimensions: dimensions}
}

func (e *HashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (e *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.Dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%uint32(e.Dimensions)]++
	}
	// keep empty text off the zero vector
	vec[0] += 0.01

	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= norm
	}
	return vec, nil
}

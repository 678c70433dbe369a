package service

import (
	"math"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
)

// GenerateEmbedding returns a small deterministic embedding of text: letter count,
// vowel share and word count, scaled to unit length. It stands in for a model
// embedding and only needs to be stable between writes and searches.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var letters, vowels float64
	for _, r := range text {
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
			letters++
		case r >= 'a' && r <= 'z':
			letters++
		}
	}
	words := float64(len(strings.Fields(text)))

	v := []float64{letters, vowels, words}
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	for i, x := range v {
		if norm > 0 {
			out[i] = float32(x / norm)
		}
	}
	return pgvector.NewVector(out)
}

// RecipeEmbedding embeds the searchable text of a recipe.
func RecipeEmbedding(r *models.Recipe) pgvector.Vector {
	return GenerateEmbedding(r.Title + " " + r.Description + " " + strings.Join(r.Ingredients, " "))
}

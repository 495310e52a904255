package model

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	// Number of chunks to retrieve; clamped to the collection size
	TopK int `json:"top_k"`
	// Minimum cosine similarity; 0 disables the threshold
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                3,
		SimilarityThreshold: 0,
	}
}

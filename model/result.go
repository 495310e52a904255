package model

// RetrievalResult represents a chunk retrieved by a query
type RetrievalResult struct {
	Chunk           *Chunk  `json:"chunk"`
	Score           float64 `json:"score"`            // Cosine similarity score
	RetrievalMethod string  `json:"retrieval_method"` // How it was retrieved (vector)
}

// QueryResult is the full response to one question: the original and the
// restructured question, the generated answer and the retrieved context in
// the store's ranking order.
type QueryResult struct {
	Question             string   `json:"question"`
	RestructuredQuestion string   `json:"restructured_question"`
	Answer               string   `json:"answer"`
	Context              []string `json:"context"`
}

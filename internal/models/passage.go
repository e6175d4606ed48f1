package models

// Passage is a span of text extracted from one PDF page, the unit of retrieval.
type Passage struct {
	ID      string
	Content string
	Source  string
	Page    int
	ChunkID int
}

// Citation is a passage returned by a similarity search.
type Citation struct {
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}

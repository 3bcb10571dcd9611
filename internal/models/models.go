package models

// Upload is one uploaded document: the multipart field's filename plus its
// raw bytes. The extension of Name selects the extractor.
type Upload struct {
	Name string
	Data []byte
}

// QueryResponse is the full bundle returned by the generation pipeline for
// one user question. Field names match the wire format of /query/.
type QueryResponse struct {
	Answer         string   `json:"answer"`
	BulletPoints   []string `json:"bullet_points"`
	TestQuestion   string   `json:"test_question"`
	TestAnswer     string   `json:"test_answer"`
	TestQuestionID string   `json:"test_question_id"`
}

// EvaluationResult is the verdict of the evaluation pipeline. Transient,
// never persisted.
type EvaluationResult struct {
	KnowledgeUnderstood bool `json:"knowledge_understood"`
	KnowledgeConfidence int  `json:"knowledge_confidence"`
}

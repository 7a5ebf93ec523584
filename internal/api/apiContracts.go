package api

// wire contract for the synchronous query endpoints

type QueryRequest struct {
	Documents string   `json:"documents" validate:"required" example:"https://example.com/policy.pdf"`
	Questions []string `json:"questions" validate:"required"`
}

type QueryResponse struct {
	Answers  []string `json:"answers"`
	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	DocumentURL         string    `json:"document_url,omitempty"`
	Filename            string    `json:"filename,omitempty"`
	FileSize            int64     `json:"file_size,omitempty"`
	TotalQuestions      int       `json:"total_questions"`
	ProcessingTimestamp string    `json:"processing_timestamp"`
	ModelInfo           ModelInfo `json:"model_info"`
}

type ModelInfo struct {
	LLM        string `json:"llm"`
	TextLength int    `json:"text_length"`
}

type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service" example:"HackRx Query-Retrieval System"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Error downloading document"`
	Retry   bool   `json:"can_retry" example:"false"`
}

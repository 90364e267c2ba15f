package models

// AnalysisRequest represents a request for image analysis
type AnalysisRequest struct {
	URL  string `json:"url" binding:"required"`
	Seed *int64 `json:"seed,omitempty"`
	K    int    `json:"k,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

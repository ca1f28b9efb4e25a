package dto

// AnalyzeRequest carries a base64-encoded call recording.
type AnalyzeRequest struct {
	Audio string `json:"audio" example:"UklGRiQAAABXQVZFZm10IBAAAAABAAEAQB8AAIA+AAACABAAZGF0YQAAAAA="`
}

// AnalyzeResponse is the transcript and verdict for one recording.
type AnalyzeResponse struct {
	Transcript   string  `json:"transcript" example:"please confirm your otp"`
	IsFraudulent bool    `json:"is_fraudulent" example:"true"`
	Label        int     `json:"label" example:"1"`
	Confidence   float64 `json:"confidence" example:"0.59"`
	FeedbackID   string  `json:"feedback_id,omitempty" example:"3f0c2a8e-5d1b-4c55-9a3e-1f4f0a1b2c3d"`
}

// ClassifyRequest classifies a transcript without speech-to-text.
type ClassifyRequest struct {
	Text string `json:"text" binding:"required" example:"reminder for your appointment"`
}

// ClassifyResponse is the verdict for a transcript.
type ClassifyResponse struct {
	IsFraudulent bool    `json:"is_fraudulent" example:"false"`
	Label        int     `json:"label" example:"0"`
	Confidence   float64 `json:"confidence" example:"0.46"`
}

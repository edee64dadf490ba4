package analyzer

import "fmt"

// Confidence is the analyzer's own estimate of the extraction quality.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Analysis is the structured event extracted from an image.
type Analysis struct {
	EventName     string     `json:"event_name"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	Confidence    Confidence `json:"confidence"`
	ExtractedText string     `json:"extracted_text,omitempty"`
}

// Metadata describes the model run behind an analysis.
type Metadata struct {
	AnalyzedAt string `json:"analyzed_at"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

// PostMetadata describes the social post an URL analysis came from.
type PostMetadata struct {
	Author      string `json:"author"`
	Description string `json:"description"`
}

// Result is a successful analysis.
type Result struct {
	Analysis          Analysis      `json:"analysis"`
	Metadata          Metadata      `json:"metadata"`
	SourceURL         string        `json:"source_url,omitempty"`
	Platform          string        `json:"platform,omitempty"`
	ExtractedImageURL string        `json:"extracted_image_url,omitempty"`
	Post              *PostMetadata `json:"post_metadata,omitempty"`
}

// Health is the status report of the analysis service.
type Health struct {
	Status  string `json:"status"`
	MongoDB string `json:"mongodb"`
	OpenAI  string `json:"openai"`
}

// Ready reports whether every dependency of the service is up.
func (h Health) Ready() bool {
	return h.Status == "healthy" && h.MongoDB == "connected" && h.OpenAI == "configured"
}

// envelope is the wire shape of every analysis response.
type envelope struct {
	Result
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error is the only error type returned by the client. Its message is meant
// for the end user; the underlying cause is kept for errors.Is/As.
type Error struct {
	Status  int // HTTP status, 0 when no response was received
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GoString keeps the cause visible in debug output.
func (e *Error) GoString() string {
	return fmt.Sprintf("&analyzer.Error{Status:%d, Message:%q, Err:%v}", e.Status, e.Message, e.Err)
}

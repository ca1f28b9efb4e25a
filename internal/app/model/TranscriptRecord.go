package model

// TranscriptRecord is one labeled call transcript used for training.
// Label is 1 for a fraudulent call and 0 otherwise.
type TranscriptRecord struct {
	Text  string `json:"transcript"`
	Label int    `json:"is_fraudulent"`
}

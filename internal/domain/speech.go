package domain

// SpeechTask is one text segment scheduled for synthesis. Delivery to the
// client is tagged with the ordinal so original order can be reconstructed
// regardless of completion order.
type SpeechTask struct {
	Order int
	Text  string
	Audio []byte
	Err   error
}

// SpeechEvent is the unit pushed to the client for each resolved segment.
type SpeechEvent struct {
	Order       int    `json:"order"`
	Message     string `json:"message"`
	AudioBase64 string `json:"audioBase64"`
}

package queue

import "encoding/json"

// Message is the payload handed to downstream analysis workers. Content
// carries the raw file bytes so workers never touch the upload request;
// encoding/json base64-encodes it on the wire.
type Message struct {
	JobID          string `json:"jobId"`
	SessionID      string `json:"sessionId"`
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	JobDescription string `json:"jobDescription"`
	Content        []byte `json:"content"`
	EnqueuedAt     string `json:"enqueuedAt"`
	Version        int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

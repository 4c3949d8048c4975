package chat

import "encoding/json"

// SystemSender marks messages generated by the channel itself.
const SystemSender = "System 🤖"

// Message is a single transcript entry as stored and served to polling clients.
type Message struct {
	Content   string          `json:"content"`
	Sender    string          `json:"sender"`
	Timestamp string          `json:"timestamp"`
	Extra     json.RawMessage `json:"extra,omitempty"`
}

// IsSystem reports whether the message was produced by the channel.
func (m Message) IsSystem() bool {
	return m.Sender == SystemSender
}

// SystemMessage builds a channel-authored message paired with the given timestamp.
func SystemMessage(content, timestamp string) Message {
	return Message{Content: content, Sender: SystemSender, Timestamp: timestamp}
}

package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ShapeError reports a request body that is missing a required field.
type ShapeError struct {
	Field   string
	Invalid bool
}

func (e *ShapeError) Error() string {
	if e.Invalid {
		return "Invalid " + e.Field
	}
	return "No " + e.Field
}

// Submission is a validated inbound chat message.
type Submission struct {
	Content   string
	Sender    string
	Timestamp string
	Extra     json.RawMessage
}

// requiredFields are checked in this order; the first absent one is reported.
var requiredFields = []string{"content", "sender", "timestamp"}

// Decode validates a raw request body. An empty body, JSON null or an empty
// object is reported as a missing message.
func Decode(body []byte) (Submission, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Submission{}, &ShapeError{Field: "message"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Submission{}, &ShapeError{Field: "message", Invalid: true}
	}
	if len(fields) == 0 {
		return Submission{}, &ShapeError{Field: "message"}
	}

	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok {
			return Submission{}, &ShapeError{Field: name}
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return Submission{}, &ShapeError{Field: name, Invalid: true}
		}
		values[name] = value
	}

	sub := Submission{
		Content:   values["content"],
		Sender:    values["sender"],
		Timestamp: values["timestamp"],
	}
	if extra, ok := fields["extra"]; ok && !bytes.Equal(bytes.TrimSpace(extra), []byte("null")) {
		sub.Extra = extra
	}
	return sub, nil
}

// String is used in logs; content is left out.
func (s Submission) String() string {
	return fmt.Sprintf("sender=%q timestamp=%q", s.Sender, s.Timestamp)
}

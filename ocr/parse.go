package ocr

import (
	"bytes"
	"encoding/json"

	jsonutil "github.com/richinex/chatshot/internal/json"
	"github.com/richinex/chatshot/model"
)

// ParseResult converts model output into a record. It never fails: text that
// holds no usable JSON object yields empty message lists and RawText = text.
// Fields are decoded one by one, so a malformed field does not discard the
// others.
func ParseResult(text string) model.ConversationRecord {
	record := model.NewConversationRecord()

	fields, err := jsonutil.ExtractJSONFromResponse[map[string]json.RawMessage](text)
	if err != nil {
		record.RawText = text
		return record
	}

	record.UserMessages = messagesField(fields["user_messages"])
	record.AssistantMessages = messagesField(fields["assistant_messages"])
	record.UserActions = actionsText(fields["user_actions"])
	return record
}

// messagesField decodes a message list. A missing or null field is empty,
// a single string is a one-element list, and array elements or other values
// that are not strings are kept as compact JSON.
func messagesField(raw json.RawMessage) []string {
	if isNull(raw) {
		return []string{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{actionsText(raw)}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		out = append(out, actionsText(item))
	}
	return out
}

// actionsText returns a JSON string value as-is and any other non-null value
// as compact JSON.
func actionsText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

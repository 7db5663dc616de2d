// Package model provides domain types shared across packages.
package model

// ConversationRecord is the structured result extracted from one model call.
//
// UserMessages and AssistantMessages keep conversation order but are not
// guaranteed to pair up one to one. RawText is only set when the model output
// could not be parsed as JSON at all.
type ConversationRecord struct {
	UserMessages      []string `json:"user_messages"`
	AssistantMessages []string `json:"assistant_messages"`
	UserActions       string   `json:"user_actions,omitempty"`
	RawText           string   `json:"raw_text,omitempty"`
}

// NewConversationRecord returns a record with empty, non-nil message slices
// so it always encodes as arrays rather than null.
func NewConversationRecord() ConversationRecord {
	return ConversationRecord{
		UserMessages:      []string{},
		AssistantMessages: []string{},
	}
}

// Parsed reports whether the record came from structured model output.
func (r ConversationRecord) Parsed() bool {
	return r.RawText == ""
}

// HasActions reports whether the model narrated user actions.
func (r ConversationRecord) HasActions() bool {
	return r.UserActions != ""
}

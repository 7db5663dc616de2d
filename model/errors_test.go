package model

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestOpErrorIsKind(t *testing.T) {
	err := NewOpError("process_local_image", "/tmp/a.png", ErrMediaNotFound, fs.ErrNotExist)

	if !errors.Is(err, ErrMediaNotFound) {
		t.Error("expected errors.Is to match ErrMediaNotFound")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is to match the underlying cause")
	}
	if errors.Is(err, ErrRemoteCall) {
		t.Error("did not expect ErrRemoteCall to match")
	}
}

func TestOpErrorMessage(t *testing.T) {
	err := NewOpError("process_url_image", "https://example.com/a.jpg", ErrRemoteCall, errors.New("status 500"))

	msg := err.Error()
	for _, want := range []string{"process_url_image", "remote call failure", "https://example.com/a.jpg", "status 500"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error message, got %q", want, msg)
		}
	}
}

func TestOpErrorWithoutCause(t *testing.T) {
	err := NewOpError("new_client", "", ErrMissingCredential, nil)

	if err.Error() != "new_client: missing credential" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrMissingCredential) {
		t.Error("expected errors.Is to match ErrMissingCredential")
	}
}

func TestNewConversationRecordEncodesArrays(t *testing.T) {
	r := NewConversationRecord()
	if r.UserMessages == nil || r.AssistantMessages == nil {
		t.Fatal("expected non-nil slices")
	}
	if !r.Parsed() {
		t.Error("expected empty record to count as parsed")
	}
	if r.HasActions() {
		t.Error("expected no actions")
	}
}

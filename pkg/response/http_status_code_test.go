package response

import "testing"

func TestMessage(t *testing.T) {
	if got := Message(ErrCodeMessageNotPersisted); got != "message could not be saved" {
		t.Errorf("Message(ErrCodeMessageNotPersisted) = %q", got)
	}
	if got := Message(12345); got != "internal error" {
		t.Errorf("Message(unknown) = %q, want fallback", got)
	}
}

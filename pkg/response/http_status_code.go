package response

const (
	ErrCodeMessageNotPersisted = 5001 // Message append failed, nothing was broadcast
	ErrCodeRateLimited         = 4290 // Too many connection attempts
	ErrCodeInternal            = 5000 // Unexpected server error
)

// message
var msg = map[int]string{
	ErrCodeMessageNotPersisted: "message could not be saved",
	ErrCodeRateLimited:         "rate limit exceeded",
	ErrCodeInternal:            "internal error",
}

// Message returns the client-facing text for a code.
func Message(code int) string {
	if m, ok := msg[code]; ok {
		return m
	}
	return msg[ErrCodeInternal]
}

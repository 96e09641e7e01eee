package push

import "fmt"

// Message is the rendered, platform-neutral push content.
type Message struct {
	Title    string
	Body     string
	DeepLink string
	Data     map[string]string
}

// ChannelError describes one failed send attempt.
type ChannelError struct {
	Code    string
	Message string
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("push channel: %s: %s", e.Code, e.Message)
}

// Closed set of provider codes meaning the token is permanently dead. Anything
// else is treated as transient.
const (
	CodeUnregistered = "unregistered"
	CodeInvalidToken = "invalid-token"
	CodeGone         = "gone"
)

// IsTokenDead reports whether the error means the target should be
// deactivated.
func IsTokenDead(err *ChannelError) bool {
	if err == nil {
		return false
	}
	switch err.Code {
	case CodeUnregistered, CodeInvalidToken, CodeGone:
		return true
	}
	return false
}

// Result is the per-token outcome of a send.
type Result struct {
	Token   string
	Success bool
	Err     *ChannelError
}

// TokenSender is the provider collaborator: an opaque "send this payload to
// these tokens" operation returning per-token outcomes. A nil result slice
// means the whole batch failed before per-token outcomes were known; the
// dispatcher then degrades to per-token sends.
type TokenSender interface {
	SendToTokens(tokens []string, payload []byte) []Result
}

// Channel is one delivery platform. Implementations build their own payload
// shape from the neutral Message and delegate the wire send to the provider.
type Channel interface {
	Platform() string
	SupportsBatch() bool
	Send(tokens []string, msg Message) []Result
}

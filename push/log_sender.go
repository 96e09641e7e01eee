package push

import "github.com/sirupsen/logrus"

// LogSender is the development stand-in for a real provider. It logs every
// payload and reports success for all tokens.
type LogSender struct {
	Logger   *logrus.Logger
	Platform string
}

func (s *LogSender) SendToTokens(tokens []string, payload []byte) []Result {
	if s.Logger != nil {
		s.Logger.Printf("push [%s] to %d token(s): %s", s.Platform, len(tokens), payload)
	}
	out := make([]Result, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, Result{Token: t, Success: true})
	}
	return out
}

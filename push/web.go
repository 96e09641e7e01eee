package push

import (
	"encoding/json"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
)

// WebChannel delivers through the browser push protocol. Subscriptions are
// sent one at a time; the protocol has no batch endpoint.
type WebChannel struct {
	Sender TokenSender
}

func NewWebChannel(sender TokenSender) *WebChannel {
	return &WebChannel{Sender: sender}
}

func (c *WebChannel) Platform() string { return models.PlatformWebPush }

func (c *WebChannel) SupportsBatch() bool { return false }

func (c *WebChannel) Send(tokens []string, msg Message) []Result {
	payload, err := json.Marshal(webPayload(msg))
	if err != nil {
		return failAll(tokens, "encode", err.Error())
	}
	out := make([]Result, 0, len(tokens))
	for _, token := range tokens {
		res := c.Sender.SendToTokens([]string{token}, payload)
		if len(res) == 0 {
			out = append(out, Result{Token: token, Err: &ChannelError{Code: "send", Message: "no result from provider"}})
			continue
		}
		out = append(out, res[0])
	}
	return out
}

func webPayload(msg Message) map[string]interface{} {
	return map[string]interface{}{
		"title": msg.Title,
		"body":  msg.Body,
		"url":   msg.DeepLink,
		"data":  msg.Data,
	}
}

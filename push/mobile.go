package push

import (
	"encoding/json"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
)

// MobileChannel delivers through the mobile push provider, which accepts
// multi-token batches.
type MobileChannel struct {
	Sender TokenSender
}

func NewMobileChannel(sender TokenSender) *MobileChannel {
	return &MobileChannel{Sender: sender}
}

func (c *MobileChannel) Platform() string { return models.PlatformMobilePush }

func (c *MobileChannel) SupportsBatch() bool { return true }

func (c *MobileChannel) Send(tokens []string, msg Message) []Result {
	payload, err := json.Marshal(mobilePayload(msg))
	if err != nil {
		return failAll(tokens, "encode", err.Error())
	}
	return c.Sender.SendToTokens(tokens, payload)
}

func mobilePayload(msg Message) map[string]interface{} {
	data := map[string]string{"deepLink": msg.DeepLink}
	for k, v := range msg.Data {
		data[k] = v
	}
	return map[string]interface{}{
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
		"data":     data,
		"priority": "high",
	}
}

func failAll(tokens []string, code, message string) []Result {
	out := make([]Result, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, Result{Token: t, Err: &ChannelError{Code: code, Message: message}})
	}
	return out
}

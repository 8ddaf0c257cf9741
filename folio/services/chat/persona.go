package chat

import (
	"encoding/json"

	"folio/folio/utils/types"

	"github.com/tidwall/gjson"
)

// DefaultPersona is the system prompt used when neither the environment nor
// the content file supplies one.
const DefaultPersona = `You are a helpful assistant for Aakash Vaishnav, a Product Manager at Microsoft.
Your purpose is to help visitors of Aakash's portfolio website learn more about him.
Here's information about Aakash:
- Product Manager at Microsoft working on subscription growth for Microsoft 365 and Copilot
- Previously led Microsoft Shopping on Bing and Edge
- MBA from Indian Institute of Management Kozhikode
- Skilled in product strategy, growth, data analytics, and A/B testing
- Notable achievements include launching AI-powered comparison features and
  implementing data-driven strategies that significantly increased user acquisition

Be friendly, professional and concise in your responses.`

// withSystemPrompt returns a copy of messages with a system message in front,
// unless one is already present anywhere in the transcript.
// withSystemPrompt returns a copy of messages with the persona prepended,
// unless some message already has the system role.
func withSystemPrompt(messages []json.RawMessage, prompt string) []json.RawMessage {
	for _, m := range messages {
		if gjson.GetBytes(m, "role").String() == types.RoleSystem {
			out := make([]json.RawMessage, len(messages))
			copy(out, messages)
			return out
		}
	}
	system, _ := json.Marshal(types.Message{Role: types.RoleSystem, Content: prompt})
	out := make([]json.RawMessage, 0, len(messages)+1)
	out = append(out, system)
	return append(out, messages...)
}

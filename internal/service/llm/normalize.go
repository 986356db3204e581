package llm

import "encoding/json"

// EnvelopeKind tags which known response shape a payload matched.
type EnvelopeKind int

const (
	// KindOutputText matches {"output_text": "..."}.
	KindOutputText EnvelopeKind = iota
	// KindChoiceMessage matches {"choices": [{"message": {"content": "..."}}]}.
	KindChoiceMessage
	// KindChoiceText matches {"choices": [{"text": "..."}]}.
	KindChoiceText
	// KindResultContent matches {"result": [{"content": "..."}]}.
	KindResultContent
	// KindUnrecognized carries the raw payload for anything else, including
	// plain-text bodies that are not JSON at all.
	KindUnrecognized
)

// Envelope is the decoded form of an upstream completion payload. Providers
// answer with several shapes in the wild, so decoding keeps an explicit
// unrecognized variant instead of probing fields at the call site.
type Envelope struct {
	Kind EnvelopeKind
	Text string
}

// completionPayload covers every field we know how to read. Shapes overlap,
// so matching happens in a fixed priority order after a single decode.
type completionPayload struct {
	OutputText *string `json:"output_text"`
	Choices    []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
		Text *string `json:"text"`
	} `json:"choices"`
	Result []struct {
		Content *string `json:"content"`
	} `json:"result"`
}

// DecodeEnvelope parses a raw upstream body into its tagged variant. It never
// fails: undecodable or unmatched payloads become KindUnrecognized with the
// raw body preserved verbatim.
func DecodeEnvelope(payload string) Envelope {
	var decoded completionPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return Envelope{Kind: KindUnrecognized, Text: payload}
	}

	// Empty strings do not count as a match: a reply has to be non-empty, so
	// such payloads degrade to the raw-body fallback instead.
	if hasText(decoded.OutputText) {
		return Envelope{Kind: KindOutputText, Text: *decoded.OutputText}
	}
	if len(decoded.Choices) > 0 {
		choice := decoded.Choices[0]
		if choice.Message != nil && hasText(choice.Message.Content) {
			return Envelope{Kind: KindChoiceMessage, Text: *choice.Message.Content}
		}
		if hasText(choice.Text) {
			return Envelope{Kind: KindChoiceText, Text: *choice.Text}
		}
	}
	if len(decoded.Result) > 0 && hasText(decoded.Result[0].Content) {
		return Envelope{Kind: KindResultContent, Text: *decoded.Result[0].Content}
	}

	return Envelope{Kind: KindUnrecognized, Text: payload}
}

func hasText(s *string) bool {
	return s != nil && *s != ""
}

// Normalize extracts the human-readable reply from an upstream body. Every
// input degrades to a printable string; it never reports an error.
func Normalize(payload string) string {
	return DecodeEnvelope(payload).Text
}

package push

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is a validated push message. It is created by Builder.Build (or by
// unmarshalling JSON, which applies the same validation) and never changes
// afterwards. The zero value is not a valid message.
type Message struct {
	w wireMessage
}

// wireMessage is the JSON request format of a single message. Unset optional
// fields are omitted.
type wireMessage struct {
	To                recipients        `json:"to"`
	Title             *string           `json:"title,omitempty"`
	Body              *string           `json:"body,omitempty"`
	Data              json.RawMessage   `json:"data,omitempty"`
	TTL               *uint64           `json:"ttl,omitempty"`
	Expiration        *uint64           `json:"expiration,omitempty"`
	Priority          Priority          `json:"priority,omitempty"`
	Subtitle          *string           `json:"subtitle,omitempty"`
	Sound             *Sound            `json:"sound,omitempty"`
	Badge             *uint64           `json:"badge,omitempty"`
	ChannelID         *string           `json:"channelId,omitempty"`
	CategoryID        *string           `json:"categoryId,omitempty"`
	MutableContent    *bool             `json:"mutableContent,omitempty"`
	RichContent       *RichContent      `json:"richContent,omitempty"`
	ContentAvailable  *bool             `json:"_contentAvailable,omitempty"`
	InterruptionLevel InterruptionLevel `json:"interruptionLevel,omitempty"`
}

// recipients always encodes as an array but also accepts a bare string.
type recipients []string

func (r *recipients) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*r = recipients{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

// validate checks w in the order Build documents; the first violation wins.
func (w *wireMessage) validate() error {
	if len(w.To) == 0 {
		return fmt.Errorf("%w: no recipients", ErrInvalidToken)
	}
	for _, token := range w.To {
		if !IsValidToken(token) {
			return fmt.Errorf("%w: %q", ErrInvalidToken, token)
		}
	}
	if w.Priority != "" && !w.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, string(w.Priority))
	}
	if w.Sound != nil && w.Sound.name == "" {
		return fmt.Errorf("%w: empty sound", ErrInvalidSound)
	}
	if w.InterruptionLevel != "" && !w.InterruptionLevel.Valid() {
		return fmt.Errorf("%w: interruption level %q", ErrInvalidArgument, string(w.InterruptionLevel))
	}
	if w.Data != nil && !json.Valid(w.Data) {
		return ErrInvalidData
	}
	return nil
}

// clone returns a copy that shares no mutable memory with w.
func (w wireMessage) clone() wireMessage {
	w.To = append(recipients(nil), w.To...)
	if w.Data != nil {
		w.Data = append(json.RawMessage(nil), w.Data...)
	}
	if w.RichContent != nil {
		rc := *w.RichContent
		w.RichContent = &rc
	}
	return w
}

// Validate re-runs the Build checks. It only fails for the zero Message,
// which has no recipients.
func (m Message) Validate() error {
	return m.w.validate()
}

// MarshalJSON encodes the message in the service's request format.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.w)
}

// UnmarshalJSON decodes a message in the request format and validates it like
// Builder.Build does.
func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if bytes.Equal(w.Data, []byte("null")) {
		w.Data = nil
	}
	if err := w.validate(); err != nil {
		return err
	}
	m.w = w
	return nil
}

// To returns the recipient tokens.
func (m Message) To() []string { return append([]string(nil), m.w.To...) }

// Title returns the title and whether it was set.
func (m Message) Title() (string, bool) { return deref(m.w.Title) }

// Body returns the body and whether it was set.
func (m Message) Body() (string, bool) { return deref(m.w.Body) }

// Subtitle returns the subtitle and whether it was set.
func (m Message) Subtitle() (string, bool) { return deref(m.w.Subtitle) }

// Data returns the raw JSON data payload, or nil when unset.
func (m Message) Data() json.RawMessage {
	if m.w.Data == nil {
		return nil
	}
	return append(json.RawMessage(nil), m.w.Data...)
}

// TTL returns the time to live in seconds and whether it was set.
func (m Message) TTL() (uint64, bool) { return deref(m.w.TTL) }

// Expiration returns the expiration timestamp and whether it was set.
func (m Message) Expiration() (uint64, bool) { return deref(m.w.Expiration) }

// Priority returns the priority, or "" when unset.
func (m Message) Priority() Priority { return m.w.Priority }

// Sound returns the sound and whether it was set.
func (m Message) Sound() (Sound, bool) { return deref(m.w.Sound) }

// Badge returns the badge count and whether it was set.
func (m Message) Badge() (uint64, bool) { return deref(m.w.Badge) }

// ChannelID returns the Android channel id and whether it was set.
func (m Message) ChannelID() (string, bool) { return deref(m.w.ChannelID) }

// CategoryID returns the notification category and whether it was set.
func (m Message) CategoryID() (string, bool) { return deref(m.w.CategoryID) }

// MutableContent returns the mutableContent flag and whether it was set.
func (m Message) MutableContent() (bool, bool) { return deref(m.w.MutableContent) }

// ContentAvailable returns the iOS background wake flag and whether it was set.
func (m Message) ContentAvailable() (bool, bool) { return deref(m.w.ContentAvailable) }

// RichContent returns the rich content and whether it was set.
func (m Message) RichContent() (RichContent, bool) { return deref(m.w.RichContent) }

// InterruptionLevel returns the interruption level, or "" when unset.
func (m Message) InterruptionLevel() InterruptionLevel { return m.w.InterruptionLevel }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func ptr[T any](v T) *T { return &v }

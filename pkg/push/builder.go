package push

import (
	"encoding/json"
	"fmt"
)

// Builder accumulates message fields. Each setter overwrites any earlier value
// for the same field. Build validates the accumulated fields and returns an
// immutable Message; the builder may be reused afterwards without affecting
// messages it already produced.
type Builder struct {
	msg     wireMessage
	dataErr error
}

// NewMessage starts a message addressed to the given push tokens.
func NewMessage(to ...string) *Builder {
	return &Builder{msg: wireMessage{To: append(recipients(nil), to...)}}
}

// Title sets the notification title.
func (b *Builder) Title(title string) *Builder {
	b.msg.Title = ptr(title)
	return b
}

// Body sets the notification body.
func (b *Builder) Body(body string) *Builder {
	b.msg.Body = ptr(body)
	return b
}

// Data sets the data payload delivered to the app. v is encoded as JSON; an
// encoding failure is reported by Build as ErrInvalidData. A nil v clears it.
func (b *Builder) Data(v any) *Builder {
	b.dataErr = nil
	if v == nil {
		b.msg.Data = nil
		return b
	}
	raw, err := json.Marshal(v)
	if err != nil {
		b.msg.Data = nil
		b.dataErr = fmt.Errorf("%w: %v", ErrInvalidData, err)
		return b
	}
	b.msg.Data = raw
	if string(raw) == "null" {
		b.msg.Data = nil
	}
	return b
}

// RawData sets an already encoded JSON data payload.
func (b *Builder) RawData(raw json.RawMessage) *Builder {
	b.dataErr = nil
	b.msg.Data = append(json.RawMessage(nil), raw...)
	if len(raw) == 0 || string(raw) == "null" {
		b.msg.Data = nil
	}
	return b
}

// TTL sets how many seconds the message may be kept for redelivery.
func (b *Builder) TTL(seconds uint64) *Builder {
	b.msg.TTL = ptr(seconds)
	return b
}

// Expiration sets a unix timestamp after which the message is dropped.
func (b *Builder) Expiration(unix uint64) *Builder {
	b.msg.Expiration = ptr(unix)
	return b
}

// Priority sets the delivery priority.
func (b *Builder) Priority(p Priority) *Builder {
	b.msg.Priority = p
	return b
}

// Subtitle sets the iOS subtitle.
func (b *Builder) Subtitle(subtitle string) *Builder {
	b.msg.Subtitle = ptr(subtitle)
	return b
}

// Sound sets the sound played on arrival.
func (b *Builder) Sound(s Sound) *Builder {
	b.msg.Sound = ptr(s)
	return b
}

// Badge sets the app icon badge count. Zero clears the badge.
func (b *Builder) Badge(n uint64) *Builder {
	b.msg.Badge = ptr(n)
	return b
}

// ChannelID sets the Android notification channel.
func (b *Builder) ChannelID(id string) *Builder {
	b.msg.ChannelID = ptr(id)
	return b
}

// CategoryID sets the notification category for interactive notifications.
func (b *Builder) CategoryID(id string) *Builder {
	b.msg.CategoryID = ptr(id)
	return b
}

// MutableContent lets an iOS notification service extension modify the message.
func (b *Builder) MutableContent(v bool) *Builder {
	b.msg.MutableContent = ptr(v)
	return b
}

// RichContent attaches media to the notification.
func (b *Builder) RichContent(rc RichContent) *Builder {
	b.msg.RichContent = ptr(rc)
	return b
}

// ContentAvailable makes iOS wake the app in the background on delivery.
func (b *Builder) ContentAvailable(v bool) *Builder {
	b.msg.ContentAvailable = ptr(v)
	return b
}

// InterruptionLevel sets the iOS interruption level.
func (b *Builder) InterruptionLevel(l InterruptionLevel) *Builder {
	b.msg.InterruptionLevel = l
	return b
}

// Build validates the accumulated fields and returns the message.
//
// Checks run in this order and the first failure is returned: recipient
// tokens (ErrInvalidToken, also for an empty recipient list), priority
// (ErrInvalidPriority), sound (ErrInvalidSound), interruption level and data
// (ErrInvalidData). All of them wrap ErrInvalidArgument.
func (b *Builder) Build() (Message, error) {
	if err := b.msg.validate(); err != nil {
		return Message{}, err
	}
	if b.dataErr != nil {
		return Message{}, b.dataErr
	}
	return Message{w: b.msg.clone()}, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// package-level fixtures.
func (b *Builder) MustBuild() Message {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

package push

import (
	"encoding/json"
	"fmt"
)

// Priority is the delivery priority of a message.
type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
)

// Valid reports whether p is one of the priorities the service accepts.
func (p Priority) Valid() bool {
	switch p {
	case PriorityDefault, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Sound is the sound played when the notification arrives. The zero value is
// not a valid sound; use SoundDefault or CustomSound.
type Sound struct {
	name string
}

// SoundDefault plays the device's default notification sound.
var SoundDefault = Sound{name: "default"}

// CustomSound plays the named sound file bundled with the app.
func CustomSound(filename string) Sound {
	return Sound{name: filename}
}

// IsDefault reports whether s is the device default sound.
func (s Sound) IsDefault() bool { return s.name == SoundDefault.name }

// String returns the wire form of the sound.
func (s Sound) String() string { return s.name }

func (s Sound) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.name)
}

func (s *Sound) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	s.name = name
	return nil
}

// InterruptionLevel controls how an iOS notification interrupts the user.
type InterruptionLevel string

const (
	InterruptionActive        InterruptionLevel = "active"
	InterruptionCritical      InterruptionLevel = "critical"
	InterruptionPassive       InterruptionLevel = "passive"
	InterruptionTimeSensitive InterruptionLevel = "time-sensitive"
)

// Valid reports whether l is a known interruption level.
func (l InterruptionLevel) Valid() bool {
	switch l {
	case InterruptionActive, InterruptionCritical, InterruptionPassive, InterruptionTimeSensitive:
		return true
	}
	return false
}

// RichContent carries media attached to the notification.
type RichContent struct {
	Image string `json:"image,omitempty"`
}

// ReceiptID identifies a ticket whose delivery receipt can be queried later.
type ReceiptID string

func (id ReceiptID) String() string { return string(id) }

// ParsePriority converts s into a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// ParseSound converts s into a Sound. "default" maps to SoundDefault and any
// other non-empty value is treated as a custom sound file.
func ParseSound(s string) (Sound, error) {
	if s == "" {
		return Sound{}, fmt.Errorf("%w: empty sound", ErrInvalidSound)
	}
	return Sound{name: s}, nil
}

// ParseInterruptionLevel converts s into an InterruptionLevel.
func ParseInterruptionLevel(s string) (InterruptionLevel, error) {
	l := InterruptionLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: interruption level %q", ErrInvalidArgument, s)
	}
	return l, nil
}

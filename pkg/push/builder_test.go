package push

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"

func TestBuilder_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{
			name:    "no recipients",
			builder: NewMessage(),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "bad token wins over bad priority",
			builder: NewMessage(testToken, "nope").Priority("urgent"),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "bad priority wins over bad sound",
			builder: NewMessage(testToken).Priority("urgent").Sound(CustomSound("")),
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "bad sound wins over bad data",
			builder: NewMessage(testToken).Sound(CustomSound("")).Data(math.Inf(1)),
			wantErr: ErrInvalidSound,
		},
		{
			name:    "bad interruption level",
			builder: NewMessage(testToken).InterruptionLevel("loud"),
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "unencodable data",
			builder: NewMessage(testToken).Data(math.Inf(1)),
			wantErr: ErrInvalidData,
		},
		{
			name:    "invalid raw data",
			builder: NewMessage(testToken).RawData(json.RawMessage(`{"a":`)),
			wantErr: ErrInvalidData,
		},
		{
			name:    "minimal message",
			builder: NewMessage(testToken),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, KindInvalidArgument, Classify(err))
		})
	}
}

func TestBuilder_InterruptionLevelIsNotPriorityError(t *testing.T) {
	_, err := NewMessage(testToken).InterruptionLevel("loud").Build()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidPriority))
	assert.False(t, errors.Is(err, ErrInvalidToken))
}

func TestBuilder_SettersOverwrite(t *testing.T) {
	msg := NewMessage(testToken).
		Title("first").
		Title("second").
		Priority(PriorityNormal).
		Priority(PriorityHigh).
		MustBuild()

	title, ok := msg.Title()
	assert.True(t, ok)
	assert.Equal(t, "second", title)
	assert.Equal(t, PriorityHigh, msg.Priority())
}

func TestBuilder_ReuseDoesNotAffectBuiltMessage(t *testing.T) {
	b := NewMessage(testToken).Title("one").RichContent(RichContent{Image: "a.png"})
	first := b.MustBuild()

	b.Title("two").RichContent(RichContent{Image: "b.png"})
	second := b.MustBuild()

	title, _ := first.Title()
	assert.Equal(t, "one", title)
	rc, _ := first.RichContent()
	assert.Equal(t, "a.png", rc.Image)

	title, _ = second.Title()
	assert.Equal(t, "two", title)
}

func TestBuilder_CallerSliceIsCopied(t *testing.T) {
	to := []string{testToken}
	msg := NewMessage(to...).MustBuild()

	to[0] = "changed"
	assert.Equal(t, []string{testToken}, msg.To())
}

func TestBuilder_NullDataIsUnset(t *testing.T) {
	for _, b := range []*Builder{
		NewMessage(testToken).Data(nil),
		NewMessage(testToken).RawData(json.RawMessage("null")),
		NewMessage(testToken).RawData(nil),
	} {
		msg := b.MustBuild()
		assert.Nil(t, msg.Data())

		raw, err := json.Marshal(msg)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), `"data"`)
	}
}

func TestBuilder_DataErrorClearedByLaterSet(t *testing.T) {
	msg, err := NewMessage(testToken).
		Data(math.Inf(1)).
		Data(map[string]int{"n": 1}).
		Build()
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(msg.Data()))
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() { NewMessage().MustBuild() })
}

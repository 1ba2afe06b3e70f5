package sender

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/expopush/pkg/push"
)

// jsonOfLen returns a JSON string literal that encodes to exactly n bytes.
func jsonOfLen(n int) json.RawMessage {
	return json.RawMessage(`"` + strings.Repeat("a", n-2) + `"`)
}

func TestEncoder_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		size      int
		wantGzip  bool
	}{
		{"below threshold", DefaultGzipThreshold, 100, false},
		{"exactly threshold", DefaultGzipThreshold, 1024, false},
		{"one byte over", DefaultGzipThreshold, 1025, true},
		{"custom threshold", 10, 11, true},
		{"compression disabled", -1, 4096, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := jsonOfLen(tt.size)
			p, err := NewEncoder(tt.threshold).Encode(in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGzip, p.Compressed())

			if !tt.wantGzip {
				assert.Equal(t, "", p.ContentEncoding)
				assert.Equal(t, []byte(in), p.Body)
				return
			}
			assert.Equal(t, "gzip", p.ContentEncoding)
			zr, err := gzip.NewReader(bytes.NewReader(p.Body))
			require.NoError(t, err)
			plain, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, []byte(in), plain)
		})
	}
}

func TestEncoder_SerializeError(t *testing.T) {
	_, err := NewEncoder(DefaultGzipThreshold).Encode(math.NaN())
	require.Error(t, err)
	assert.ErrorIs(t, err, push.ErrSerialize)
	assert.Equal(t, push.KindSerialize, push.Classify(err))
}

func TestPayload_Header(t *testing.T) {
	plain := Payload{Body: []byte("{}")}.Header()
	assert.Equal(t, "application/json", plain.Get("Content-Type"))
	assert.Equal(t, "application/json", plain.Get("Accept"))
	assert.Equal(t, "gzip", plain.Get("Accept-Encoding"))
	assert.Empty(t, plain.Get("Content-Encoding"))

	zipped := Payload{Body: []byte{1}, ContentEncoding: "gzip"}.Header()
	assert.Equal(t, "gzip", zipped.Get("Content-Encoding"))
}

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/expopush/pkg/sender"
)

func repeatTickets(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"status":"ok","id":"r%d"}`, i)
	}
	return strings.Join(parts, ",")
}

// countMessages decodes a send request body and returns the number of
// messages it carries.
func countMessages(t *testing.T, req sender.Request) int {
	t.Helper()
	body := req.Body
	if req.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			t.Errorf("gzip reader: %v", err)
			return 0
		}
		body, err = io.ReadAll(zr)
		if err != nil {
			t.Errorf("gunzip: %v", err)
			return 0
		}
	}
	if len(body) > 0 && body[0] == '{' {
		return 1
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		t.Errorf("decode body: %v", err)
		return 0
	}
	return len(items)
}

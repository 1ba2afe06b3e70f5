// Package pushtest provides an in-process stand-in for the push service.
package pushtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/expopush/pkg/push"
)

const (
	sendPath     = "/--/api/v2/push/send"
	receiptsPath = "/--/api/v2/push/getReceipts"
)

// SendCall records one request received on the send endpoint.
type SendCall struct {
	Query  url.Values
	Header http.Header

	// Single is true when the body was one message object instead of an array.
	Single   bool
	Messages []push.Message

	// Body is the request body after decompression.
	Body []byte
}

// Gateway is an httptest server speaking the push service protocol. Every
// accepted message gets a fresh receipt id whose receipt is immediately
// available as ok. Methods are safe for concurrent use.
type Gateway struct {
	server *httptest.Server

	mu            sync.Mutex
	sends         []SendCall
	receiptCalls  [][]push.ReceiptID
	receipts      map[push.ReceiptID]push.Receipt
	failTokens    map[string]push.ErrorKind
	status        int
	accessToken   string
	gzipResponses bool
}

// NewGateway starts a gateway that is shut down when the test ends.
func NewGateway(t testing.TB) *Gateway {
	g := &Gateway{
		receipts:   make(map[push.ReceiptID]push.Receipt),
		failTokens: make(map[string]push.ErrorKind),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(sendPath, g.handleSend)
	mux.HandleFunc(receiptsPath, g.handleReceipts)
	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

// URL returns the base URL of the gateway.
func (g *Gateway) URL() string { return g.server.URL }

// Client returns an HTTP client configured for the gateway.
func (g *Gateway) Client() *http.Client { return g.server.Client() }

// RequireAccessToken makes the gateway answer 401 unless requests carry
// "Bearer <token>".
func (g *Gateway) RequireAccessToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accessToken = token
}

// FailToken makes messages addressed to token produce an error ticket of the
// given kind.
func (g *Gateway) FailToken(token string, kind push.ErrorKind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failTokens[token] = kind
}

// SetStatus forces every response to carry code. Zero restores normal
// behaviour.
func (g *Gateway) SetStatus(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = code
}

// GzipResponses makes the gateway compress response bodies when the client
// accepts gzip.
func (g *Gateway) GzipResponses(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gzipResponses = on
}

// SetReceipt overrides the receipt returned for id.
func (g *Gateway) SetReceipt(id push.ReceiptID, r push.Receipt) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.receipts[id] = r
}

// ForgetReceipt makes id look not yet delivered.
func (g *Gateway) ForgetReceipt(id push.ReceiptID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.receipts, id)
}

// Sends returns the send requests received so far.
func (g *Gateway) Sends() []SendCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]SendCall(nil), g.sends...)
}

// ReceiptCalls returns the ids of each receipt query received so far.
func (g *Gateway) ReceiptCalls() [][]push.ReceiptID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][]push.ReceiptID(nil), g.receiptCalls...)
}

func (g *Gateway) handleSend(w http.ResponseWriter, r *http.Request) {
	body, ok := g.readRequest(w, r)
	if !ok {
		return
	}

	call := SendCall{Query: r.URL.Query(), Header: r.Header.Clone(), Body: body}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var m push.Message
		if err := json.Unmarshal(trimmed, &m); err != nil {
			writeErrors(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		call.Single = true
		call.Messages = []push.Message{m}
	} else if err := json.Unmarshal(trimmed, &call.Messages); err != nil {
		writeErrors(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	g.mu.Lock()
	g.sends = append(g.sends, call)
	tickets := make([]push.Ticket, 0, len(call.Messages))
	for _, m := range call.Messages {
		tickets = append(tickets, g.ticketFor(m))
	}
	gz := g.gzipResponses
	g.mu.Unlock()

	writeData(w, r, gz, tickets)
}

// ticketFor must be called with g.mu held.
func (g *Gateway) ticketFor(m push.Message) push.Ticket {
	for _, token := range m.To() {
		if kind, bad := g.failTokens[token]; bad {
			return push.Ticket{
				Status:  push.StatusError,
				Message: fmt.Sprintf("%q is not a registered push notification recipient", token),
				Details: &push.Details{Error: kind},
			}
		}
	}
	id := push.ReceiptID(uuid.NewString())
	g.receipts[id] = push.Receipt{Status: push.StatusOK}
	return push.Ticket{Status: push.StatusOK, ID: id}
}

func (g *Gateway) handleReceipts(w http.ResponseWriter, r *http.Request) {
	body, ok := g.readRequest(w, r)
	if !ok {
		return
	}
	var req struct {
		IDs []push.ReceiptID `json:"ids"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	g.mu.Lock()
	g.receiptCalls = append(g.receiptCalls, req.IDs)
	out := make(map[push.ReceiptID]push.Receipt, len(req.IDs))
	for _, id := range req.IDs {
		if rc, found := g.receipts[id]; found {
			out[id] = rc
		}
	}
	gz := g.gzipResponses
	g.mu.Unlock()

	writeData(w, r, gz, out)
}

// readRequest applies the forced status and auth checks and returns the
// decompressed body.
func (g *Gateway) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		writeErrors(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method)
		return nil, false
	}

	g.mu.Lock()
	status, token := g.status, g.accessToken
	g.mu.Unlock()

	if status != 0 {
		writeErrors(w, status, "FORCED", http.StatusText(status))
		return nil, false
	}
	if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
		writeErrors(w, http.StatusUnauthorized, "UNAUTHORIZED", "bad access token")
		return nil, false
	}

	var reader io.Reader = r.Body
	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, "BAD_GZIP", err.Error())
			return nil, false
		}
		defer zr.Close()
		reader = zr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "BAD_BODY", err.Error())
		return nil, false
	}
	return body, true
}

func writeData(w http.ResponseWriter, r *http.Request, gz bool, data any) {
	raw, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		writeErrors(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if gz && strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = zw.Write(raw)
		_ = zw.Close()
		return
	}
	_, _ = w.Write(raw)
}

func writeErrors(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []push.APIError{{Code: code, Message: message}},
	})
}

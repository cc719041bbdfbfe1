package chi

import (
	"encoding/json"
	"errors"
	"net/http"
)

const jsonRPCVersion = "2.0"

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
	codeServerError    = -32000
)

// maxBodyBytes bounds a single RPC request body.
const maxBodyBytes = 1 << 20

// errInvalidParams marks tool arguments that cannot be used.
var errInvalidParams = errors.New("invalid params")

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports a request without an id. Notifications get no response body.
func (r *rpcRequest) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return e.Message }

func newRPCError(code int, msg string) *rpcError {
	return &rpcError{Code: code, Message: msg}
}

var nullID = json.RawMessage("null")

func writeRPCResult(w http.ResponseWriter, id json.RawMessage, result any) {
	if len(id) == 0 {
		id = nullID
	}
	writeJSON(w, http.StatusOK, rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

func writeRPCError(w http.ResponseWriter, status int, id json.RawMessage, e *rpcError) {
	if len(id) == 0 {
		id = nullID
	}
	writeJSON(w, status, rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Error: e})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Tool result content. HTML fragments travel as embedded text/html resources.
type content struct {
	Type        string         `json:"type"`
	Text        string         `json:"text,omitempty"`
	Resource    *resource      `json:"resource,omitempty"`
	Annotations *annotations   `json:"annotations,omitempty"`
	Meta        map[string]any `json:"_meta,omitempty"`
}

type resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type annotations struct {
	Audience []string `json:"audience"`
}

type toolResult struct {
	Content []content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

var (
	audienceUser      = &annotations{Audience: []string{"user"}}
	audienceAssistant = &annotations{Audience: []string{"assistant"}}
)

func textContent(text string, audience *annotations) content {
	return content{Type: "text", Text: text, Annotations: audience}
}

func textResult(text string) toolResult {
	return toolResult{Content: []content{textContent(text, audienceUser)}}
}

func errorResult(text string) toolResult {
	return toolResult{Content: []content{textContent(text, audienceUser)}, IsError: true}
}

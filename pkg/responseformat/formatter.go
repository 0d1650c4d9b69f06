// Package responseformat writes API responses as JSON or MessagePack.
package responseformat

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding is a response body encoding
type Encoding string

const (
	JSON    Encoding = "json"
	MsgPack Encoding = "msgpack"
)

// ContentType returns the MIME type of the encoding
func (e Encoding) ContentType() string {
	if e == MsgPack {
		return "application/x-msgpack"
	}
	return "application/json"
}

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Negotiate picks the encoding for a request. MessagePack is used when
// format=msgpack is given or the Accept header asks for it; JSON otherwise.
func (f *Formatter) Negotiate(req *http.Request) Encoding {
	if req.URL.Query().Get("format") == string(MsgPack) {
		return MsgPack
	}
	if req.Header.Get("Accept") == MsgPack.ContentType() {
		return MsgPack
	}
	return JSON
}

// WriteResponse writes data with a 200 status in the negotiated encoding
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any) error {
	return f.WriteStatus(w, req, http.StatusOK, data)
}

// WriteStatus writes data with the given status in the negotiated encoding
func (f *Formatter) WriteStatus(w http.ResponseWriter, req *http.Request, status int, data any) error {
	enc := f.Negotiate(req)

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(status)

	return Encode(w, enc, data)
}

// Encode writes data to w in the given encoding
func Encode(w io.Writer, enc Encoding, data any) error {
	if enc == MsgPack {
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json") // Use json tags for MessagePack
		return encoder.Encode(data)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an ErrorBody with the given status
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, kind, message string) error {
	return f.WriteStatus(w, req, status, ErrorBody{Error: kind, Message: message})
}

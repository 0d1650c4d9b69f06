package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	RunID  string  `json:"run_id"`
	DeltaT float64 `json:"delta_t"`
}

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		accept      string
		contentType string
	}{
		{"default json", "/api/analyze", "", "application/json"},
		{"query msgpack", "/api/analyze?format=msgpack", "", "application/x-msgpack"},
		{"accept msgpack", "/api/analyze", "application/x-msgpack", "application/x-msgpack"},
		{"unknown format falls back to json", "/api/analyze?format=xml", "", "application/json"},
	}

	f := NewFormatter()
	in := payload{RunID: "abc", DeltaT: 9.75}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			if err := f.WriteResponse(rec, req, in); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Fatalf("expected content type %s, got %s", tt.contentType, ct)
			}

			var out payload
			var err error
			if tt.contentType == "application/json" {
				err = json.Unmarshal(rec.Body.Bytes(), &out)
			} else {
				dec := msgpack.NewDecoder(rec.Body)
				dec.SetCustomStructTag("json")
				err = dec.Decode(&out)
			}
			if err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if out != in {
				t.Errorf("expected %+v, got %+v", in, out)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	if err := NewFormatter().WriteError(rec, req, http.StatusUnprocessableEntity, "missing_columns", "need time"); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "missing_columns" || body.Message != "need time" {
		t.Errorf("unexpected body %+v", body)
	}
}

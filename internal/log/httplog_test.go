package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		level  zapcore.Level
	}{
		{"ok", http.StatusOK, "hello", zapcore.InfoLevel},
		{"implicit ok", 0, "hi", zapcore.InfoLevel},
		{"client error", http.StatusUnprocessableEntity, "bad", zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, "", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			SetLogger(zap.New(core))

			h := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
			h.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.level {
				t.Errorf("expected level %s, got %s", tt.level, e.Level)
			}

			fields := e.ContextMap()
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if fields["status"] != int64(wantStatus) {
				t.Errorf("expected status %d, got %v", wantStatus, fields["status"])
			}
			if fields["size"] != int64(len(tt.body)) {
				t.Errorf("expected size %d, got %v", len(tt.body), fields["size"])
			}
			if fields["path"] != "/api/analyze" || fields["method"] != http.MethodPost {
				t.Errorf("unexpected request fields %v", fields)
			}
		})
	}
}

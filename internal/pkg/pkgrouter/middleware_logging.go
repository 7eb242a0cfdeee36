package pkgrouter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
)

// Bodies are logged up to this many bytes.
const maxLoggedBodyBytes = 4 << 10

const masked = "***"

//nolint:gochecknoglobals // read-only lookup
var sensitiveKeys = map[string]struct{}{
	"authorization":  {},
	"cookie":         {},
	"set-cookie":     {},
	"x-api-key":      {},
	"api_key":        {},
	"apikey":         {},
	"groq_api_key":   {},
	"llm_api_key":    {},
	"openai_api_key": {},
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

func maskHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for key := range out {
		if isSensitive(key) {
			out.Set(key, masked)
		}
	}
	return out
}

func maskQuery(raw string) string {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return raw
	}
	for key := range values {
		if isSensitive(key) {
			values.Set(key, masked)
		}
	}
	return values.Encode()
}

func maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if isSensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = maskData(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = maskData(inner)
		}
		return out
	default:
		return v
	}
}

// loggableBody renders a captured body for the log: masked JSON when it
// parses, text otherwise.
func loggableBody(body []byte, truncated bool) any {
	if len(body) == 0 {
		return nil
	}

	var out any
	var parsed any
	switch {
	case !truncated && json.Unmarshal(body, &parsed) == nil:
		out = maskData(parsed)
	case !utf8.Valid(body):
		out = "<binary body omitted>"
	default:
		out = string(body)
	}

	if truncated {
		return map[string]any{"body": out, "truncated": true}
	}
	return out
}

// statusRecorder captures the status and, for error responses only, the
// first bytes of the body.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	bytes     int
	body      *bytes.Buffer
	truncated bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
		if code >= http.StatusBadRequest {
			w.body = &bytes.Buffer{}
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if w.body != nil && !w.truncated {
		room := maxLoggedBodyBytes - w.body.Len()
		if len(p) > room {
			w.body.Write(p[:room])
			w.truncated = true
		} else {
			w.body.Write(p)
		}
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// middlewareLogging logs each request and its outcome. Liveness probes are
// logged at debug level.
func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		route := matchedRoutePath(r)
		start := time.Now()

		level := slog.LevelInfo
		if route == "/healthz" {
			level = slog.LevelDebug
		}

		reqAttrs := []any{
			"method", r.Method,
			"route", route,
			"query", maskQuery(r.URL.RawQuery),
			"headers", maskHeaders(r.Header),
		}
		if r.Body != nil && r.Body != http.NoBody {
			//nolint:errcheck // best effort for logging only
			head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
			r.Body = struct {
				io.Reader
				io.Closer
			}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

			truncated := len(head) > maxLoggedBodyBytes
			if truncated {
				head = head[:maxLoggedBodyBytes]
			}
			reqAttrs = append(reqAttrs, "body", loggableBody(head, truncated))
		}
		slog.Log(ctx, level, "request received", reqAttrs...)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if rec.body != nil {
			attrs = append(attrs, "body", loggableBody(rec.body.Bytes(), rec.truncated))
		}
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}

		slog.Log(ctx, level, "response sent", attrs...)
	})
}

package httpapi

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer. Nop until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off":
		return LevelOff
	case "error":
		return LevelError
	case "info", "":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("IRISD_LOG_REQUESTS"))

// requestLogLevel lets a single request raise or silence its access logging
// via ?log= or the X-Log-Level header.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

type logLevelKey struct{}

func withLogLevel(r *http.Request, lvl LogLevel) context.Context {
	return context.WithValue(r.Context(), logLevelKey{}, lvl)
}

// logLevelFrom returns the level AccessLog resolved for this request.
func logLevelFrom(ctx context.Context) LogLevel {
	if lvl, ok := ctx.Value(logLevelKey{}).(LogLevel); ok {
		return lvl
	}
	return LevelOff
}

// AccessLog writes one entry per request. 5xx responses log at error, 4xx at
// warn, the rest at info; LevelError keeps only failures.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lvl := requestLogLevel(r)
		if lvl == LevelOff {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(withLogLevel(r, lvl)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = zlog.Error()
		case status >= 400:
			ev = zlog.Warn()
		case lvl >= LevelInfo:
			ev = zlog.Info()
		default:
			return
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePatternOrPath(r)).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

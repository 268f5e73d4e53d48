package httpapi

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"irisd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Health() types.HealthResponse
	Predict(req types.PredictRequest) (types.PredictionResponse, error)
	Model() types.ModelInfo
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(corsMiddleware())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Health())
	})

	r.Get("/model", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Model())
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "application/json" {
			incRejected("content_type")
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var typeErr *json.UnmarshalTypeError
			var sizeErr *http.MaxBytesError
			switch {
			case errors.As(err, &typeErr) && typeErr.Field != "":
				incRejected("type")
				writeJSONError(w, http.StatusBadRequest, typeErr.Field+" must be a number", typeErr.Field)
			case errors.As(err, &sizeErr):
				incRejected("body_size")
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
			default:
				incRejected("json")
				writeJSONError(w, http.StatusBadRequest, "invalid JSON body", "")
			}
			return
		}

		resp, err := svc.Predict(req)
		if err != nil {
			status, msg, field := statusFor(err)
			if status >= http.StatusInternalServerError {
				zlog.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("predict failed")
			}
			writeJSONError(w, status, msg, field)
			return
		}
		if logLevelFrom(r.Context()) >= LevelDebug {
			zlog.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("prediction", resp.Prediction).
				Floats64("probabilities", resp.Probabilities).
				Msg("predict")
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("degraded"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

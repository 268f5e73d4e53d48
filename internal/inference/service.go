package inference

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"irisd/pkg/types"
)

// State is the service lifecycle state.
type State string

const (
	StateUnloaded   State = "unloaded"
	StateReady      State = "ready"
	StateLoadFailed State = "load_failed"
)

// TimestampLayout is fixed-width RFC 3339 in UTC, so timestamps sort as text.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// snapshot is published once by Initialize and never modified afterwards.
type snapshot struct {
	state State
	model *Model
	err   error
}

// Service answers predictions against a model loaded once at startup.
type Service struct {
	loader Loader
	log    zerolog.Logger
	now    func() time.Time
	cache  *resultCache

	once sync.Once
	cur  atomic.Pointer[snapshot]
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger installs a structured logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) error { s.log = l; return nil }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now == nil {
			return errors.New("nil clock")
		}
		s.now = now
		return nil
	}
}

// WithCacheSize enables an LRU of classifier outputs holding up to n vectors.
// n <= 0 leaves caching off.
func WithCacheSize(n int) Option {
	return func(s *Service) error {
		c, err := newResultCache(n)
		if err != nil {
			return fmt.Errorf("result cache: %w", err)
		}
		s.cache = c
		return nil
	}
}

// New returns a Service in the unloaded state.
func New(loader Loader, opts ...Option) (*Service, error) {
	if loader == nil {
		return nil, errors.New("nil loader")
	}
	s := &Service{loader: loader, log: zerolog.Nop(), now: time.Now}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.cur.Store(&snapshot{state: StateUnloaded})
	return s, nil
}

// Initialize loads the model. Only the first call has an effect; a failed
// load leaves the service in StateLoadFailed for the life of the process.
// The returned error is the load failure, if any.
func (s *Service) Initialize() error {
	s.once.Do(func() {
		m, err := s.loader.Load()
		if err == nil && (m == nil || m.Classifier == nil) {
			err = errors.New("loader returned no classifier")
		}
		if err != nil {
			s.cur.Store(&snapshot{state: StateLoadFailed, err: err})
			modelLoaded.Set(0)
			s.log.Error().Err(err).Msg("model load failed; serving in degraded mode")
			return
		}
		if n := m.Classifier.NumClasses(); len(m.Labels) != n {
			s.log.Warn().Int("labels", len(m.Labels)).Int("classes", n).Msg("label count does not match class count; missing labels fall back to \"Class N\"")
		}
		s.cur.Store(&snapshot{state: StateReady, model: m})
		modelLoaded.Set(1)
		s.log.Info().Strs("labels", m.Labels).Int("estimators", m.Estimators).Msg("model loaded")
	})
	return s.cur.Load().err
}

// State returns the current lifecycle state.
func (s *Service) State() State { return s.cur.Load().state }

// Ready reports whether predictions can be served.
func (s *Service) Ready() bool { return s.State() == StateReady }

// Health always succeeds and never changes state.
func (s *Service) Health() types.HealthResponse {
	return types.HealthResponse{Status: "ok", ModelLoaded: s.Ready()}
}

// Model describes the loaded model, or why there is none.
func (s *Service) Model() types.ModelInfo {
	snap := s.cur.Load()
	info := types.ModelInfo{State: string(snap.state)}
	if p, ok := s.loader.(interface{ Path() string }); ok {
		info.Path = p.Path()
	}
	if snap.err != nil {
		info.LoadError = snap.err.Error()
	}
	if m := snap.model; m != nil {
		info.Labels = append([]string(nil), m.Labels...)
		info.Features = FeatureNames()
		if len(m.Features) > 0 {
			info.Features = append([]string(nil), m.Features...)
		}
		info.Estimators = m.Estimators
		info.Training = m.Training
	}
	return info
}

// Predict validates req, runs the classifier and builds the response.
// Errors satisfy exactly one of IsServiceUnavailable, IsValidation or IsInference.
func (s *Service) Predict(req types.PredictRequest) (types.PredictionResponse, error) {
	snap := s.cur.Load()
	if snap.state != StateReady {
		predictionErrorsTotal.WithLabelValues(kindUnavailable).Inc()
		reason := ""
		if snap.err != nil {
			reason = snap.err.Error()
		}
		return types.PredictionResponse{}, unavailableError{state: snap.state, reason: reason}
	}

	x, err := Validate(req)
	if err != nil {
		predictionErrorsTotal.WithLabelValues(kindValidation).Inc()
		return types.PredictionResponse{}, err
	}

	out, err := s.classify(snap.model.Classifier, x)
	if err != nil {
		predictionErrorsTotal.WithLabelValues(kindInference).Inc()
		return types.PredictionResponse{}, err
	}

	label := labelFor(snap.model.Labels, out.index)
	predictionsTotal.WithLabelValues(label).Inc()
	return types.PredictionResponse{
		Prediction:      label,
		PredictionIndex: out.index,
		Probabilities:   out.proba,
		Confidence:      round4(maxOf(out.proba)),
		Timestamp:       s.now().UTC().Format(TimestampLayout),
	}, nil
}

// classify runs the classifier, converting errors and panics into inference errors.
func (s *Service) classify(clf Classifier, x vector) (out outcome, err error) {
	if o, ok := s.cache.get(x); ok {
		cacheHitsTotal.Inc()
		return o, nil
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = outcome{}, inferenceError{err: fmt.Errorf("classifier panic: %v", r)}
		}
	}()

	start := time.Now()
	row := append([]float64(nil), x[:]...)
	idx, err := clf.Predict(row)
	if err != nil {
		return outcome{}, inferenceError{err: err}
	}
	proba, err := clf.PredictProba(row)
	if err != nil {
		return outcome{}, inferenceError{err: err}
	}
	inferenceDuration.Observe(time.Since(start).Seconds())

	if n := clf.NumClasses(); len(proba) != n {
		return outcome{}, inferenceError{err: fmt.Errorf("classifier returned %d probabilities for %d classes", len(proba), n)}
	}
	if idx < 0 || idx >= len(proba) {
		return outcome{}, inferenceError{err: fmt.Errorf("classifier returned class index %d outside [0, %d)", idx, len(proba))}
	}
	out = outcome{index: idx, proba: proba}
	s.cache.add(x, out)
	return out, nil
}

// labelFor looks up the class label, falling back to "Class N" when the
// artifact carries fewer labels than the classifier has classes.
func labelFor(labels []string, idx int) string {
	if idx >= 0 && idx < len(labels) {
		return labels[idx]
	}
	return fmt.Sprintf("Class %d", idx)
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// round4 rounds to 4 decimal digits.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

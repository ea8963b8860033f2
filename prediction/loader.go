package prediction

import (
	"errors"
	"io/fs"

	"go.uber.org/zap"

	"urbanflux/ml"
)

// Capability names, used in logs and metrics.
const (
	CapabilityFreshness = "freshness"
	CapabilitySpoilage  = "spoilage"
	CapabilityPriority  = "priority"
)

// Loader binds model artifacts to capabilities. A failed load never
// returns an error: the capability is left unavailable and the cause logged.
type Loader struct {
	Logger    *zap.Logger
	CacheSize int
}

func (l Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l Loader) Regressor(capability, path string, schema ml.Schema) ml.Binding[ml.Regressor] {
	if path == "" {
		return l.unavailableRegressor(capability, path, errors.New("no artifact path configured"))
	}
	model, err := ml.LoadRegressor(path, schema)
	if err != nil {
		return l.unavailableRegressor(capability, path, err)
	}
	cached, err := ml.CacheRegressor(model, l.CacheSize)
	if err != nil {
		return l.unavailableRegressor(capability, path, err)
	}
	l.loaded(capability, path, model)
	return ml.Bind(cached)
}

func (l Loader) Classifier(capability, path string, schema ml.Schema) ml.Binding[ml.Classifier] {
	if path == "" {
		return l.unavailableClassifier(capability, path, errors.New("no artifact path configured"))
	}
	model, err := ml.LoadClassifier(path, schema)
	if err != nil {
		return l.unavailableClassifier(capability, path, err)
	}
	cached, err := ml.CacheClassifier(model, l.CacheSize)
	if err != nil {
		return l.unavailableClassifier(capability, path, err)
	}
	l.loaded(capability, path, model)
	return ml.Bind(cached)
}

func (l Loader) loaded(capability, path string, model ml.Model) {
	l.logger().Info("model loaded",
		zap.String("capability", capability),
		zap.String("path", path),
		zap.String("kind", string(model.Kind())),
		zap.Int("cache_size", l.CacheSize),
	)
}

func (l Loader) unavailableRegressor(capability, path string, err error) ml.Binding[ml.Regressor] {
	l.failed(capability, path, err)
	return ml.Unavailable[ml.Regressor](err)
}

func (l Loader) unavailableClassifier(capability, path string, err error) ml.Binding[ml.Classifier] {
	l.failed(capability, path, err)
	return ml.Unavailable[ml.Classifier](err)
}

// A missing artifact is an expected deployment state; anything else means
// the artifact exists but cannot serve this capability.
func (l Loader) failed(capability, path string, err error) {
	fields := []zap.Field{
		zap.String("capability", capability),
		zap.String("path", path),
		zap.Error(err),
	}
	if path == "" || errors.Is(err, fs.ErrNotExist) {
		l.logger().Warn("model not loaded", fields...)
		return
	}
	l.logger().Error("model artifact rejected", fields...)
}

// ModelPaths locates the artifact of each capability.
type ModelPaths struct {
	Freshness string
	Spoilage  string
	Priority  string
}

// Services bundles the three prediction capabilities.
type Services struct {
	Freshness *FreshnessService
	Spoilage  *SpoilageService
	Priority  *PriorityService
}

// Load binds every capability. It always succeeds.
func Load(l Loader, paths ModelPaths) *Services {
	return &Services{
		Freshness: NewFreshnessService(l.Regressor(CapabilityFreshness, paths.Freshness, FreshnessSchema), nil),
		Spoilage:  NewSpoilageService(l.Classifier(CapabilitySpoilage, paths.Spoilage, SpoilageSchema)),
		Priority:  NewPriorityService(l.Regressor(CapabilityPriority, paths.Priority, PrioritySchema)),
	}
}

// Loaded reports, per capability, whether a model is bound.
func (s *Services) Loaded() map[string]bool {
	return map[string]bool{
		CapabilityFreshness: s.Freshness.Loaded(),
		CapabilitySpoilage:  s.Spoilage.Loaded(),
		CapabilityPriority:  s.Priority.Loaded(),
	}
}

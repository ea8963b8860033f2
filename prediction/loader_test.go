package prediction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"urbanflux/ml"
)

func observedLoader(cacheSize int) (Loader, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return Loader{Logger: zap.New(core), CacheSize: cacheSize}, logs
}

func TestLoaderMissingArtifactDegrades(t *testing.T) {
	loader, logs := observedLoader(0)
	binding := loader.Regressor(CapabilityFreshness, filepath.Join(t.TempDir(), "absent.json"), FreshnessSchema)

	assert.False(t, binding.IsLoaded())
	require.ErrorIs(t, binding.Reason(), os.ErrNotExist)
	entries := logs.FilterMessage("model not loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, CapabilityFreshness, entries[0].ContextMap()["capability"])
}

func TestLoaderSchemaMismatchIsLoud(t *testing.T) {
	loader, logs := observedLoader(0)
	// The priority artifact cannot serve the freshness schema.
	binding := loader.Regressor(CapabilityFreshness, "../models/priority_model.json", FreshnessSchema)

	assert.False(t, binding.IsLoaded())
	require.ErrorIs(t, binding.Reason(), ml.ErrSchemaMismatch)
	entries := logs.FilterMessage("model artifact rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestLoaderWrongKind(t *testing.T) {
	loader, _ := observedLoader(0)
	binding := loader.Classifier(CapabilitySpoilage, "../models/freshness_model.json", SpoilageSchema)
	require.ErrorIs(t, binding.Reason(), ml.ErrUnsupportedKind)
}

func TestLoadServices(t *testing.T) {
	loader, logs := observedLoader(32)
	services := Load(loader, ModelPaths{
		Freshness: "../models/freshness_model.json",
		Spoilage:  "../models/spoilage_model.json",
	})

	assert.Equal(t, map[string]bool{
		CapabilityFreshness: true,
		CapabilitySpoilage:  true,
		CapabilityPriority:  false,
	}, services.Loaded())
	assert.Equal(t, 2, logs.FilterMessage("model loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("model not loaded").Len())

	out, err := services.Priority.Predict(PriorityRequest{SpoilageRisk: "High"})
	require.NoError(t, err)
	assert.True(t, out.Degraded)
}

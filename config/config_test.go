package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAppliesThumbnailDefaults(t *testing.T) {
	cfg := Config{Thumbnails: ThumbnailOptions{Enabled: true}}

	err := Normalize(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Thumbnails.Width)
	assert.Equal(t, 200, cfg.Thumbnails.Height)
	assert.Equal(t, 80, cfg.Thumbnails.Quality)
}

func TestNormalizeAppliesImageCompressionDefaults(t *testing.T) {
	cfg := Config{ImageCompression: ImageCompressionOptions{Enabled: true}}

	err := Normalize(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.ImageCompression.MaxWidth)
	assert.Equal(t, 1080, cfg.ImageCompression.MaxHeight)
	assert.Equal(t, OutputAuto, cfg.ImageCompression.OutputFormat)
}

func TestNormalizeRejectsOutOfRangeQuality(t *testing.T) {
	cfg := Config{Thumbnails: ThumbnailOptions{Enabled: true, Width: 10, Height: 10, Quality: 150}}

	err := Normalize(&cfg)

	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Field, "Quality")
}

func TestStaticRefsAndReactiveRefsImplementInitialFilesSource(t *testing.T) {
	var _ InitialFilesSource = StaticRefs{"a", "b"}
	var _ InitialFilesSource = ReactiveRefs(make(chan []string))
}

func TestConfigErrorMessageIncludesField(t *testing.T) {
	err := &ConfigError{Field: "MaxFiles", Message: "must be positive"}
	assert.Contains(t, err.Error(), "MaxFiles")
	assert.Contains(t, err.Error(), "must be positive")
}

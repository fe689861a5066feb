package reveal

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/reveal/internal/edge"
	"github.com/gogpu/reveal/internal/luma"
	"github.com/gogpu/reveal/internal/plan"
	"github.com/gogpu/reveal/internal/playback"
)

// Defaults.
const (
	DefaultMaxSize    = 1000
	DefaultForeground = "#000000"
	DefaultBackground = "#ffffff"
	DefaultSurface    = AutoSurface
	DefaultCacheSize  = 8

	// MaxMaxSize bounds the working resolution.
	MaxMaxSize = 8192
	maxStride  = 64
	maxBlock   = 16
	maxCache   = 256
)

// AutoSurface selects the highest-priority available surface backend.
const AutoSurface = "auto"

// Speed bounds, in points per frame.
const (
	MinSpeed     = playback.MinSpeed
	MaxSpeed     = playback.MaxSpeed
	DefaultSpeed = playback.DefaultSpeed
)

// Config holds the tuning constants of a session. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// MaxSize bounds the larger image dimension; bigger images are
	// downscaled uniformly.
	MaxSize int `toml:"max_size" yaml:"max_size"`

	// Filter is the resampling filter used when downscaling.
	Filter string `toml:"filter" yaml:"filter"`

	// Threshold is the Sobel magnitude above which a pixel is an edge.
	Threshold float32 `toml:"threshold" yaml:"threshold"`

	// Stride is the outline sampling grid spacing.
	Stride int `toml:"stride" yaml:"stride"`

	// Cutoff is the mask binarization level for outline points.
	Cutoff int `toml:"cutoff" yaml:"cutoff"`

	// Speed is the number of points painted per frame.
	Speed int `toml:"speed" yaml:"speed"`

	// Split is the percentage of progress allotted to the outline phase.
	Split int `toml:"split" yaml:"split"`

	// BlockSize is the side of the square painted per fill point.
	BlockSize int `toml:"block_size" yaml:"block_size"`

	// Foreground and Background are hex colours ("#rrggbb").
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`

	// AutoStart starts playback as soon as an image is loaded.
	AutoStart bool `toml:"auto_start" yaml:"auto_start"`

	// Workers is the number of edge detection workers: 0 uses GOMAXPROCS,
	// 1 runs serially.
	Workers int `toml:"workers" yaml:"workers"`

	// Surface names the registered backend used for the colour source;
	// "auto" picks the best available one.
	Surface string `toml:"surface" yaml:"surface"`

	// CacheSize is the number of analysed images kept for reloading;
	// 0 disables the cache.
	CacheSize int `toml:"cache_size" yaml:"cache_size"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:    DefaultMaxSize,
		Filter:     string(luma.DefaultFilter),
		Threshold:  edge.DefaultThreshold,
		Stride:     plan.DefaultStride,
		Cutoff:     plan.DefaultCutoff,
		Speed:      DefaultSpeed,
		Split:      playback.DefaultSplit,
		BlockSize:  playback.DefaultBlockSize,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		Surface:    DefaultSurface,
		CacheSize:  DefaultCacheSize,
	}
}

// Normalize returns c with every out-of-range value clamped and every
// unparsable value replaced by its default. Adjustments are logged at
// warn level; they never fail.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	log := Logger()
	clampInt := func(name string, v *int, lo, hi int) {
		if n := min(max(*v, lo), hi); n != *v {
			log.Warn("reveal: config value clamped", "field", name, "value", *v, "used", n)
			*v = n
		}
	}

	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	clampInt("max_size", &c.MaxSize, 1, MaxMaxSize)
	clampInt("stride", &c.Stride, 1, maxStride)
	clampInt("cutoff", &c.Cutoff, 0, 255)
	clampInt("speed", &c.Speed, MinSpeed, MaxSpeed)
	clampInt("split", &c.Split, 0, 100)
	clampInt("block_size", &c.BlockSize, 1, maxBlock)
	clampInt("workers", &c.Workers, 0, 256)
	clampInt("cache_size", &c.CacheSize, 0, maxCache)

	if t := edge.ClampThreshold(c.Threshold); t != c.Threshold {
		log.Warn("reveal: config value clamped", "field", "threshold", "value", c.Threshold, "used", t)
		c.Threshold = t
	}
	if f, err := luma.ParseFilter(c.Filter); err != nil {
		log.Warn("reveal: unknown filter, using default", "filter", c.Filter, "used", d.Filter)
		c.Filter = d.Filter
	} else {
		c.Filter = string(f)
	}
	if _, err := colorful.Hex(c.Foreground); err != nil {
		log.Warn("reveal: invalid colour, using default", "field", "foreground", "value", c.Foreground)
		c.Foreground = d.Foreground
	}
	if _, err := colorful.Hex(c.Background); err != nil {
		log.Warn("reveal: invalid colour, using default", "field", "background", "value", c.Background)
		c.Background = d.Background
	}
	c.Surface = strings.TrimSpace(c.Surface)
	if c.Surface == "" || strings.EqualFold(c.Surface, AutoSurface) {
		c.Surface = AutoSurface
	}
	return c
}

// ForegroundColor returns the parsed outline colour.
func (c Config) ForegroundColor() color.RGBA {
	return parseColor(c.Foreground, color.RGBA{0, 0, 0, 0xff})
}

// BackgroundColor returns the parsed background colour.
func (c Config) BackgroundColor() color.RGBA {
	return parseColor(c.Background, color.RGBA{0xff, 0xff, 0xff, 0xff})
}

func parseColor(hex string, fallback color.RGBA) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}
}

func (c Config) playbackSettings() playback.Settings {
	return playback.Settings{
		Split:      c.Split,
		BlockSize:  c.BlockSize,
		Foreground: c.ForegroundColor(),
		Background: c.BackgroundColor(),
	}
}

func (c Config) planOptions() plan.Options {
	return plan.Options{Stride: c.Stride, Cutoff: uint8(c.Cutoff)}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file on top of
// DefaultConfig and normalizes the result. Fields absent from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("reveal: read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data in the format named by ext (".toml", ".yaml"
// or ".yml") on top of DefaultConfig.
func ParseConfig(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("reveal: parse toml config: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("reveal: parse yaml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("reveal: unsupported config format %q", ext)
	}
	return cfg.Normalize(), nil
}

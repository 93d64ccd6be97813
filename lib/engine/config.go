package engine

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config configures an Environment. Load it from REACT_* environment
// variables with LoadConfig, or build it in code starting from DefaultConfig.
type Config struct {
	// Scripts are loaded into every engine, in order. They must define
	// the React, ReactDOMServer and component globals. Paths are relative
	// to the Environment's file system.
	Scripts []string `env:"SCRIPTS" envSeparator:","`

	// UseServerSideRendering can be turned off to render every component
	// client-side only.
	UseServerSideRendering bool `env:"USE_SERVER_SIDE_RENDERING" envDefault:"true"`

	// StartEngines are created when the Environment starts.
	StartEngines int `env:"START_ENGINES" envDefault:"2"`

	// MaxEngines bounds how many engines exist at once.
	MaxEngines int `env:"MAX_ENGINES" envDefault:"10"`

	// MaxUsagesPerEngine recycles an engine after it has been borrowed
	// this many times. Zero never recycles.
	MaxUsagesPerEngine int `env:"MAX_USAGES_PER_ENGINE" envDefault:"100"`

	// AcquireTimeout bounds the wait for a free engine.
	AcquireTimeout time.Duration `env:"ACQUIRE_TIMEOUT" envDefault:"5s"`

	// RenderTimeout interrupts scripts running longer than this. Zero
	// disables the limit.
	RenderTimeout time.Duration `env:"RENDER_TIMEOUT" envDefault:"5s"`

	// BuildPath is the URL prefix of the bundles listed in the manifest.
	BuildPath string `env:"BUILD_PATH"`

	// ManifestPath locates the asset manifest whose entrypoints become
	// the script and style paths.
	ManifestPath string `env:"MANIFEST_PATH"`

	// ContainerTag is the default element wrapping rendered components.
	ContainerTag string `env:"CONTAINER_TAG" envDefault:"div"`

	// CacheSize enables a render cache of this many entries.
	CacheSize int `env:"CACHE_SIZE" envDefault:"0"`
}

// envPrefix is prepended to every variable name in Config.
const envPrefix = "REACT_"

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration LoadConfig yields with no
// variables set.
func DefaultConfig() Config {
	return Config{
		UseServerSideRendering: true,
		StartEngines:           2,
		MaxEngines:             10,
		MaxUsagesPerEngine:     100,
		AcquireTimeout:         5 * time.Second,
		RenderTimeout:          5 * time.Second,
		ContainerTag:           "div",
	}
}

func (c Config) normalize() Config {
	if c.MaxEngines < 1 {
		c.MaxEngines = 1
	}
	if c.StartEngines > c.MaxEngines {
		c.StartEngines = c.MaxEngines
	}
	if c.StartEngines < 0 {
		c.StartEngines = 0
	}
	if c.ContainerTag == "" {
		c.ContainerTag = "div"
	}
	return c
}

package config

// Config is the root configuration structure for the fingerbank command line.
type Config struct {
	Log     LogConfig     `description:"Logging configuration" koanf:"log"`
	Catalog CatalogConfig `description:"Catalog source configuration" koanf:"catalog"`
	Match   MatchConfig   `description:"Matching configuration" koanf:"match"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level: trace | debug | info | warn | error" koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `description:"Log format: console | json" koanf:"format" validate:"omitempty,oneof=console json"`
}

// CatalogConfig selects the catalog to load and where synced catalogs live.
type CatalogConfig struct {
	Path     string `description:"Catalog file; empty means the synced cache, then the builtin catalog" koanf:"path"`
	URL      string `description:"Remote catalog used by 'catalog sync'" koanf:"url" validate:"omitempty,url"`
	CacheDir string `description:"Directory holding the synced catalog; empty means the workspace cache" koanf:"cache_dir"`
	Watch    bool   `description:"Reload the catalog file when it changes (shell only)" koanf:"watch"`
}

// MatchConfig tunes the match engine and the tests it runs.
type MatchConfig struct {
	Tests     []string `description:"Tests to run, in order" koanf:"tests" validate:"min=1,dive,matchtest"`
	TopK      int      `description:"Results kept by ranking tests" koanf:"top_k" validate:"min=1"`
	Threshold float64  `description:"Quick-ratio bound below which similarity is not refined" koanf:"threshold" validate:"gte=0,lte=1"`
	Workers   int      `description:"Goroutines used per match; 0 means one per CPU" koanf:"workers" validate:"min=0"`
	Class     int      `description:"Only report entries in this class; 0 means any class" koanf:"class" validate:"min=0"`
}

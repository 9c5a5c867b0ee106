// Package config defines the router configuration schema and a cached
// YAML loader. All table extensions declared here are merged into the
// immutable pattern tables once at startup; nothing re-reads the config
// on the classification path.
package config

// RouterConfig is the root configuration for the lane router.
type RouterConfig struct {
	// Guards tunes the guard stack thresholds.
	Guards GuardConfig `yaml:"guards"`

	// Tables extends the built-in pattern tables.
	Tables TablesConfig `yaml:"tables"`

	// API configures the HTTP classification API.
	API APIConfig `yaml:"api"`

	// Diagnose configures the optional GPT-lane dispatcher.
	Diagnose DiagnoseConfig `yaml:"diagnose"`
}

// GuardConfig holds guard stack thresholds. Zero values select the
// built-in defaults.
type GuardConfig struct {
	// MaxQueryLength is the maximum accepted query length in runes.
	// Longer queries resolve to UNKNOWN without further processing.
	MaxQueryLength int `yaml:"max_query_length"`

	// PasteDumpAlphaRatio is the minimum alphabetic-rune ratio below
	// which a query is treated as a paste dump. Range (0, 1).
	PasteDumpAlphaRatio float64 `yaml:"paste_dump_alpha_ratio"`

	// PasteDumpMinLength is the minimum query length in runes before the
	// paste-dump guard applies. Short fragments are never flagged.
	PasteDumpMinLength int `yaml:"paste_dump_min_length"`
}

// TablesConfig appends operator-supplied entries to the built-in pattern
// tables. Entries are additive only; the built-in tables cannot be removed
// or reordered from configuration.
type TablesConfig struct {
	// ExtraInjectionSignatures are additional injection-token regexes.
	ExtraInjectionSignatures []string `yaml:"extra_injection_signatures"`

	// ExtraNonDomainPhrases are additional off-topic phrase regexes,
	// anchored at the start of a query or clause.
	ExtraNonDomainPhrases []string `yaml:"extra_non_domain_phrases"`

	// ExtraEquipmentAliases maps additional equipment aliases to their
	// canonical identifiers, e.g. "port genny": "GENERATOR_1".
	ExtraEquipmentAliases map[string]string `yaml:"extra_equipment_aliases"`

	// ExtraCanonicalForms maps additional abbreviations of any entity
	// type to canonical identifiers.
	ExtraCanonicalForms map[string]string `yaml:"extra_canonical_forms"`
}

// APIConfig configures the HTTP classification API server.
type APIConfig struct {
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`

	// MaxBatchSize caps the number of queries accepted by the batch
	// endpoint. Zero selects the default.
	MaxBatchSize int `yaml:"max_batch_size"`
}

// DiagnoseConfig configures the downstream LLM dispatcher used for
// GPT-lane queries. Disabled unless an endpoint is set.
type DiagnoseConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// Built-in defaults applied by ApplyDefaults.
const (
	DefaultMaxQueryLength      = 2000
	DefaultPasteDumpAlphaRatio = 0.45
	DefaultPasteDumpMinLength  = 40
	DefaultMaxBatchSize        = 100
)

// ApplyDefaults fills zero-valued fields with the built-in defaults.
func (c *RouterConfig) ApplyDefaults() {
	if c.Guards.MaxQueryLength == 0 {
		c.Guards.MaxQueryLength = DefaultMaxQueryLength
	}
	if c.Guards.PasteDumpAlphaRatio == 0 {
		c.Guards.PasteDumpAlphaRatio = DefaultPasteDumpAlphaRatio
	}
	if c.Guards.PasteDumpMinLength == 0 {
		c.Guards.PasteDumpMinLength = DefaultPasteDumpMinLength
	}
	if c.API.ReadTimeoutSeconds == 0 {
		c.API.ReadTimeoutSeconds = 30
	}
	if c.API.WriteTimeoutSeconds == 0 {
		c.API.WriteTimeoutSeconds = 30
	}
	if c.API.MaxBatchSize == 0 {
		c.API.MaxBatchSize = DefaultMaxBatchSize
	}
}

// Default returns a configuration with all defaults applied and no table
// extensions. Used when no config file is given.
func Default() *RouterConfig {
	cfg := &RouterConfig{}
	cfg.ApplyDefaults()
	return cfg
}

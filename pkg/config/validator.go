package config

import (
	"fmt"
	"regexp"
	"strings"
)

// validateConfigStructure checks the parsed configuration for values that
// would otherwise surface as runtime faults: malformed regexes in table
// extensions, thresholds outside their valid range, and alias entries that
// map to empty canonical identifiers.
func validateConfigStructure(cfg *RouterConfig) error {
	if cfg.Guards.PasteDumpAlphaRatio < 0 || cfg.Guards.PasteDumpAlphaRatio >= 1 {
		return fmt.Errorf("guards.paste_dump_alpha_ratio must be in [0, 1), got %v", cfg.Guards.PasteDumpAlphaRatio)
	}
	if cfg.Guards.MaxQueryLength < 0 {
		return fmt.Errorf("guards.max_query_length must be non-negative, got %d", cfg.Guards.MaxQueryLength)
	}
	if cfg.Guards.PasteDumpMinLength < 0 {
		return fmt.Errorf("guards.paste_dump_min_length must be non-negative, got %d", cfg.Guards.PasteDumpMinLength)
	}

	for i, pattern := range cfg.Tables.ExtraInjectionSignatures {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("tables.extra_injection_signatures[%d]: invalid regex %q: %w", i, pattern, err)
		}
	}
	for i, pattern := range cfg.Tables.ExtraNonDomainPhrases {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("tables.extra_non_domain_phrases[%d]: invalid regex %q: %w", i, pattern, err)
		}
	}

	if err := validateCanonicalMap("tables.extra_equipment_aliases", cfg.Tables.ExtraEquipmentAliases); err != nil {
		return err
	}
	if err := validateCanonicalMap("tables.extra_canonical_forms", cfg.Tables.ExtraCanonicalForms); err != nil {
		return err
	}

	if cfg.API.MaxBatchSize < 0 {
		return fmt.Errorf("api.max_batch_size must be non-negative, got %d", cfg.API.MaxBatchSize)
	}

	if cfg.Diagnose.Endpoint != "" && !strings.HasPrefix(cfg.Diagnose.Endpoint, "http://") && !strings.HasPrefix(cfg.Diagnose.Endpoint, "https://") {
		return fmt.Errorf("diagnose.endpoint must be an http(s) URL, got %q", cfg.Diagnose.Endpoint)
	}

	return nil
}

func validateCanonicalMap(field string, m map[string]string) error {
	for alias, canonical := range m {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("%s: alias cannot be empty", field)
		}
		if strings.TrimSpace(canonical) == "" {
			return fmt.Errorf("%s[%q]: canonical identifier cannot be empty", field, alias)
		}
	}
	return nil
}

package service

import (
	"encoding/json"
	"fmt"

	"cadence/internal/config"
	"cadence/internal/domain"
)

// validateOpaqueMap bounds-checks a metadata/settings map. The maps are
// tenant-defined and type-erased: stored and returned as-is, validated
// only for key count, nesting depth, and encoded size, never read by
// business logic.
func validateOpaqueMap(field string, m map[string]interface{}) error {
	if m == nil {
		return nil
	}

	if len(m) > config.MaxMetadataKeys {
		return fmt.Errorf("%w: %s has %d top-level keys (max %d)",
			domain.ErrValidation, field, len(m), config.MaxMetadataKeys)
	}

	for key, value := range m {
		if depth := valueDepth(value); depth > config.MaxMetadataDepth {
			return fmt.Errorf("%w: %s.%s nests %d levels deep (max %d)",
				domain.ErrValidation, field, key, depth, config.MaxMetadataDepth)
		}
	}

	encoded, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %s is not JSON-encodable: %v", domain.ErrValidation, field, err)
	}
	if len(encoded) > config.MaxMetadataBytes {
		return fmt.Errorf("%w: %s encodes to %d bytes (max %d)",
			domain.ErrValidation, field, len(encoded), config.MaxMetadataBytes)
	}

	return nil
}

func valueDepth(v interface{}) int {
	switch val := v.(type) {
	case map[string]interface{}:
		max := 0
		for _, child := range val {
			if d := valueDepth(child); d > max {
				max = d
			}
		}
		return max + 1
	case []interface{}:
		max := 0
		for _, child := range val {
			if d := valueDepth(child); d > max {
				max = d
			}
		}
		return max + 1
	default:
		return 0
	}
}

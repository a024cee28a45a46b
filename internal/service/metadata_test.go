package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cadence/internal/config"
	"cadence/internal/domain"
)

func TestValidateOpaqueMap(t *testing.T) {
	wide := make(map[string]interface{}, config.MaxMetadataKeys+1)
	for i := 0; i <= config.MaxMetadataKeys; i++ {
		wide[fmt.Sprintf("k%d", i)] = i
	}

	// Nesting one level past the cap.
	deep := interface{}(1)
	for i := 0; i <= config.MaxMetadataDepth; i++ {
		deep = map[string]interface{}{"inner": deep}
	}

	tests := []struct {
		name    string
		m       map[string]interface{}
		wantErr bool
	}{
		{"nil map", nil, false},
		{"empty map", map[string]interface{}{}, false},
		{"flat values", map[string]interface{}{"color": "red", "weight": 3}, false},
		{"nested within cap", map[string]interface{}{"a": map[string]interface{}{"b": []interface{}{1, 2}}}, false},
		{"too many keys", wide, true},
		{"nested too deep", map[string]interface{}{"root": deep}, true},
		{"encodes too large", map[string]interface{}{"blob": strings.Repeat("x", config.MaxMetadataBytes)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOpaqueMap("metadata", tt.m)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("err = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValueDepth(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want int
	}{
		{"scalar", "x", 0},
		{"flat map", map[string]interface{}{"a": 1}, 1},
		{"flat slice", []interface{}{1, 2}, 1},
		{"map in slice in map", map[string]interface{}{"a": []interface{}{map[string]interface{}{"b": 1}}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valueDepth(tt.v); got != tt.want {
				t.Errorf("depth = %d, want %d", got, tt.want)
			}
		})
	}
}

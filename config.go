package strata

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// TableConfig is the wire representation of a breakpoint table, as decoded
// from a watched config source.
//
// Example (YAML):
//
//	breakpoints:
//	  narrow: 80
//	  medium: 100
//	  wide: 140
type TableConfig struct {
	// Breakpoints maps breakpoint names to the inclusive upper bound of
	// each breakpoint's width range.
	Breakpoints map[string]int `yaml:"breakpoints" json:"breakpoints" validate:"required,min=1,dive,min=0"`
}

// Validate checks the structural constraints on the config. Threshold
// uniqueness is enforced by Table construction, not here.
func (c TableConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("table config: %w", err)
	}
	return nil
}

// Table builds the immutable Table described by the config.
func (c TableConfig) Table() (Table, error) {
	return NewTable(c.Breakpoints)
}

package strata

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Value is a scalar that may vary by breakpoint. It is an explicit tagged
// variant: a Value is either a plain scalar or a responsive table with a
// mandatory default and optional per-breakpoint overrides. Use Scalar or
// Responsive to construct one; the zero Value is a scalar zero of T.
//
// Resolution follows a mobile-first cascade: an override at breakpoint X
// applies to X and every narrower breakpoint that has no more specific
// override. Overrides defined only for breakpoints wider than the current
// one never apply.
type Value[T any] struct {
	responsive bool
	scalar     T
	def        T
	overrides  map[string]T
}

// Scalar wraps a plain value. Resolution is a pass-through.
func Scalar[T any](v T) Value[T] {
	return Value[T]{scalar: v}
}

// Responsive builds a responsive value from a default and per-breakpoint
// overrides. Override keys that name no breakpoint in the active table are
// dead entries: never matched, never an error.
func Responsive[T any](def T, overrides map[string]T) Value[T] {
	copied := make(map[string]T, len(overrides))
	for name, v := range overrides {
		copied[name] = v
	}
	return Value[T]{responsive: true, def: def, overrides: copied}
}

// IsResponsive reports whether the value carries per-breakpoint overrides.
func (v Value[T]) IsResponsive() bool {
	return v.responsive
}

// Resolve computes the single applicable value for the snapshot's current
// breakpoint.
//
// Scalars resolve to themselves regardless of the snapshot. Responsive
// values scan from the current breakpoint's rank downward to rank zero and
// return the first override found, falling back to the default when no
// breakpoint at or below the current one has one. Resolving a responsive
// value against an invalid snapshot returns ErrNoSnapshot: that is a
// configuration error (resolution attempted outside a monitored scope),
// not a resolvable state.
func (v Value[T]) Resolve(snap Snapshot) (T, error) {
	if !v.responsive {
		return v.scalar, nil
	}

	var zero T
	if !snap.valid() {
		return zero, ErrNoSnapshot
	}

	order := snap.Order()
	rank, _ := snap.Rank(snap.Current())
	for i := rank; i >= 0; i-- {
		if val, ok := v.overrides[order[i]]; ok {
			return val, nil
		}
	}
	return v.def, nil
}

// defaultKey is the wire-format marker distinguishing a responsive mapping
// from a scalar. It only has meaning at the serialization boundary; the
// in-memory representation is statically tagged.
const defaultKey = "default"

// UnmarshalYAML decodes either form of the wire representation: a mapping
// node containing a "default" key becomes a responsive value whose
// remaining keys are breakpoint overrides; anything else decodes as a
// scalar of T.
//
// A legitimate scalar mapping that happens to contain a "default" key is
// indistinguishable on the wire and will decode as responsive; construct
// such values with Scalar instead of decoding them.
func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var entries map[string]yaml.Node
		if err := node.Decode(&entries); err != nil {
			return fmt.Errorf("decode responsive mapping: %w", err)
		}
		if _, ok := entries[defaultKey]; ok {
			out, err := decodeWith(entries, func(n yaml.Node, dst *T) error {
				return n.Decode(dst)
			})
			if err != nil {
				return err
			}
			*v = out
			return nil
		}
	}

	var scalar T
	if err := node.Decode(&scalar); err != nil {
		return fmt.Errorf("decode scalar: %w", err)
	}
	*v = Scalar(scalar)
	return nil
}

// UnmarshalJSON applies the same discrimination to JSON: an object with a
// "default" member is responsive, everything else is a scalar.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var entries map[string]json.RawMessage
	if json.Unmarshal(data, &entries) == nil && entries != nil {
		if _, ok := entries[defaultKey]; ok {
			out, err := decodeWith(entries, func(raw json.RawMessage, dst *T) error {
				return json.Unmarshal(raw, dst)
			})
			if err != nil {
				return err
			}
			*v = out
			return nil
		}
	}

	var scalar T
	if err := json.Unmarshal(data, &scalar); err != nil {
		return fmt.Errorf("decode scalar: %w", err)
	}
	*v = Scalar(scalar)
	return nil
}

// decodeWith builds the responsive variant from raw wire entries.
func decodeWith[T, R any](entries map[string]R, decode func(R, *T) error) (Value[T], error) {
	var def T
	overrides := make(map[string]T, len(entries)-1)
	for name, raw := range entries {
		var val T
		if err := decode(raw, &val); err != nil {
			return Value[T]{}, fmt.Errorf("entry %q: %w", name, err)
		}
		if name == defaultKey {
			def = val
			continue
		}
		overrides[name] = val
	}
	return Responsive(def, overrides), nil
}

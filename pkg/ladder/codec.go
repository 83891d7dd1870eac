package ladder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Keys of NodeData that the custom codec reads and writes itself.
const (
	keyVariant              = "variant"
	keyExecutionOrder       = "executionOrder"
	keyExecutionControl     = "executionControl"
	keyLockExecutionControl = "lockExecutionControl"
	keyConnectedVariables   = "connectedVariables"
)

// nodeDataFields is the plain shape of NodeData without the custom codec.
type nodeDataFields NodeData

// modeledKeys holds every JSON key NodeData decodes into a field.
var modeledKeys = func() map[string]bool {
	keys := map[string]bool{
		keyVariant:              true,
		keyExecutionOrder:       true,
		keyExecutionControl:     true,
		keyLockExecutionControl: true,
		keyConnectedVariables:   true,
	}
	t := reflect.TypeOf(nodeDataFields{})
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}()

// MarshalJSON writes the tagged fields, the variant in its kind-specific
// shape, the block fields for blocks, and any carried-over keys.
func (d NodeData) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(nodeDataFields(d))
	if err != nil {
		return nil, err
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if !modeledKeys[k] {
			out[k] = v
		}
	}

	put := map[string]any{}
	switch {
	case d.BlockVariant != nil:
		connected := d.ConnectedVariables
		if connected == nil {
			connected = map[string]ConnectedVariable{}
		}
		put[keyVariant] = d.BlockVariant
		put[keyExecutionOrder] = d.ExecutionOrder
		put[keyExecutionControl] = d.ExecutionControl
		put[keyLockExecutionControl] = d.LockExecutionControl
		put[keyConnectedVariables] = connected
	case d.Variant != "":
		put[keyVariant] = d.Variant
	}
	for k, v := range put {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a variant name or a block type definition from
// "variant" and keeps unmodeled keys in Extra.
func (d *NodeData) UnmarshalJSON(b []byte) error {
	var fields nodeDataFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	*d = NodeData(fields)

	if raw, ok := all[keyVariant]; ok {
		switch v := bytes.TrimSpace(raw); {
		case len(v) == 0 || bytes.Equal(v, []byte("null")):
		case v[0] == '"':
			if err := json.Unmarshal(v, &d.Variant); err != nil {
				return fmt.Errorf("%s: %w", keyVariant, err)
			}
		case v[0] == '{':
			d.BlockVariant = new(BlockVariant)
			if err := json.Unmarshal(v, d.BlockVariant); err != nil {
				return fmt.Errorf("%s: %w", keyVariant, err)
			}
		default:
			return fmt.Errorf("%s: want a name or a block type, got %s", keyVariant, v)
		}
	}

	targets := map[string]any{
		keyExecutionOrder:       &d.ExecutionOrder,
		keyExecutionControl:     &d.ExecutionControl,
		keyLockExecutionControl: &d.LockExecutionControl,
		keyConnectedVariables:   &d.ConnectedVariables,
	}
	for k, target := range targets {
		if raw, ok := all[k]; ok {
			if err := json.Unmarshal(raw, target); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	}

	for k, v := range all {
		if modeledKeys[k] {
			continue
		}
		if d.Extra == nil {
			d.Extra = map[string]json.RawMessage{}
		}
		d.Extra[k] = v
	}
	return nil
}

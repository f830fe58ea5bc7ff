// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"gopkg.in/yaml.v3"
)

// Properties is an insertion-ordered string-keyed mapping. Values are
// scalars, []any, or nested *Properties. Both the JSON and YAML encodings
// preserve key order, which keeps rendered output stable across runs.
type Properties struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewProperties returns an empty Properties.
func NewProperties() *Properties {
	return &Properties{om: orderedmap.NewOrderedMap[string, any]()}
}

// Set stores a value under key, appending the key on first use.
func (p *Properties) Set(key string, value any) {
	p.om.Set(key, value)
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (any, bool) {
	return p.om.Get(key)
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	return p.om.Keys()
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	return p.om.Len()
}

// Equal reports whether two Properties hold the same keys, in the same
// order, with deeply equal values.
func (p *Properties) Equal(other *Properties) bool {
	if p == nil || other == nil {
		return p == other
	}
	a, err := p.MarshalJSON()
	if err != nil {
		return false
	}
	b, err := other.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

var _ json.Marshaler = (*Properties)(nil)
var _ json.Unmarshaler = (*Properties)(nil)
var _ yaml.Marshaler = (*Properties)(nil)
var _ yaml.Unmarshaler = (*Properties)(nil)

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for el := p.om.Front(); el != nil; el = el.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(el.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(el.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving source key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	om, err := decodeOrderedObject(dec)
	if err != nil {
		return err
	}
	p.om = om.om
	return nil
}

// MarshalYAML implements yaml.Marshaler as an ordered mapping node.
func (p *Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for el := p.om.Front(); el != nil; el = el.Next() {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(el.Key); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(el.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, preserving source key order.
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("normalize: expected mapping, got yaml kind %d", value.Kind)
	}
	props := NewProperties()
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("normalize: decoding mapping key: %w", err)
		}
		val, err := decodeYAMLValue(value.Content[i+1])
		if err != nil {
			return err
		}
		props.Set(key, val)
	}
	p.om = props.om
	return nil
}

func decodeYAMLValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		nested := NewProperties()
		if err := nested.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return nested, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := decodeYAMLValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("normalize: decoding scalar: %w", err)
		}
		return v, nil
	}
}

// DecodeOrdered parses a JSON object into Properties, retaining the key
// order of the source document. Numbers decode as json.Number so that
// round-tripping does not reformat them.
func DecodeOrdered(data []byte) (*Properties, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeOrderedObject(dec)
}

func decodeOrderedObject(dec *json.Decoder) (*Properties, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("normalize: reading object start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("normalize: expected object, got %v", tok)
	}
	props := NewProperties()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("normalize: reading object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("normalize: expected string key, got %v", keyTok)
		}
		val, err := decodeOrderedValue(dec)
		if err != nil {
			return nil, err
		}
		props.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, fmt.Errorf("normalize: reading object end: %w", err)
	}
	return props, nil
}

func decodeOrderedValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("normalize: reading value: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			props := NewProperties()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("normalize: expected string key, got %v", keyTok)
				}
				val, err := decodeOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				props.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return props, nil
		case '[':
			var items []any
			for dec.More() {
				val, err := decodeOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("normalize: unexpected delimiter %v", t)
		}
	default:
		return tok, nil
	}
}

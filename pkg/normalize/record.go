// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package normalize

import (
	"github.com/Azure/azresourcedocs/pkg/azure"
)

// UnknownValue is the explicit marker for fields a payload did not supply.
// It is rendered verbatim so documentation gaps stay visible.
const UnknownValue = "unknown"

// ResourceRecord is the canonical, normalized representation of a resource.
// Records are created once per run and never mutated.
type ResourceRecord struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Type           string            `json:"type" yaml:"type"`
	SubscriptionID string            `json:"subscription_id" yaml:"subscription_id"`
	ResourceGroup  string            `json:"resource_group" yaml:"resource_group"`
	Location       string            `json:"location" yaml:"location"`
	Tags           map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Properties     *Properties       `json:"properties" yaml:"properties"`
	SchemaVersion  string            `json:"raw_schema_version" yaml:"raw_schema_version"`
}

// Normalizer converts raw payloads to records using a rule registry.
type Normalizer struct {
	registry *Registry
}

// New creates a Normalizer. A nil registry selects the embedded defaults.
func New(registry *Registry) *Normalizer {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Normalizer{registry: registry}
}

// Record normalizes one raw resource. It is a pure function of its input:
// no I/O, and it never fails. A malformed payload yields a record whose
// rule fields are all UnknownValue (or, for unregistered types, an empty
// property set).
func (n *Normalizer) Record(raw azure.RawResource) ResourceRecord {
	rec := ResourceRecord{
		ID:             raw.ID,
		Name:           raw.Name,
		Type:           raw.Type,
		SubscriptionID: raw.SubscriptionID,
		ResourceGroup:  raw.ResourceGroup,
		Location:       orUnknown(raw.Location),
		Tags:           raw.Tags,
		SchemaVersion:  orUnknown(raw.APIVersion),
	}

	var payload *Properties
	if len(raw.Payload) > 0 {
		if p, err := DecodeOrdered(raw.Payload); err == nil {
			payload = p
		}
	}

	if rule, ok := n.registry.Rule(raw.Type); ok {
		rec.Properties = extract(payload, rule)
		return rec
	}
	rec.Properties = flatten(payload)
	return rec
}

// Records normalizes a batch, preserving input order.
func (n *Normalizer) Records(raw []azure.RawResource) []ResourceRecord {
	out := make([]ResourceRecord, len(raw))
	for i, r := range raw {
		out[i] = n.Record(r)
	}
	return out
}

// extract keeps the rule's fields, in rule order, substituting UnknownValue
// for anything the payload is missing.
func extract(payload *Properties, rule Rule) *Properties {
	props := NewProperties()
	for _, field := range rule.Fields {
		if payload != nil {
			if v, ok := payload.Get(field); ok && v != nil {
				props.Set(field, v)
				continue
			}
		}
		props.Set(field, UnknownValue)
	}
	return props
}

// flatten is the generic fallback: every top-level payload field is copied
// in source order, with one level of nested objects promoted to dotted keys.
// Deeper nesting is carried through unmodified.
func flatten(payload *Properties) *Properties {
	props := NewProperties()
	if payload == nil {
		return props
	}
	for _, key := range payload.Keys() {
		v, _ := payload.Get(key)
		nested, ok := v.(*Properties)
		if !ok || nested.Len() == 0 {
			props.Set(key, v)
			continue
		}
		for _, inner := range nested.Keys() {
			iv, _ := nested.Get(inner)
			props.Set(key+"."+inner, iv)
		}
	}
	return props
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}

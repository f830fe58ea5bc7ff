// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package normalize converts raw provider resource payloads into canonical,
// type-tagged ResourceRecords.
//
// Known resource types are normalized through extraction rules: an ordered
// list of payload fields per type, loaded from YAML configuration rather
// than hard-coded, so new types need no code change. Types without a rule
// fall back to a generic handler that copies every top-level payload field,
// flattening one level of nesting and preserving source key order.
//
// Normalization is pure: it never performs I/O and it never fails a
// resource. Malformed or partial payloads degrade to records whose missing
// fields carry the explicit UnknownValue marker.
package normalize

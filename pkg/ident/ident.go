// Package ident computes stable identifiers for objects in the workflow graph.
//
// Identifiers come in two flavors:
//   - Path-based: a qualified name built from the object's ownership chain
//     (project → sample → file). Two objects with the same bare name but
//     different owners never collide.
//   - Content-based: a SHA-256 digest of normalized content, used to
//     deduplicate environments and detect file changes across machines.
//
// All functions are pure: identical logical content yields identical
// identifiers across repeated calls, process restarts, and hosts. Nothing
// here depends on memory addresses, map iteration order, or wall-clock time.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vinisalazar/bioprov/pkg/errors"
)

// Separator joins the segments of a qualified identifier.
const Separator = "/"

// Namespace kinds used by the model when composing identifiers.
// They mirror the namespaces of the exported provenance document.
const (
	KindProject     = "project"
	KindSample      = "samples"
	KindFile        = "files"
	KindActivity    = "activities"
	KindUser        = "users"
	KindEnvironment = "envs"
)

// Segment formats one identifier segment as "kind:name".
// Returns ErrCodeMissingIdentityField if either component is empty: hashing
// an empty value would silently collapse distinct objects onto one identity.
func Segment(kind, name string) (string, error) {
	if kind == "" || name == "" {
		return "", errors.New(errors.ErrCodeMissingIdentityField,
			"identifier segment needs kind and name, got kind=%q name=%q", kind, name)
	}
	return kind + ":" + name, nil
}

// Qualified joins identifier segments into a full ownership path, e.g.
// "project:P/samples:s1/files:genome". Every segment must be non-empty.
func Qualified(segments ...string) (string, error) {
	if len(segments) == 0 {
		return "", errors.New(errors.ErrCodeMissingIdentityField, "empty identifier path")
	}
	for i, s := range segments {
		if s == "" {
			return "", errors.New(errors.ErrCodeMissingIdentityField,
				"identifier segment %d is empty", i)
		}
	}
	return strings.Join(segments, Separator), nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashMap computes a content hash over a string map in key-sorted order.
// The encoding is canonical (length-prefixed key/value pairs), so two maps
// with equal contents always hash identically regardless of insertion order.
func HashMap(m map[string]string) string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(&b, "%d:%s=%d:%s;", len(k), k, len(m[k]), m[k])
	}
	return Hash([]byte(b.String()))
}

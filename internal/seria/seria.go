// Package seria implements the tagged tree codec.
//
// Serialize turns a value into an *ir.Node tree whose JSON form is
// ["$tag", payload]. Deserialize is its inverse. Shared and cyclic
// references are encoded once; later occurrences become ["$ref", path]
// nodes that point at the first visit.
//
// Paths start at "#" and grow by one segment per structural slot:
//
//	/$arr[i]             array element
//	/$obj[i,0] /$obj[i,1] object key and value (also error props and class fields)
//	/$set[i]             set element
//	/$map[i,0] /$map[i,1] map key and value
//	/cause               error cause
//
// Stringify and Parse frame the tree as JSON text; Marshal and Unmarshal
// also support YAML and CBOR.
package seria

import (
	"fmt"
	"log/slog"

	"github.com/roach88/jsonx/internal/registry"
)

// RootPath is the path of the top-level value.
const RootPath = "#"

// Codec serializes and deserializes values against a set of registries.
// A Codec holds no per-call state and is safe for concurrent use.
type Codec struct {
	reg    *registry.Registries
	logger *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Codec. A nil reg gets fresh empty registries.
func New(reg *registry.Registries, opts ...Option) *Codec {
	if reg == nil {
		reg = registry.New()
	}
	c := &Codec{reg: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registries returns the registries the codec resolves identifiers with.
func (c *Codec) Registries() *registry.Registries {
	return c.reg
}

func arrayIndex(i int) string  { return fmt.Sprintf("$arr[%d]", i) }
func setIndex(i int) string    { return fmt.Sprintf("$set[%d]", i) }
func objectKey(i int) string   { return fmt.Sprintf("$obj[%d,0]", i) }
func objectValue(i int) string { return fmt.Sprintf("$obj[%d,1]", i) }
func mapKey(i int) string      { return fmt.Sprintf("$map[%d,0]", i) }
func mapValue(i int) string    { return fmt.Sprintf("$map[%d,1]", i) }

func join(path, segment string) string {
	return path + "/" + segment
}

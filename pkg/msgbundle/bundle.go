// Package msgbundle resolves message keys against an ordered chain of
// sources, echoing the key back when nothing matches.
package msgbundle

import (
	"fmt"
	"slices"
)

// MessageBundle resolves keys against an ordered list of sources.
// A bundle is immutable and safe for concurrent use.
type MessageBundle struct {
	sources []MessageSource
}

// Lookup returns the message for key from the first source that has it.
// If no source does, key itself is returned.
func (b *MessageBundle) Lookup(key string) string {
	for _, s := range b.sources {
		if msg, ok := s.Lookup(key); ok {
			return msg
		}
	}
	return key
}

// Len returns the number of sources in the bundle.
func (b *MessageBundle) Len() int { return len(b.sources) }

// Builder accumulates sources for a MessageBundle. It is not safe for
// concurrent use.
type Builder struct {
	sources []MessageSource
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderFrom returns a Builder holding the sources of b, in order, so that
// b can be extended without being modified.
func NewBuilderFrom(b *MessageBundle) *Builder {
	if b == nil {
		panic(fmt.Errorf("%w: nil bundle", ErrInvalidArgument))
	}
	return &Builder{sources: slices.Clone(b.sources)}
}

// AddSource appends s with the lowest priority so far.
func (b *Builder) AddSource(s MessageSource) *Builder {
	if s == nil {
		panic(fmt.Errorf("%w: nil message source", ErrInvalidArgument))
	}
	b.sources = append(b.sources, s)
	return b
}

// Build returns a bundle over a snapshot of the current sources.
func (b *Builder) Build() *MessageBundle {
	return &MessageBundle{sources: slices.Clone(b.sources)}
}

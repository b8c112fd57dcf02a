package store

import (
	"fmt"

	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/seria"
)

// marshalValue serializes v and frames the tree for storage.
func (s *Store) marshalValue(v any) ([]byte, error) {
	data, err := s.codec.Marshal(v, s.frame)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return data, nil
}

// unmarshalTree parses a stored tree with the frame it was written in.
func unmarshalTree(data []byte, frame string) (*ir.Node, error) {
	f, err := seria.ParseFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}
	n, err := seria.UnmarshalNode(data, f)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}
	return n, nil
}

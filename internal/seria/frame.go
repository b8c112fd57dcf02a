package seria

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jsonx/internal/ir"
)

// Frame names a text or binary framing of the tagged tree.
type Frame string

const (
	FrameJSON Frame = "json"
	FrameYAML Frame = "yaml"
	FrameCBOR Frame = "cbor"
)

// ParseFrame parses a frame name. The empty string selects JSON.
func ParseFrame(s string) (Frame, error) {
	switch Frame(strings.ToLower(s)) {
	case "", FrameJSON:
		return FrameJSON, nil
	case FrameYAML, "yml":
		return FrameYAML, nil
	case FrameCBOR:
		return FrameCBOR, nil
	}
	return "", fmt.Errorf("unknown frame %q (want json, yaml or cbor)", s)
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("seria: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("seria: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// Stringify serializes v and frames the tree as JSON text.
func (c *Codec) Stringify(v any) (string, error) {
	data, err := c.Marshal(v, FrameJSON)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse unframes JSON text and deserializes the tree.
func (c *Codec) Parse(text string) (any, error) {
	return c.Unmarshal([]byte(text), FrameJSON)
}

// Marshal serializes v and frames the tree.
func (c *Codec) Marshal(v any, frame Frame) ([]byte, error) {
	n, err := c.Serialize(v)
	if err != nil {
		return nil, err
	}
	return MarshalNode(n, frame)
}

// Unmarshal unframes data and deserializes the tree.
func (c *Codec) Unmarshal(data []byte, frame Frame) (any, error) {
	n, err := UnmarshalNode(data, frame)
	if err != nil {
		return nil, err
	}
	return c.Deserialize(n)
}

// MarshalNode frames a tree.
func MarshalNode(n *ir.Node, frame Frame) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch frame {
	case FrameJSON, "":
		data, err = n.MarshalJSON()
	case FrameYAML:
		data, err = yaml.Marshal(n.ToTree())
	case FrameCBOR:
		data, err = cborEncMode.Marshal(n.ToTree())
	default:
		err = fmt.Errorf("unknown frame %q", frame)
	}
	if err != nil {
		return nil, &FrameError{Frame: frame, Err: err}
	}
	return data, nil
}

// UnmarshalNode parses a framed tree.
func UnmarshalNode(data []byte, frame Frame) (*ir.Node, error) {
	var (
		raw any
		err error
	)
	switch frame {
	case FrameJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&raw)
		if err == nil && dec.More() {
			err = fmt.Errorf("trailing data after tree")
		}
	case FrameYAML:
		err = yaml.Unmarshal(data, &raw)
	case FrameCBOR:
		err = cborDecMode.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unknown frame %q", frame)
	}
	if err != nil {
		return nil, &FrameError{Frame: frame, Err: err}
	}
	n, err := ir.FromTree(raw)
	if err != nil {
		return nil, &FrameError{Frame: frame, Err: err}
	}
	return n, nil
}

package geometry

import (
	"encoding/json"
	"fmt"
)

// Mesh is the generic hierarchical mesh attached to a model: a node
// tree over a flat element list, plus opaque display metadata.
type Mesh struct {
	Elements []Element       `json:"elements,omitempty"`
	Nodes    []*Node         `json:"nodes,omitempty"`
	Display  json.RawMessage `json:"display,omitempty"`
}

// Node is one group in the hierarchy. Children are either nested nodes
// or indices into the mesh's element list.
type Node struct {
	Name     string    `json:"name"`
	Origin   []float64 `json:"origin,omitempty"`
	Rotation []float64 `json:"rotation,omitempty"`
	Children []Child   `json:"children,omitempty"`
}

// Child is a tagged reference: exactly one of Node or Element is set.
// Element is an index into the flat element list; -1 means unset.
type Child struct {
	Node    *Node
	Element int
}

func (c Child) MarshalJSON() ([]byte, error) {
	if c.Node != nil {
		return json.Marshal(c.Node)
	}
	return json.Marshal(c.Element)
}

func (c *Child) UnmarshalJSON(data []byte) error {
	c.Element = -1

	var index int
	if err := json.Unmarshal(data, &index); err == nil {
		c.Element = index
		return nil
	}

	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("child is neither an element index nor a node: %w", err)
	}
	c.Node = &node
	return nil
}

type ElementRotation struct {
	Angle  float64   `json:"angle"`
	Axis   string    `json:"axis"`
	Origin []float64 `json:"origin,omitempty"`
}

// Face holds one UV rectangle as (x0, y0, x1, y1) plus an optional
// texture index.
type Face struct {
	UV       []float64 `json:"uv,omitempty"`
	Texture  *int      `json:"texture,omitempty"`
	Rotation int       `json:"rotation,omitempty"`
}

type Element struct {
	Name     string           `json:"name,omitempty"`
	From     []float64        `json:"from"`
	To       []float64        `json:"to"`
	Rotation *ElementRotation `json:"rotation,omitempty"`
	Inflate  *float64         `json:"inflate,omitempty"`
	Faces    map[string]Face  `json:"faces,omitempty"`
}

// Bedrock-side shapes.

type FaceUV struct {
	UV      []float64 `json:"uv"`
	UVSize  []float64 `json:"uv_size"`
	Texture *int      `json:"texture,omitempty"`
}

type Cube struct {
	Origin   []float64         `json:"origin"`
	Size     []float64         `json:"size"`
	Pivot    []float64         `json:"pivot,omitempty"`
	Rotation []float64         `json:"rotation,omitempty"`
	Inflate  *float64          `json:"inflate,omitempty"`
	UV       map[string]FaceUV `json:"uv,omitempty"`
}

type Bone struct {
	Name     string    `json:"name"`
	Parent   string    `json:"parent,omitempty"`
	Pivot    []float64 `json:"pivot"`
	Rotation []float64 `json:"rotation,omitempty"`
	Cubes    []Cube    `json:"cubes,omitempty"`
}

type Description struct {
	Identifier          string  `json:"identifier"`
	TextureWidth        int     `json:"texture_width,omitempty"`
	TextureHeight       int     `json:"texture_height,omitempty"`
	VisibleBoundsWidth  float64 `json:"visible_bounds_width,omitempty"`
	VisibleBoundsHeight float64 `json:"visible_bounds_height,omitempty"`
}

type Geometry struct {
	Description Description `json:"description"`
	Bones       []Bone      `json:"bones,omitempty"`
}

// Document is the on-disk geometry file shape.
type Document struct {
	FormatVersion string     `json:"format_version"`
	Geometries    []Geometry `json:"minecraft:geometry"`
}

const FORMAT_VERSION = "1.12.0"

package geometry

import (
	"fmt"
)

// vec3 pads or truncates to exactly three components; missing values
// default to zero rather than failing.
func vec3(values []float64) []float64 {
	out := []float64{0, 0, 0}
	for i := 0; i < len(values) && i < 3; i++ {
		out[i] = values[i]
	}
	return out
}

func convertFace(face Face) FaceUV {
	uv := make([]float64, 4)
	for i := 0; i < len(face.UV) && i < 4; i++ {
		uv[i] = face.UV[i]
	}

	return FaceUV{
		UV:      []float64{uv[0], uv[1]},
		UVSize:  []float64{uv[2] - uv[0], uv[3] - uv[1]},
		Texture: face.Texture,
	}
}

func convertElement(element Element) Cube {
	from := vec3(element.From)
	to := vec3(element.To)

	cube := Cube{
		Origin: from,
		Size: []float64{
			to[0] - from[0],
			to[1] - from[1],
			to[2] - from[2],
		},
		Inflate: element.Inflate,
	}

	// Rotation and pivot only carry over when the element defines a
	// rotation at all.
	if element.Rotation != nil {
		angles := []float64{0, 0, 0}
		switch element.Rotation.Axis {
		case "x":
			angles[0] = element.Rotation.Angle
		case "y":
			angles[1] = element.Rotation.Angle
		case "z":
			angles[2] = element.Rotation.Angle
		}
		cube.Rotation = angles
		cube.Pivot = vec3(element.Rotation.Origin)
	}

	if len(element.Faces) > 0 {
		cube.UV = make(map[string]FaceUV)
		for side, face := range element.Faces {
			cube.UV[side] = convertFace(face)
		}
	}

	return cube
}

func convertNode(mesh *Mesh, node *Node, parent string, bones *[]Bone) error {
	bone := Bone{
		Name:   node.Name,
		Parent: parent,
		Pivot:  vec3(node.Origin),
	}

	if len(node.Rotation) > 0 {
		bone.Rotation = vec3(node.Rotation)
	}

	children := make([]*Node, 0)
	for _, child := range node.Children {
		if child.Node != nil {
			children = append(children, child.Node)
			continue
		}

		if child.Element < 0 || child.Element >= len(mesh.Elements) {
			return fmt.Errorf(
				"node %s references element %d of %d",
				node.Name,
				child.Element,
				len(mesh.Elements),
			)
		}

		bone.Cubes = append(bone.Cubes, convertElement(mesh.Elements[child.Element]))
	}

	*bones = append(*bones, bone)

	for _, child := range children {
		if err := convertNode(mesh, child, node.Name, bones); err != nil {
			return err
		}
	}

	return nil
}

// Convert walks the node tree and produces the bone/cube geometry for
// one model. A structural failure aborts only this conversion; callers
// treat the model as having no geometry and continue.
func Convert(identifier string, mesh *Mesh, textureWidth int, textureHeight int) (*Geometry, error) {
	if mesh == nil {
		return nil, fmt.Errorf("model has no mesh")
	}

	geometry := Geometry{
		Description: Description{
			Identifier:    fmt.Sprintf("geometry.%s", identifier),
			TextureWidth:  textureWidth,
			TextureHeight: textureHeight,
		},
	}

	bones := make([]Bone, 0)

	if len(mesh.Nodes) == 0 && len(mesh.Elements) > 0 {
		// A flat element list with no hierarchy becomes a single root
		// bone holding every cube.
		root := Bone{
			Name:  "root",
			Pivot: []float64{0, 0, 0},
		}
		for _, element := range mesh.Elements {
			root.Cubes = append(root.Cubes, convertElement(element))
		}
		bones = append(bones, root)
	}

	for _, node := range mesh.Nodes {
		if err := convertNode(mesh, node, "", &bones); err != nil {
			return nil, err
		}
	}

	geometry.Bones = bones
	return &geometry, nil
}

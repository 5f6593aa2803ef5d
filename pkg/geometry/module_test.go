package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertElement(t *testing.T) {
	element := Element{
		From: []float64{1, 2, 3},
		To:   []float64{5, 7, 9},
		Faces: map[string]Face{
			"north": {UV: []float64{0, 0, 4, 5}},
		},
	}

	cube := convertElement(element)
	require.Equal(t, []float64{1, 2, 3}, cube.Origin)
	require.Equal(t, []float64{4, 5, 6}, cube.Size)
	require.Nil(t, cube.Rotation)
	require.Nil(t, cube.Pivot)

	face := cube.UV["north"]
	require.Equal(t, []float64{0, 0}, face.UV)
	require.Equal(t, []float64{4, 5}, face.UVSize)
}

func TestConvertElementRotation(t *testing.T) {
	element := Element{
		From: []float64{0, 0, 0},
		To:   []float64{1, 1, 1},
		Rotation: &ElementRotation{
			Angle:  45,
			Axis:   "y",
			Origin: []float64{8, 8, 8},
		},
	}

	cube := convertElement(element)
	require.Equal(t, []float64{0, 45, 0}, cube.Rotation)
	require.Equal(t, []float64{8, 8, 8}, cube.Pivot)
}

func TestConvertFlatElements(t *testing.T) {
	mesh := &Mesh{
		Elements: []Element{
			{From: []float64{0, 0, 0}, To: []float64{1, 1, 1}},
			{From: []float64{2, 2, 2}, To: []float64{4, 4, 4}},
		},
	}

	geometry, err := Convert("ruby", mesh, 16, 16)
	require.NoError(t, err)
	require.Equal(t, "geometry.ruby", geometry.Description.Identifier)
	require.Equal(t, 16, geometry.Description.TextureWidth)

	// No hierarchy collapses into a single root bone.
	require.Len(t, geometry.Bones, 1)
	require.Equal(t, "root", geometry.Bones[0].Name)
	require.Len(t, geometry.Bones[0].Cubes, 2)
}

func TestConvertNodes(t *testing.T) {
	mesh := &Mesh{
		Elements: []Element{
			{From: []float64{0, 0, 0}, To: []float64{1, 1, 1}},
		},
		Nodes: []*Node{
			{
				Name:   "body",
				Origin: []float64{0, 8, 0},
				Children: []Child{
					{Element: 0},
					{Node: &Node{
						Name:     "arm",
						Rotation: []float64{0, 0, 90},
					}},
				},
			},
		},
	}

	geometry, err := Convert("golem", mesh, 32, 32)
	require.NoError(t, err)
	require.Len(t, geometry.Bones, 2)

	body := geometry.Bones[0]
	require.Equal(t, "body", body.Name)
	require.Equal(t, "", body.Parent)
	require.Equal(t, []float64{0, 8, 0}, body.Pivot)
	require.Len(t, body.Cubes, 1)

	arm := geometry.Bones[1]
	require.Equal(t, "arm", arm.Name)
	require.Equal(t, "body", arm.Parent)
	require.Equal(t, []float64{0, 0, 90}, arm.Rotation)
}

func TestConvertBadElementIndex(t *testing.T) {
	mesh := &Mesh{
		Nodes: []*Node{
			{
				Name:     "body",
				Children: []Child{{Element: 3}},
			},
		},
	}

	_, err := Convert("broken", mesh, 16, 16)
	require.Error(t, err)
}

func TestConvertNilMesh(t *testing.T) {
	_, err := Convert("empty", nil, 16, 16)
	require.Error(t, err)
}

// Package mesh decodes model vertex and face buffers and exports them as
// Wavefront OBJ with bone sidecar files.
package mesh

// Vertex is a decoded vertex position with its texture coordinate.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
}

// Face is one triangle as three vertex indices into its submesh.
type Face [3]uint32

// BoneMatrix is a 4×4 bone transform, stored as 16 floats.
type BoneMatrix [16]float32

// Layout selects a vertex record layout.
type Layout uint32

const (
	// LayoutWeightUV is position, bone weights and indices, then UV (24 bytes).
	LayoutWeightUV Layout = 0
	// LayoutWeightTangentUV adds an 8-byte tangent before the UV (32 bytes).
	LayoutWeightTangentUV Layout = 1
)

type vertexWeightUV struct {
	X, Y, Z float32
	Weights [4]uint8
	Indices [4]uint8
	U, V    uint16
}

type vertexWeightTangentUV struct {
	X, Y, Z float32
	Weights [4]uint8
	Indices [4]uint8
	Tangent [2]uint32
	U, V    uint16
}

// Submesh is one object of a model: its own vertices and faces plus the
// file name of the texture it is drawn with.
type Submesh struct {
	Vertices []Vertex
	Faces    []Face
	Texture  string
}

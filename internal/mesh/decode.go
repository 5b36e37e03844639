package mesh

import (
	"wfextract/internal/container"
)

const (
	weightUVSize        = 24
	weightTangentUVSize = 32
	faceSize            = 12
	boneMatrixSize      = 64
)

// DecodeVertices reads count vertices of the given layout starting at off.
func DecodeVertices(buf *container.Buffer, off int64, count uint32, layout Layout) ([]Vertex, error) {
	var stride int64
	switch layout {
	case LayoutWeightUV:
		stride = weightUVSize
	case LayoutWeightTangentUV:
		stride = weightTangentUVSize
	default:
		return nil, buf.Fail(container.ErrUnknownRecordType, off, "vertices", nil).WithTag(uint32(layout))
	}
	if err := buf.Check(off, int64(count)*stride, "vertices"); err != nil {
		return nil, err
	}

	out := make([]Vertex, count)
	if layout == LayoutWeightUV {
		raw := make([]vertexWeightUV, count)
		if err := buf.Read(off, "vertices", raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = Vertex{X: v.X, Y: v.Y, Z: v.Z, U: HalfToFloat32(v.U), V: HalfToFloat32(v.V)}
		}
		return out, nil
	}

	raw := make([]vertexWeightTangentUV, count)
	if err := buf.Read(off, "vertices", raw); err != nil {
		return nil, err
	}
	for i, v := range raw {
		out[i] = Vertex{X: v.X, Y: v.Y, Z: v.Z, U: HalfToFloat32(v.U), V: HalfToFloat32(v.V)}
	}
	return out, nil
}

// DecodeFaces reads numIndices/3 triangles starting at off.
func DecodeFaces(buf *container.Buffer, off int64, numIndices uint32) ([]Face, error) {
	n := int64(numIndices / 3)
	if err := buf.Check(off, n*faceSize, "faces"); err != nil {
		return nil, err
	}
	out := make([]Face, n)
	if err := buf.Read(off, "faces", out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBones reads count bone matrices starting at off.
func DecodeBones(buf *container.Buffer, off int64, count uint32) ([]BoneMatrix, error) {
	if err := buf.Check(off, int64(count)*boneMatrixSize, "bones"); err != nil {
		return nil, err
	}
	out := make([]BoneMatrix, count)
	if err := buf.Read(off, "bones", out); err != nil {
		return nil, err
	}
	return out, nil
}

package fixture

// Node type tags.
const (
	NodeRoot       = 0x0
	NodeTexture    = 0x1
	NodeVertices   = 0x2
	NodeFaces      = 0x3
	NodeObjTexture = 0x4
	NodeGroup      = 0x5
	NodeObjMap     = 0x6
	NodeBoneName   = 0x8
	NodeBones      = 0x9
	NodeCollision  = 0xA
	NodeObjData    = 0xB
)

// RootOffset is where the root node of a model starts.
const RootOffset = 16

// Model builds a node-tree model container. The root node is written first;
// data blobs and further nodes are appended in call order.
type Model struct {
	w writer
}

// NewModel writes the signature and an empty root node.
func NewModel() *Model {
	m := &Model{}
	m.w.write(le([4]byte{'W', 'F', 'S', 'N'}, [3]uint32{}))
	m.w.write(le(uint32(NodeRoot), uint32(0), uint64(0)))
	return m
}

// Data appends a data header followed by b and returns the header offset
// and the data size, as stored in node payloads.
func (m *Model) Data(b []byte) (off, size uint32) {
	m.w.align(4)
	at := m.w.write(le(uint32(0xffffff00), uint32(len(b))))
	m.w.write(b)
	return uint32(at), uint32(len(b))
}

// String appends a NUL-terminated string as a data blob.
func (m *Model) String(s string) (off, size uint32) {
	return m.Data(append([]byte(s), 0))
}

// Node appends a node with the given payload and returns its offset.
func (m *Model) Node(typ uint32, payload []byte) uint64 {
	m.w.align(8)
	at := m.w.write(le(typ, uint32(0), uint64(0)))
	m.w.write(payload)
	return uint64(at)
}

// Children writes the child list of parent.
func (m *Model) Children(parent uint64, kids ...uint64) {
	m.w.align(8)
	list := m.w.pos()
	for _, k := range kids {
		m.w.write(le(k))
	}
	m.w.put32(int(parent)+4, uint32(len(kids)))
	m.w.put64(int(parent)+8, uint64(list))
}

// Bytes returns the container.
func (m *Model) Bytes() []byte { return m.w.buf }

// TexturePayload describes a texture node.
func TexturePayload(w, h, tag uint32, hash uint64, dataOff, nameOff uint32) []byte {
	return le(w, h, uint32(0), tag, hash, dataOff, uint32(0), nameOff)
}

// VertexPayload describes a vertex buffer node.
func VertexPayload(count, layout uint32, hash uint64, off, size uint32) []byte {
	return le(count, layout, hash, off, size)
}

// FacePayload describes a face buffer node.
func FacePayload(numIndices uint32, hash uint64, off, size uint32) []byte {
	return le(numIndices, uint32(2), hash, off, size)
}

// ObjTexturePayload binds an object hash to a texture hash.
func ObjTexturePayload(objHash, texHash uint64) []byte {
	return le(objHash, texHash, [3]uint64{})
}

// ObjMapPayload binds an object hash to vertex and face buffers.
func ObjMapPayload(objHash, vertHash, faceHash uint64) []byte {
	return le(uint64(0), objHash, vertHash, faceHash, [6]float32{})
}

// BonesPayload describes a bone matrix array.
func BonesPayload(count, off, size uint32) []byte {
	return le(uint32(0), count, off, size)
}

// BoneNamePayload points at a bone name string.
func BoneNamePayload(off, size uint32) []byte {
	return le(uint32(0), uint32(0xffffffff), [4]uint32{}, uint32(0), uint32(0), off, size)
}

// CollisionPayload points at a collision name string.
func CollisionPayload(off, size uint32) []byte {
	return le([2]uint32{}, off, size)
}

// ObjDataPayload points at an object data name string.
func ObjDataPayload(off, size uint32) []byte {
	return le(uint32(0), uint32(0), [2]uint32{}, [2]uint32{}, off, size)
}

// Vertex is one mesh vertex; U and V are binary16 bit patterns.
type Vertex struct {
	X, Y, Z float32
	U, V    uint16
}

// VertexData packs vertices in layout 0 (24 bytes) or layout 1 (32 bytes, with tangent).
func VertexData(layout uint32, verts []Vertex) []byte {
	var out []byte
	for _, v := range verts {
		out = append(out, le(v.X, v.Y, v.Z, [4]uint8{255}, [4]uint8{})...)
		if layout == 1 {
			out = append(out, le([2]uint32{})...)
		}
		out = append(out, le(v.U, v.V)...)
	}
	return out
}

// FaceData packs triangles as three u32 indices each.
func FaceData(faces [][3]uint32) []byte {
	var out []byte
	for _, f := range faces {
		out = append(out, le(f)...)
	}
	return out
}

// Matrices packs 4×4 float matrices.
func Matrices(ms ...[16]float32) []byte {
	var out []byte
	for _, m := range ms {
		out = append(out, le(m)...)
	}
	return out
}

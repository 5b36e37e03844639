// Package scene walks WFSN model containers. A file is a tree of typed nodes
// whose payloads point at data blobs elsewhere in the same buffer; walking the
// tree fills a Scene with the textures, buffers and bindings of one model.
package scene

import (
	"fmt"

	"wfextract/internal/container"
)

// Signature opens every model container.
const Signature = "WFSN"

// RootOffset is the position of the root node, right after the header.
const RootOffset = 16

// Probe recognizes model containers by their signature.
var Probe = container.Probe{Variant: container.VariantModel, Signature: Signature}

// NodeType tags a node's payload.
type NodeType uint32

const (
	NodeRoot       NodeType = 0x0
	NodeTexture    NodeType = 0x1
	NodeVertices   NodeType = 0x2
	NodeFaces      NodeType = 0x3
	NodeObjTexture NodeType = 0x4
	NodeGroup      NodeType = 0x5
	NodeObjMap     NodeType = 0x6
	NodeBoneName   NodeType = 0x8
	NodeBones      NodeType = 0x9
	NodeCollision  NodeType = 0xA
	NodeObjData    NodeType = 0xB
)

func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "root"
	case NodeTexture:
		return "texture"
	case NodeVertices:
		return "vertices"
	case NodeFaces:
		return "faces"
	case NodeObjTexture:
		return "object texture"
	case NodeGroup:
		return "group"
	case NodeObjMap:
		return "object map"
	case NodeBoneName:
		return "bone name"
	case NodeBones:
		return "bones"
	case NodeCollision:
		return "collision"
	case NodeObjData:
		return "object data"
	default:
		return fmt.Sprintf("type 0x%x", uint32(t))
	}
}

// nodeHeader precedes every payload.
type nodeHeader struct {
	Type        NodeType
	NumChildren uint32
	ChildList   uint64
}

const nodeHeaderSize = 16

// Node is a node header located in its buffer.
type Node struct {
	Offset      int64
	Type        NodeType
	NumChildren uint32
	ChildList   uint64
}

// Payload is where the type-specific record starts.
func (n Node) Payload() int64 { return n.Offset + nodeHeaderSize }

// Offset32 is an offset/size pair pointing at a DataHeader.
type Offset32 struct {
	Offset uint32
	Size   uint32
}

// DataHeader precedes every data blob.
type DataHeader struct {
	Unknown uint32
	Size    uint32
}

const dataHeaderSize = 8

// TextureNode describes one compressed texture and its source file name.
type TextureNode struct {
	Width     uint32
	Height    uint32
	Unknown0  uint32
	Type      uint32
	Hash      uint64
	ImageData uint32
	Unknown1  uint32
	Filename  uint32
}

// VertexNode describes a vertex buffer.
type VertexNode struct {
	Count  uint32
	Layout uint32
	Hash   uint64
	Data   Offset32
}

// FaceNode describes a triangle index buffer.
type FaceNode struct {
	NumIndices uint32
	Unknown0   uint32
	Hash       uint64
	Data       Offset32
}

// ObjTextureNode binds an object hash to a texture hash.
type ObjTextureNode struct {
	Object  uint64
	Texture uint64
	Unknown [3]uint64
}

// ObjMapNode binds an object hash to a vertex and a face buffer.
type ObjMapNode struct {
	Unknown0 uint64
	Object   uint64
	Vertices uint64
	Faces    uint64
	Unknown1 [6]float32
}

// BoneNode describes a bone matrix array.
type BoneNode struct {
	Unknown0 uint32
	Count    uint32
	Data     Offset32
}

// BoneNameNode points at one bone name.
type BoneNameNode struct {
	Unknown0 uint32
	Unknown1 uint32
	Unknown2 [4]uint32
	Unknown3 Offset32
	Name     Offset32
}

// CollisionNode marks a collision object by name.
type CollisionNode struct {
	Unknown [2]uint32
	Name    Offset32
}

// ObjDataNode marks object data by name.
type ObjDataNode struct {
	Unknown0 uint32
	Flags    uint32
	Data1    Offset32
	Data2    Offset32
	Name     Offset32
}

// dataStart returns the position of the blob behind the DataHeader at off.
func dataStart(buf *container.Buffer, off uint32, record string) (int64, DataHeader, error) {
	var hdr DataHeader
	if err := buf.Read(int64(off), record+" data header", &hdr); err != nil {
		return 0, hdr, err
	}
	return int64(off) + dataHeaderSize, hdr, nil
}

package scene

import (
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"wfextract/internal/container"
	"wfextract/internal/mesh"
	"wfextract/internal/texture"
)

// Texture is a texture node located in its buffer.
type Texture struct {
	Node   int64
	Hash   uint64
	Name   string
	Tag    uint32
	Width  int
	Height int
	// Stream is where the compressed image stream starts.
	Stream int64
}

// File is the output file name of the texture: its source name without
// directories or extension, plus ext. Unnamed textures use their hash.
func (t Texture) File(ext string) string {
	name := path.Base(strings.ReplaceAll(t.Name, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" {
		name = fmt.Sprintf("%016x", t.Hash)
	}
	return name + ext
}

// Binding is one object map entry: an object and the buffers drawing it.
type Binding struct {
	Object   uint64
	Vertices uint64
	Faces    uint64
}

// Scene is the decode context of one model file. Buffers are keyed by their
// content hash; lists keep visit order.
type Scene struct {
	Textures       []Texture
	Vertices       map[uint64][]mesh.Vertex
	Faces          map[uint64][]mesh.Face
	ObjectTextures map[uint64]uint64
	Bindings       []Binding
	Bones          [][]mesh.BoneMatrix
	BoneNames      []string
	Collisions     []string
	ObjectData     []string
}

// New returns an empty Scene.
func New() *Scene {
	return &Scene{
		Vertices:       make(map[uint64][]mesh.Vertex),
		Faces:          make(map[uint64][]mesh.Face),
		ObjectTextures: make(map[uint64]uint64),
	}
}

// Load walks buf and collects its nodes into a fresh Scene. Nodes that fail
// with a recoverable error, including nodes of unknown type, are logged and
// skipped; their children are still visited.
func Load(buf *container.Buffer, maxDepth int, log zerolog.Logger) (*Scene, error) {
	l := &loader{buf: buf, scene: New(), log: log}
	if err := Walk(buf, maxDepth, l.visit); err != nil {
		return nil, err
	}
	return l.scene, nil
}

// Submeshes resolves every binding into a submesh. Texture file names are
// built with ext. A binding naming a buffer the file does not contain is
// logged and exported with that buffer empty.
func (s *Scene) Submeshes(ext string, log zerolog.Logger) []mesh.Submesh {
	files := make(map[uint64]string, len(s.Textures))
	for _, t := range s.Textures {
		files[t.Hash] = t.File(ext)
	}

	out := make([]mesh.Submesh, 0, len(s.Bindings))
	for i, b := range s.Bindings {
		verts, ok := s.Vertices[b.Vertices]
		if !ok {
			log.Warn().Int("object", i).Uint64("hash", b.Vertices).Msg("missing vertex buffer")
		}
		faces, ok := s.Faces[b.Faces]
		if !ok {
			log.Warn().Int("object", i).Uint64("hash", b.Faces).Msg("missing face buffer")
		}
		sub := mesh.Submesh{Vertices: verts, Faces: faces}
		if th, ok := s.ObjectTextures[b.Object]; ok {
			sub.Texture = files[th]
		}
		out = append(out, sub)
	}
	return out
}

type loader struct {
	buf   *container.Buffer
	scene *Scene
	log   zerolog.Logger
}

func (l *loader) visit(n Node, depth int) error {
	err := l.decode(n)
	if err != nil && container.Recoverable(err) {
		l.log.Warn().Err(err).Str("file", l.buf.Name()).Int64("offset", n.Offset).
			Uint32("tag", uint32(n.Type)).Msg("skipping node")
		return nil
	}
	return err
}

func (l *loader) decode(n Node) error {
	buf, s := l.buf, l.scene
	switch n.Type {
	case NodeRoot, NodeGroup:
		return nil

	case NodeTexture:
		var tn TextureNode
		if err := buf.Read(n.Payload(), "texture node", &tn); err != nil {
			return err
		}
		if err := texture.CheckDimensions(uint64(tn.Width), uint64(tn.Height)); err != nil {
			return buf.Fail(container.ErrDecodeFailure, n.Payload(), "texture node", err).WithTag(tn.Type)
		}
		nameAt, _, err := dataStart(buf, tn.Filename, "texture name")
		if err != nil {
			return err
		}
		name, err := buf.CString(nameAt, "texture name")
		if err != nil {
			return err
		}
		stream, _, err := dataStart(buf, tn.ImageData, "texture")
		if err != nil {
			return err
		}
		s.Textures = append(s.Textures, Texture{
			Node:   n.Offset,
			Hash:   tn.Hash,
			Name:   name,
			Tag:    tn.Type,
			Width:  int(tn.Width),
			Height: int(tn.Height),
			Stream: stream,
		})

	case NodeVertices:
		var vn VertexNode
		if err := buf.Read(n.Payload(), "vertex node", &vn); err != nil {
			return err
		}
		at, _, err := dataStart(buf, vn.Data.Offset, "vertices")
		if err != nil {
			return err
		}
		verts, err := mesh.DecodeVertices(buf, at, vn.Count, mesh.Layout(vn.Layout))
		if err != nil {
			return err
		}
		s.Vertices[vn.Hash] = verts

	case NodeFaces:
		var fn FaceNode
		if err := buf.Read(n.Payload(), "face node", &fn); err != nil {
			return err
		}
		at, _, err := dataStart(buf, fn.Data.Offset, "faces")
		if err != nil {
			return err
		}
		faces, err := mesh.DecodeFaces(buf, at, fn.NumIndices)
		if err != nil {
			return err
		}
		s.Faces[fn.Hash] = faces

	case NodeObjTexture:
		var on ObjTextureNode
		if err := buf.Read(n.Payload(), "object texture node", &on); err != nil {
			return err
		}
		s.ObjectTextures[on.Object] = on.Texture

	case NodeObjMap:
		var on ObjMapNode
		if err := buf.Read(n.Payload(), "object map node", &on); err != nil {
			return err
		}
		s.Bindings = append(s.Bindings, Binding{Object: on.Object, Vertices: on.Vertices, Faces: on.Faces})

	case NodeBones:
		var bn BoneNode
		if err := buf.Read(n.Payload(), "bone node", &bn); err != nil {
			return err
		}
		at, _, err := dataStart(buf, bn.Data.Offset, "bones")
		if err != nil {
			return err
		}
		bones, err := mesh.DecodeBones(buf, at, bn.Count)
		if err != nil {
			return err
		}
		s.Bones = append(s.Bones, bones)

	case NodeBoneName:
		var bn BoneNameNode
		if err := buf.Read(n.Payload(), "bone name node", &bn); err != nil {
			return err
		}
		name, err := l.name(bn.Name.Offset, "bone name")
		if err != nil {
			return err
		}
		s.BoneNames = append(s.BoneNames, name)

	case NodeCollision:
		var cn CollisionNode
		if err := buf.Read(n.Payload(), "collision node", &cn); err != nil {
			return err
		}
		name, err := l.name(cn.Name.Offset, "collision name")
		if err != nil {
			return err
		}
		s.Collisions = append(s.Collisions, name)
		l.log.Debug().Str("file", buf.Name()).Str("name", name).Msg("collision node")

	case NodeObjData:
		var on ObjDataNode
		if err := buf.Read(n.Payload(), "object data node", &on); err != nil {
			return err
		}
		name, err := l.name(on.Name.Offset, "object data name")
		if err != nil {
			return err
		}
		s.ObjectData = append(s.ObjectData, name)
		l.log.Debug().Str("file", buf.Name()).Str("name", name).Msg("object data node")

	default:
		return buf.Fail(container.ErrUnknownRecordType, n.Offset, "node", nil).WithTag(uint32(n.Type))
	}
	return nil
}

func (l *loader) name(off uint32, record string) (string, error) {
	at, _, err := dataStart(l.buf, off, record)
	if err != nil {
		return "", err
	}
	return l.buf.CString(at, record)
}

package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/charmap"
)

// Banner heads every exported text file.
const Banner = "# Created with wfextract"

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// WriteOBJ writes all submeshes into one OBJ stream. Each submesh becomes an
// object named name_<n> (1-based) using material <n-1>. Face indices are
// shifted by the number of vertices written before the submesh, made
// 1-based, and emitted in reverse winding order.
func WriteOBJ(w io.Writer, name, mtllib string, subs []Submesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Banner)
	if mtllib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtllib)
	}

	base := uint64(1)
	for i, s := range subs {
		fmt.Fprintf(bw, "o %s_%d\n", name, i+1)
		for _, v := range s.Vertices {
			fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
		}
		for _, v := range s.Vertices {
			fmt.Fprintf(bw, "vt %s %s\n", formatFloat(v.U), formatFloat(v.V))
		}
		fmt.Fprintf(bw, "usemtl %d\n", i)
		for _, f := range s.Faces {
			a, b, c := uint64(f[2])+base, uint64(f[1])+base, uint64(f[0])+base
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		}
		fmt.Fprintln(bw)
		base += uint64(len(s.Vertices))
	}
	return bw.Flush()
}

// WriteMTL writes one material per submesh, named by its index, with the
// submesh texture as the diffuse map.
func WriteMTL(w io.Writer, subs []Submesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Banner)
	for i, s := range subs {
		fmt.Fprintf(bw, "newmtl %d\n", i)
		if s.Texture != "" {
			fmt.Fprintf(bw, "map_Kd %s\n", s.Texture)
		}
	}
	return bw.Flush()
}

// WriteBones writes a u32 count followed by the matrices as little-endian floats.
func WriteBones(w io.Writer, bones []BoneMatrix) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(bones))); err != nil {
		return fmt.Errorf("mesh: write bone count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, bones); err != nil {
		return fmt.Errorf("mesh: write bones: %w", err)
	}
	return nil
}

// WriteBoneNames writes a u32 count, then for each name a u32 byte length
// and the Windows-1252 bytes without a terminator.
func WriteBoneNames(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(names))); err != nil {
		return fmt.Errorf("mesh: write bone name count: %w", err)
	}
	enc := charmap.Windows1252.NewEncoder()
	for _, name := range names {
		n, err := enc.String(name)
		if err != nil {
			return fmt.Errorf("mesh: encode bone name %q: %w", name, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(n))); err != nil {
			return fmt.Errorf("mesh: write bone name: %w", err)
		}
		if _, err := bw.WriteString(n); err != nil {
			return fmt.Errorf("mesh: write bone name: %w", err)
		}
	}
	return bw.Flush()
}

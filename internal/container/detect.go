package container

import "fmt"

// Variant identifies which container schema a file follows.
type Variant int

const (
	VariantUnknown Variant = iota
	// VariantSprite is the signature-less sprite animation container.
	VariantSprite
	// VariantModel is the "WFSN" node-tree model container.
	VariantModel
)

func (v Variant) String() string {
	switch v {
	case VariantSprite:
		return "sprite"
	case VariantModel:
		return "model"
	default:
		return "unknown"
	}
}

// Probe recognizes one variant, either by a signature at offset 0 or,
// when Signature is empty, by a structural heuristic.
type Probe struct {
	Variant   Variant
	Signature string
	Match     func(*Buffer) bool
}

// Detect returns the variant of b. Signature probes are tried before
// heuristic ones so a signed file is never claimed by a heuristic.
func Detect(b *Buffer, probes ...Probe) (Variant, error) {
	for _, p := range probes {
		if p.Signature != "" && b.HasPrefix(p.Signature) {
			return p.Variant, nil
		}
	}
	for _, p := range probes {
		if p.Signature == "" && p.Match != nil && p.Match(b) {
			return p.Variant, nil
		}
	}

	n := min(b.Len(), 4)
	head, _ := b.Slice(0, n, "signature")
	return VariantUnknown, b.Fail(ErrBadSignature, 0, "signature", fmt.Errorf("unrecognized leading bytes %q", head))
}

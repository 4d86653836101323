// SPDX-License-Identifier: MIT

// Package tensor: tagged binary codec for the expression variant.
// Every node writes the shared header (name, printable text, indices)
// followed by its variant tag and payload; children recurse. The stream is
// explicitly little-endian with length-prefixed strings, so encoded
// expressions are portable across platforms. Unknown tags decode into a
// header-only placeholder rather than failing the whole stream.

package tensor

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jonasschneidercgg/construct/scalar"
)

// maxCollection bounds decoded collection sizes to keep corrupt input from
// forcing pathological allocations.
const maxCollection = 1 << 20

// Encode writes the expression to w in the tagged binary format.
func (t Tensor) Encode(w io.Writer) error {
	return encodeNode(w, t.inner())
}

// Decode reads one expression from r. Malformed input yields an error
// matching ErrWrongFormat; an unknown variant tag yields a header-only
// placeholder of KindCustom.
func Decode(r io.Reader) (Tensor, error) {
	n, err := decodeNode(r)
	if err != nil {
		return Tensor{}, err
	}
	return Tensor{n: n}, nil
}

func encodeNode(w io.Writer, n node) error {
	h := n.headerRef()
	if err := writeString(w, h.name); err != nil {
		return err
	}
	if err := writeString(w, h.printable); err != nil {
		return err
	}
	if err := encodeIndices(w, h.indices); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(n.kind())); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}

	switch t := n.(type) {
	case *zeroNode, *deltaNode, *epsilonNode, *customNode:
		return nil

	case *scalarNode:
		return encodeScalar(w, t.value)

	case *gammaNode:
		if err := binary.Write(w, binary.LittleEndian, int32(t.p)); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(t.q)); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		return nil

	case *epsilonGammaNode:
		if err := binary.Write(w, binary.LittleEndian, uint32(t.numEpsilon)); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(t.numGamma)); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		return nil

	case *scaledNode:
		if err := encodeScalar(w, t.scale); err != nil {
			return err
		}
		return encodeNode(w, t.child)

	case *addedNode:
		if err := binary.Write(w, binary.LittleEndian, uint32(len(t.summands))); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		for _, s := range t.summands {
			if err := encodeNode(w, s); err != nil {
				return err
			}
		}
		return nil

	case *multipliedNode:
		if err := encodeNode(w, t.a); err != nil {
			return err
		}
		return encodeNode(w, t.b)

	case *substituteNode:
		return encodeNode(w, t.child)

	default:
		return fmt.Errorf("Encode: unknown variant %d: %w", n.kind(), ErrWrongFormat)
	}
}

func decodeNode(r io.Reader) (node, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	printable, err := readString(r)
	if err != nil {
		return nil, err
	}
	indices, err := decodeIndices(r)
	if err != nil {
		return nil, err
	}

	var tag int32
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
	}

	h := header{name: name, printable: printable, indices: indices}

	switch Kind(tag) {
	case KindZero:
		return &zeroNode{header: h}, nil

	case KindDelta:
		if len(indices) != 2 {
			return nil, fmt.Errorf("Decode: delta with %d indices: %w", len(indices), ErrWrongFormat)
		}
		return &deltaNode{header: h}, nil

	case KindEpsilon:
		if len(indices) == 0 || indices[0].Range.Size() != len(indices) {
			return nil, fmt.Errorf("Decode: epsilon rank mismatch: %w", ErrWrongFormat)
		}
		return &epsilonNode{header: h}, nil

	case KindScalar:
		value, err := decodeScalar(r)
		if err != nil {
			return nil, err
		}
		return &scalarNode{header: h, value: value}, nil

	case KindGamma:
		var p, q int32
		if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if err := binary.Read(r, binary.LittleEndian, &q); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if len(indices) != 2 {
			return nil, fmt.Errorf("Decode: gamma with %d indices: %w", len(indices), ErrWrongFormat)
		}
		return &gammaNode{header: h, p: int(p), q: int(q)}, nil

	case KindEpsilonGamma:
		var numEpsilon, numGamma uint32
		if err := binary.Read(r, binary.LittleEndian, &numEpsilon); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if err := binary.Read(r, binary.LittleEndian, &numGamma); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if numEpsilon > 1 || int(3*numEpsilon+2*numGamma) != len(indices) {
			return nil, fmt.Errorf("Decode: epsilongamma rank mismatch: %w", ErrWrongFormat)
		}
		return &epsilonGammaNode{header: h, numEpsilon: int(numEpsilon), numGamma: int(numGamma)}, nil

	case KindScaled:
		scale, err := decodeScalar(r)
		if err != nil {
			return nil, err
		}
		child, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		return &scaledNode{header: h, child: child, scale: scale}, nil

	case KindAdded:
		count, err := readCount(r)
		if err != nil {
			return nil, err
		}
		summands := make([]node, 0, count)
		for i := 0; i < count; i++ {
			s, err := decodeNode(r)
			if err != nil {
				return nil, err
			}
			summands = append(summands, s)
		}
		return &addedNode{header: h, summands: summands}, nil

	case KindMultiplied:
		a, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		b, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		return &multipliedNode{header: h, a: a, b: b}, nil

	case KindSubstitute:
		child, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		if !h.indices.IsPermutationOf(child.headerRef().indices) {
			return nil, fmt.Errorf("Decode: substitute indices: %w", ErrWrongFormat)
		}
		return &substituteNode{header: h, child: child}, nil

	default:
		// Unknown tag: keep the header so the stream position stays
		// consistent for the caller, and surface a placeholder.
		return &customNode{header: h}, nil
	}
}

func encodeIndices(w io.Writer, idx Indices) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(idx))); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	for _, x := range idx {
		if err := writeString(w, x.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int32(x.Range.From)); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(x.Range.To)); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		variance := uint8(0)
		if x.Contravariant {
			variance = 1
		}
		if err := binary.Write(w, binary.LittleEndian, variance); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
	}
	return nil
}

func decodeIndices(r io.Reader) (Indices, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, err
	}

	out := make(Indices, 0, count)
	for i := 0; i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		var from, to int32
		if err := binary.Read(r, binary.LittleEndian, &from); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if err := binary.Read(r, binary.LittleEndian, &to); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		var variance uint8
		if err := binary.Read(r, binary.LittleEndian, &variance); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if from < 0 || to < from {
			return nil, fmt.Errorf("Decode: bad range [%d,%d]: %w", from, to, ErrWrongFormat)
		}

		out = append(out, Index{
			Name:          name,
			Range:         IndexRange{From: int(from), To: int(to)},
			Contravariant: variance == 1,
		})
	}

	return out, nil
}

func encodeScalar(w io.Writer, s scalar.Scalar) error {
	if err := s.Encode(w); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	return nil
}

func decodeScalar(r io.Reader) (scalar.Scalar, error) {
	s, err := scalar.Decode(r)
	if err != nil {
		return scalar.Scalar{}, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
	}
	return s, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	n, err := readCount(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
	}
	return string(buf), nil
}

func readCount(r io.Reader) (int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
	}
	if n > maxCollection {
		return 0, fmt.Errorf("Decode: collection size %d exceeds limit: %w", n, ErrWrongFormat)
	}
	return int(n), nil
}

// SPDX-License-Identifier: MIT

// Package scalar: tagged binary codec for the scalar variant.
// The stream is explicitly little-endian, with length-prefixed strings, so
// serialized scalars are portable across platforms.

package scalar

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxCollection bounds decoded collection sizes to keep corrupt input from
// forcing pathological allocations.
const maxCollection = 1 << 20

// Encode writes the scalar to w in the tagged binary format.
func (s Scalar) Encode(w io.Writer) error {
	return encodeNode(w, s.inner())
}

// Decode reads one scalar from r. Unknown tags and short reads yield an
// error matching ErrWrongFormat.
func Decode(r io.Reader) (Scalar, error) {
	n, err := decodeNode(r)
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{n: n}, nil
}

func encodeNode(w io.Writer, n node) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(n.kind())); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}

	switch t := n.(type) {
	case Fraction:
		if err := binary.Write(w, binary.LittleEndian, t.num); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, t.den); err != nil {
			return fmt.Errorf("Encode: %w", err)
		}
		return nil

	case Variable:
		if err := writeString(w, t.Name); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, int64(t.Index))

	case added:
		if err := writeCount(w, len(t.summands)); err != nil {
			return err
		}
		for _, s := range t.summands {
			if err := encodeNode(w, s); err != nil {
				return err
			}
		}
		return nil

	case multiplied:
		if err := encodeNode(w, t.left); err != nil {
			return err
		}
		return encodeNode(w, t.right)

	default:
		return fmt.Errorf("Encode: unknown variant %d: %w", n.kind(), ErrWrongFormat)
	}
}

func decodeNode(r io.Reader) (node, error) {
	var tag uint8
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
	}

	switch Kind(tag) {
	case KindFraction:
		var num, den int64
		if err := binary.Read(r, binary.LittleEndian, &num); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if err := binary.Read(r, binary.LittleEndian, &den); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		if den <= 0 {
			return nil, fmt.Errorf("Decode: non-positive denominator %d: %w", den, ErrWrongFormat)
		}
		return newFraction(num, den), nil

	case KindVariable:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		var index int64
		if err := binary.Read(r, binary.LittleEndian, &index); err != nil {
			return nil, fmt.Errorf("Decode: %v: %w", err, ErrWrongFormat)
		}
		return Variable{Name: name, Index: int(index)}, nil

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
		return added{summands: summands}, nil

	case KindMultiplied:
		left, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		return multiplied{left: left, right: right}, nil

	default:
		return nil, fmt.Errorf("Decode: unknown tag %d: %w", tag, ErrWrongFormat)
	}
}

func writeString(w io.Writer, s string) error {
	if err := writeCount(w, len(s)); err != nil {
		return err
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

func writeCount(w io.Writer, n int) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(n)); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	return nil
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

package manipulation

import (
	"fmt"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/semantics"
)

// TransformConstant rebuilds a constant value node as an equivalent
// constant of type to, grounded on transformConstant in the original's
// transformConstant.hpp: "transforms a constant value into a desired type."
// Unlike the pass functions above it returns the fresh node directly rather
// than a Result, matching the original's direct-return convention.
func TransformConstant(tree *hifast.Tree, cv hifast.Handle, to hifast.Handle, sem semantics.LanguageSemantics, allowTruncation bool) (hifast.Handle, error) {
	n := tree.Get(cv)
	if !n.Kind.IsConstant() {
		return hifast.Nil, fmt.Errorf("manipulation: %s is not a constant", n.Kind)
	}
	toKind := tree.Get(to).Kind

	switch toKind {
	case hifast.KindInt:
		return transformToInt(tree, n)
	case hifast.KindBool:
		return transformToBool(tree, n)
	case hifast.KindBit:
		return transformToBit(tree, n)
	case hifast.KindBitvector, hifast.KindSigned, hifast.KindUnsigned:
		return transformToBitvector(tree, n, to, allowTruncation)
	default:
		return hifast.Nil, fmt.Errorf("manipulation: no constant conversion to %s", toKind)
	}
}

// TransformValue rebuilds any value (not just a literal constant) as an
// equivalent value of type to; non-constant inputs pass through unchanged
// since only ConstValue family literals carry a foldable representation to
// convert, matching transformValue's fallback behavior in the original for
// values it cannot fold.
func TransformValue(tree *hifast.Tree, v hifast.Handle, to hifast.Handle, sem semantics.LanguageSemantics, allowTruncation bool) (hifast.Handle, error) {
	n := tree.Get(v)
	if !n.Kind.IsConstant() {
		return v, nil
	}
	return TransformConstant(tree, v, to, sem, allowTruncation)
}

func transformToInt(tree *hifast.Tree, n *hifast.Node) (hifast.Handle, error) {
	var v int64
	switch n.Kind {
	case hifast.KindIntValue:
		v = n.Value.IntLit
	case hifast.KindBoolValue:
		if n.Value.BoolLit {
			v = 1
		}
	case hifast.KindBitValue:
		if n.Value.BitLit == hifast.Bit1 {
			v = 1
		}
	case hifast.KindBitvectorValue:
		v = bitsToInt(n.Value.BitvectorLit)
	default:
		return hifast.Nil, fmt.Errorf("manipulation: cannot convert %s to int", n.Kind)
	}
	h := tree.NewNode(hifast.KindIntValue)
	hn := tree.Get(h)
	hn.Value.IntLit = v
	tree.Put(h, hn)
	return h, nil
}

func transformToBool(tree *hifast.Tree, n *hifast.Node) (hifast.Handle, error) {
	var v bool
	switch n.Kind {
	case hifast.KindBoolValue:
		v = n.Value.BoolLit
	case hifast.KindIntValue:
		v = n.Value.IntLit != 0
	case hifast.KindBitValue:
		v = n.Value.BitLit == hifast.Bit1
	default:
		return hifast.Nil, fmt.Errorf("manipulation: cannot convert %s to bool", n.Kind)
	}
	h := tree.NewNode(hifast.KindBoolValue)
	hn := tree.Get(h)
	hn.Value.BoolLit = v
	tree.Put(h, hn)
	return h, nil
}

func transformToBit(tree *hifast.Tree, n *hifast.Node) (hifast.Handle, error) {
	var v hifast.BitConstant
	switch n.Kind {
	case hifast.KindBitValue:
		v = n.Value.BitLit
	case hifast.KindBoolValue:
		if n.Value.BoolLit {
			v = hifast.Bit1
		} else {
			v = hifast.Bit0
		}
	case hifast.KindIntValue:
		if n.Value.IntLit != 0 {
			v = hifast.Bit1
		} else {
			v = hifast.Bit0
		}
	default:
		return hifast.Nil, fmt.Errorf("manipulation: cannot convert %s to bit", n.Kind)
	}
	h := tree.NewNode(hifast.KindBitValue)
	hn := tree.Get(h)
	hn.Value.BitLit = v
	tree.Put(h, hn)
	return h, nil
}

func transformToBitvector(tree *hifast.Tree, n *hifast.Node, to hifast.Handle, allowTruncation bool) (hifast.Handle, error) {
	span := tree.Get(to).Type.Span
	width := int(span.Width())
	if width < 1 {
		width = 1
	}

	var bits []hifast.BitConstant
	var requiredWidth int
	switch n.Kind {
	case hifast.KindBitvectorValue:
		bits = append([]hifast.BitConstant(nil), n.Value.BitvectorLit...)
		requiredWidth = len(bits)
	case hifast.KindIntValue:
		requiredWidth = bitLength(n.Value.IntLit)
		bits = intToBits(n.Value.IntLit, width)
	default:
		return hifast.Nil, fmt.Errorf("manipulation: cannot convert %s to bitvector", n.Kind)
	}

	if requiredWidth > width && !allowTruncation {
		return hifast.Nil, fmt.Errorf("manipulation: %d-bit value does not fit %d-bit target without truncation", requiredWidth, width)
	}
	bits = fitBits(bits, width)

	h := tree.NewNode(hifast.KindBitvectorValue)
	hn := tree.Get(h)
	hn.Value.BitvectorLit = bits
	tree.Put(h, hn)
	return h, nil
}

func bitsToInt(bits []hifast.BitConstant) int64 {
	var v int64
	for _, b := range bits {
		v <<= 1
		if b == hifast.Bit1 {
			v |= 1
		}
	}
	return v
}

// bitLength returns the number of bits needed to represent non-negative v
// (at least 1).
func bitLength(v int64) int {
	if v <= 0 {
		return 1
	}
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

func intToBits(v int64, width int) []hifast.BitConstant {
	bits := make([]hifast.BitConstant, width)
	for i := width - 1; i >= 0; i-- {
		if v&1 != 0 {
			bits[i] = hifast.Bit1
		} else {
			bits[i] = hifast.Bit0
		}
		v >>= 1
	}
	return bits
}

// fitBits pads bits on the left with Bit0 or truncates its most-significant
// bits down to exactly width.
func fitBits(bits []hifast.BitConstant, width int) []hifast.BitConstant {
	if len(bits) == width {
		return bits
	}
	if len(bits) < width {
		out := make([]hifast.BitConstant, width-len(bits))
		for i := range out {
			out[i] = hifast.Bit0
		}
		return append(out, bits...)
	}
	return bits[len(bits)-width:]
}

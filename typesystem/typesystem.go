// Package typesystem implements the semantic-type queries SPEC_FULL.md §4.3
// assigns to value nodes: SemanticTypeOf (the cached, semantics-dependent
// type of an expression), BaseTypeOf (strip TypeReference indirection down
// to a structural type), SpanOf (the span of that base type),
// DefaultValueOf (a thin wrapper delegating to the active
// semantics.LanguageSemantics), and the precision analysis that decides
// whether a Switch/With construct is exhaustive.
//
// It is grounded on the original SemanticAnalysis/ILanguageSemantics split:
// the type-resolution algorithm here is the same shape
// (operator + operand types -> result type, memoized per value node), but
// implemented as free functions over a hifast.Tree plus an injected
// semantics.LanguageSemantics rather than a virtual-dispatch class
// hierarchy.
package typesystem

import (
	"fmt"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/resolver"
	"github.com/esd-univr/hif-core-sub007/semantics"
)

// Engine resolves semantic types for one Tree under one LanguageSemantics.
type Engine struct {
	tree     *hifast.Tree
	sem      semantics.LanguageSemantics
	resolver *resolver.Resolver
}

// NewEngine returns a type engine delegating operator/default-value
// behavior to sem and symbol lookups to res.
func NewEngine(tree *hifast.Tree, sem semantics.LanguageSemantics, res *resolver.Resolver) *Engine {
	return &Engine{tree: tree, sem: sem, resolver: res}
}

// SemanticTypeOf returns the Type handle of value h, computing and caching
// it on h.SemanticType if absent (SPEC_FULL.md §3.3, "semantic-type-cache
// soundness": a cached type must reflect h's current operands/operator).
func (e *Engine) SemanticTypeOf(h hifast.Handle) (hifast.Handle, error) {
	n := e.tree.Get(h)
	if !n.SemanticType.IsNil() && e.tree.Nodes.Alive(n.SemanticType) {
		return n.SemanticType, nil
	}
	if !n.Kind.IsValue() {
		return hifast.Nil, fmt.Errorf("typesystem: %s is not a value node", n.Kind)
	}

	t, err := e.compute(h, n)
	if err != nil {
		return hifast.Nil, err
	}
	n.SemanticType = t
	e.tree.Put(h, n)
	return t, nil
}

func (e *Engine) compute(h hifast.Handle, n *hifast.Node) (hifast.Handle, error) {
	switch n.Kind {
	case hifast.KindBitValue:
		return e.tree.NewNode(hifast.KindBit), nil
	case hifast.KindBitvectorValue:
		bv := e.tree.NewNode(hifast.KindBitvector)
		bn := e.tree.Get(bv)
		bn.Type.Span = hifast.Span{
			Direction: hifast.DirDownto, LBoundFolded: int64(len(n.Value.BitvectorLit)) - 1, RBoundFolded: 0, BoundsKnown: true,
		}
		e.tree.Put(bv, bn)
		return bv, nil
	case hifast.KindBoolValue:
		return e.tree.NewNode(hifast.KindBool), nil
	case hifast.KindCharValue:
		return e.tree.NewNode(hifast.KindChar), nil
	case hifast.KindIntValue:
		return e.tree.NewNode(hifast.KindInt), nil
	case hifast.KindRealValue:
		return e.tree.NewNode(hifast.KindReal), nil
	case hifast.KindStringValue:
		return e.tree.NewNode(hifast.KindString), nil
	case hifast.KindTimeValue:
		return e.tree.NewNode(hifast.KindTime), nil

	case hifast.KindExpression:
		return e.expressionType(h, n)
	case hifast.KindCast:
		return n.Children["type"], nil
	case hifast.KindIdentifier, hifast.KindFieldReference, hifast.KindFunctionCall:
		return e.referenceType(h)
	case hifast.KindMember:
		return e.memberType(n)
	case hifast.KindSlice:
		return n.Children["range"], nil
	default:
		return hifast.Nil, fmt.Errorf("typesystem: no type rule for %s", n.Kind)
	}
}

func (e *Engine) expressionType(h hifast.Handle, n *hifast.Node) (hifast.Handle, error) {
	op1 := n.Children["op1"]
	op2 := n.Children["op2"]
	if op1.IsNil() {
		return hifast.Nil, fmt.Errorf("typesystem: expression %s missing op1", h)
	}
	lt, err := e.SemanticTypeOf(op1)
	if err != nil {
		return hifast.Nil, err
	}
	var rt hifast.Handle
	if !op2.IsNil() {
		rt, err = e.SemanticTypeOf(op2)
		if err != nil {
			return hifast.Nil, err
		}
	}
	return e.sem.OperatorResult(e.tree, n.Value.Operator, lt, rt)
}

func (e *Engine) referenceType(h hifast.Handle) (hifast.Handle, error) {
	if e.resolver == nil {
		return hifast.Nil, fmt.Errorf("typesystem: reference type requires a resolver")
	}
	decl, err := e.resolver.Resolve(h)
	if err != nil {
		return hifast.Nil, err
	}
	dn := e.tree.Get(decl)
	if t := dn.Single("type"); !t.IsNil() {
		return t, nil
	}
	if t := dn.Single("returnType"); !t.IsNil() {
		return t, nil
	}
	return hifast.Nil, fmt.Errorf("typesystem: declaration %s has no type slot", decl)
}

func (e *Engine) memberType(n *hifast.Node) (hifast.Handle, error) {
	prefix := n.Children["prefix"]
	pt, err := e.SemanticTypeOf(prefix)
	if err != nil {
		return hifast.Nil, err
	}
	base := e.BaseTypeOf(pt)
	bt := e.tree.Get(base)
	if bt.Type.Element.IsNil() {
		return hifast.Nil, fmt.Errorf("typesystem: member access on non-array type %s", bt.Kind)
	}
	return bt.Type.Element, nil
}

// BaseTypeOf strips TypeReference/ViewReference indirection down to the
// structural type it names, following the referenced TypeDef's "type" slot
// (or the identity if t is already structural).
func (e *Engine) BaseTypeOf(t hifast.Handle) hifast.Handle {
	n := e.tree.Get(t)
	if n.Kind != hifast.KindTypeReference || e.resolver == nil {
		return t
	}
	decl, err := e.resolver.Resolve(t)
	if err != nil {
		return t
	}
	dn := e.tree.Get(decl)
	if inner := dn.Single("type"); !inner.IsNil() {
		return e.BaseTypeOf(inner)
	}
	return t
}

// SpanOf returns the Span of t's base type (zero Span, BoundsKnown=false if
// t has none).
func (e *Engine) SpanOf(t hifast.Handle) hifast.Span {
	n := e.tree.Get(e.BaseTypeOf(t))
	return n.Type.Span
}

// DefaultValueOf delegates to the active semantics for t's reset value.
func (e *Engine) DefaultValueOf(t hifast.Handle) hifast.Handle {
	return e.sem.DefaultValue(e.tree, e.BaseTypeOf(t))
}

// IsExhaustive reports whether a Switch/With node's alt conditions cover
// every value of its discriminator's type, given the discriminator already
// has a "default"/"defaults" slot populated. Absent a populated default, it
// is exhaustive only when the discriminator is a Bool (both T/F values are
// literal alt conditions are assumed, conservative otherwise).
//
// This mirors the original's "precision: ... discriminator types narrower
// than Int need a default branch unless every value is covered" rule
// (SPEC_FULL.md §4.8.4).
func (e *Engine) IsExhaustive(switchOrWith hifast.Handle) bool {
	n := e.tree.Get(switchOrWith)
	switch n.Kind {
	case hifast.KindSwitch:
		if len(n.ChildLists["defaults"]) > 0 {
			return true
		}
	case hifast.KindWith:
		if !n.Children["default"].IsNil() {
			return true
		}
	default:
		return false
	}
	cond := n.Children["condition"]
	if cond.IsNil() {
		return false
	}
	ct, err := e.SemanticTypeOf(cond)
	if err != nil {
		return false
	}
	return e.tree.Get(e.BaseTypeOf(ct)).Kind == hifast.KindBool
}

package hifast

// ValueAttrs holds the scalar attributes shared by the Value family
// (SPEC_FULL.md §3.1, "Values").
type ValueAttrs struct {
	// Constant literals (Kind.IsConstant()).
	BitLit        BitConstant
	BitvectorLit  []BitConstant
	BoolLit       bool
	CharLit       byte
	IntLit        int64
	RealLit       float64
	StringLit     string
	TimeLit       float64
	TimeUnitLit   TimeUnit
	ConstExpr     bool // PROPERTY_CONSTEXPR-equivalent: foldable at compile time

	// Expression / Cast.
	Operator Operator

	// Identifier / FieldReference / FunctionCall: symbol name. The resolved
	// declaration is cached on the owning Node.ResolvedDecl, not here.
	Name string

	// Slice: direction of the bound range (span is carried by a child
	// "range" slot of kind Span-bearing type, folded value mirrored here
	// when known).
	Span Span
}

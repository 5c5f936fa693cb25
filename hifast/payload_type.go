package hifast

// TypeAttrs holds the scalar attributes shared by the Type family
// (SPEC_FULL.md §3.1, "Types"). Only the fields relevant to the owning
// node's Kind are meaningful; the rest stay at their zero value.
type TypeAttrs struct {
	Variant TypeVariant

	// Bit / Bitvector flags.
	Logic     bool
	Resolved  bool
	ConstExpr bool

	// Int / Bitvector / Signed / Unsigned / Array signedness.
	Signed bool

	// Bitvector / Signed / Unsigned / Array span. Array also uses Element.
	Span Span

	// Array element type (single child slot "element" also holds this,
	// Element mirrors it for convenient access from Go code).
	Element Handle

	// Record packed/union flags; fields live in the node's "fields" list
	// slot.
	Packed bool
	Union  bool

	// TypeReference / ViewReference: Name plus optional Instance and
	// "templateArguments" list slot (ValueTPAssign/TypeTPAssign nodes).
	Name     string
	Instance Handle
}

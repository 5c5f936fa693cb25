package hifast

// DeclAttrs holds the scalar attributes shared by the Declaration family
// (SPEC_FULL.md §3.1, "Declarations").
type DeclAttrs struct {
	Name string

	// Port / Parameter direction.
	PortDirection PortDirection

	// ValueTP: compile-time-constant flag (GLOSSARY: "CTC").
	CompileTimeConstant bool

	// Const / Variable / Signal: whether the declaration is itself a
	// standard-library member (used by fixTemplateParameters'
	// "standard libraries" exception and by the print-options "exclude
	// standard libraries" filter, SPEC_FULL.md §6.3).
	StandardLibrary bool

	// SubProgram (Function/Procedure): whether it is a pure/"constexpr"
	// function body, relevant to fixTemplateParameters' bad-scope rule.
	ConstExprBody bool

	// Alias: no extra attributes beyond Name; the aliased expression is
	// the "value" single-child slot.

	// LibraryDef / DesignUnit: origin language, used by the semantics
	// selection during printing. StateTable's sensitivity list lives in the
	// generic ChildLists["sensitivity"] slot like every other list slot.
	Origin TypeVariant
}

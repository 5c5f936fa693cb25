package hifast

// AltAttrs holds the scalar attributes shared by the Alt family
// (SPEC_FULL.md §3.1, "Alts and assigns").
type AltAttrs struct {
	// SwitchAlt / WithAlt: whether this is the default/"others" branch —
	// conditions list slot is then empty.
	IsDefault bool

	// PortAssign / ParameterAssign / ValueTPAssign / TypeTPAssign: the
	// formal name being bound; the actual value is the "value" child slot.
	FormalName string
}

package hifast

import "fmt"

// SlotSpec describes one child slot declared by a Kind: whether it holds a
// single child or an ordered list, and which family a child attached there
// must belong to (SPEC_FULL.md §3.3, "Well-typed slots... enforced at
// construction/attachment").
type SlotSpec struct {
	ListSlot bool
	Allowed  Family
}

// schema maps each Kind to its fixed set of child slots. Slot names are
// shared across kinds where the role is the same (e.g. every statement
// holder uses "actions"), matching the way the original C++ BLists reuse
// field names like `declarations`, `actions`, `alts`.
var schema = map[Kind]map[string]SlotSpec{
	KindBitvector: {"range": {Allowed: FamilyValue}},
	KindSigned:    {"range": {Allowed: FamilyValue}},
	KindUnsigned:  {"range": {Allowed: FamilyValue}},
	KindArray:     {"range": {Allowed: FamilyValue}, "type": {Allowed: FamilyType}},
	KindRecord:    {"fields": {ListSlot: true, Allowed: FamilyDecl}},
	KindEnum:      {"values": {ListSlot: true, Allowed: FamilyDecl}},
	KindPointer:   {"type": {Allowed: FamilyType}},
	KindReference: {"type": {Allowed: FamilyType}},
	KindTypeReference: {
		"templateArguments": {ListSlot: true, Allowed: FamilyAlt},
	},
	KindViewReference: {
		"templateArguments": {ListSlot: true, Allowed: FamilyAlt},
	},

	KindAggregate: {
		"alts":  {ListSlot: true, Allowed: FamilyAlt},
		"other": {Allowed: FamilyValue},
	},
	KindRecordValue: {"alts": {ListSlot: true, Allowed: FamilyAlt}},
	KindExpression:  {"op1": {Allowed: FamilyValue}, "op2": {Allowed: FamilyValue}},
	KindCast:        {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindMember:      {"prefix": {Allowed: FamilyValue}, "index": {Allowed: FamilyValue}},
	KindSlice:       {"prefix": {Allowed: FamilyValue}, "range": {Allowed: FamilyValue}},
	KindFieldReference: {"prefix": {Allowed: FamilyValue}},
	KindFunctionCall: {
		"parameterAssigns": {ListSlot: true, Allowed: FamilyAlt},
		"templateAssigns":  {ListSlot: true, Allowed: FamilyAlt},
	},
	KindWhen: {"alts": {ListSlot: true, Allowed: FamilyAlt}, "default": {Allowed: FamilyValue}},
	KindWith: {
		"condition": {Allowed: FamilyValue},
		"alts":      {ListSlot: true, Allowed: FamilyAlt},
		"default":   {Allowed: FamilyValue},
	},

	KindAssign:        {"lhs": {Allowed: FamilyValue}, "rhs": {Allowed: FamilyValue}},
	KindProcedureCall:  {"parameterAssigns": {ListSlot: true, Allowed: FamilyAlt}},
	KindIf: {
		"alts":    {ListSlot: true, Allowed: FamilyAlt},
		"defaults": {ListSlot: true, Allowed: FamilyAction},
	},
	KindFor: {
		"initDeclarations": {ListSlot: true, Allowed: FamilyDecl},
		"condition":        {Allowed: FamilyValue},
		"stepActions":      {ListSlot: true, Allowed: FamilyAction},
		"actions":          {ListSlot: true, Allowed: FamilyAction},
	},
	KindWhile: {
		"condition": {Allowed: FamilyValue},
		"actions":   {ListSlot: true, Allowed: FamilyAction},
	},
	KindSwitch: {
		"condition": {Allowed: FamilyValue},
		"alts":      {ListSlot: true, Allowed: FamilyAlt},
		"defaults":  {ListSlot: true, Allowed: FamilyAction},
	},
	KindReturn:         {"value": {Allowed: FamilyValue}},
	KindWait:           {"time": {Allowed: FamilyValue}, "actions": {ListSlot: true, Allowed: FamilyAction}},
	KindValueStatement: {"value": {Allowed: FamilyValue}},
	KindTransition: {
		"condition":  {Allowed: FamilyValue},
		"actions":    {ListSlot: true, Allowed: FamilyAction},
	},

	KindVariable:  {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindSignal:    {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindPort:      {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindConst:     {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindAlias:     {"value": {Allowed: FamilyValue}},
	KindParameter: {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindEnumValue: {"value": {Allowed: FamilyValue}},
	KindField:     {"type": {Allowed: FamilyType}},
	KindTypeDef:   {"type": {Allowed: FamilyType}, "templateParameters": {ListSlot: true, Allowed: FamilyDecl}},
	KindValueTP:   {"type": {Allowed: FamilyType}, "value": {Allowed: FamilyValue}},
	KindTypeTP:    {"type": {Allowed: FamilyType}},
	KindFunction: {
		"returnType":         {Allowed: FamilyType},
		"parameters":         {ListSlot: true, Allowed: FamilyDecl},
		"templateParameters": {ListSlot: true, Allowed: FamilyDecl},
		"declarations":       {ListSlot: true, Allowed: FamilyDecl},
		"actions":            {ListSlot: true, Allowed: FamilyAction},
	},
	KindProcedure: {
		"parameters":         {ListSlot: true, Allowed: FamilyDecl},
		"templateParameters": {ListSlot: true, Allowed: FamilyDecl},
		"declarations":       {ListSlot: true, Allowed: FamilyDecl},
		"actions":            {ListSlot: true, Allowed: FamilyAction},
	},
	KindView: {
		"templateParameters": {ListSlot: true, Allowed: FamilyDecl},
		"entity":             {Allowed: FamilyDecl},
		"contents":           {Allowed: FamilyDecl},
		"inheritances":       {ListSlot: true, Allowed: FamilyType},
	},
	KindDesignUnit: {"views": {ListSlot: true, Allowed: FamilyDecl}},
	KindEntity: {
		"ports":      {ListSlot: true, Allowed: FamilyDecl},
		"parameters": {ListSlot: true, Allowed: FamilyDecl},
	},
	KindContents: {
		"declarations": {ListSlot: true, Allowed: FamilyDecl},
		"stateTables":  {ListSlot: true, Allowed: FamilyDecl},
		"generates":    {ListSlot: true, Allowed: FamilyDecl},
		"instances":    {ListSlot: true, Allowed: FamilyDecl},
		"actions":      {ListSlot: true, Allowed: FamilyAction},
	},
	KindLibraryDef: {
		"declarations": {ListSlot: true, Allowed: FamilyDecl},
		"libraries":    {ListSlot: true, Allowed: FamilyDecl},
	},
	KindStateTable: {
		"states":      {ListSlot: true, Allowed: FamilyDecl},
		"declarations": {ListSlot: true, Allowed: FamilyDecl},
		"sensitivity":  {ListSlot: true, Allowed: FamilyValue},
	},
	KindState: {
		"actions":     {ListSlot: true, Allowed: FamilyAction},
		"transitions": {ListSlot: true, Allowed: FamilyAction},
	},
	KindSystem: {
		"designUnits": {ListSlot: true, Allowed: FamilyDecl},
		"libraryDefs": {ListSlot: true, Allowed: FamilyDecl},
		"declarations": {ListSlot: true, Allowed: FamilyDecl},
	},

	KindIfAlt: {
		"condition": {Allowed: FamilyValue},
		"actions":   {ListSlot: true, Allowed: FamilyAction},
	},
	KindSwitchAlt: {
		"conditions": {ListSlot: true, Allowed: FamilyValue},
		"actions":    {ListSlot: true, Allowed: FamilyAction},
	},
	KindWhenAlt: {"condition": {Allowed: FamilyValue}, "value": {Allowed: FamilyValue}},
	KindWithAlt: {
		"conditions": {ListSlot: true, Allowed: FamilyValue},
		"value":      {Allowed: FamilyValue},
	},
	KindAggregateAlt:   {"value": {Allowed: FamilyValue}},
	KindRecordValueAlt: {"value": {Allowed: FamilyValue}},
	KindPortAssign:      {"value": {Allowed: FamilyValue}, "type": {Allowed: FamilyType}},
	KindParameterAssign: {"value": {Allowed: FamilyValue}},
	KindValueTPAssign:   {"value": {Allowed: FamilyValue}},
	KindTypeTPAssign:    {"type": {Allowed: FamilyType}},
}

// SlotsOf returns the declared slot schema for kind (nil if it declares no
// child slots).
func SlotsOf(kind Kind) map[string]SlotSpec { return schema[kind] }

// slotOrder fixes the traversal/print order of each Kind's slots (SPEC_FULL
// §5: "Visitor order matches child-slot schema order"; §6.1: "attribute
// order is stable"). Mirrors the declaration order in schema above.
var slotOrder = map[Kind][]string{
	KindBitvector:      {"range"},
	KindSigned:         {"range"},
	KindUnsigned:       {"range"},
	KindArray:          {"range", "type"},
	KindRecord:         {"fields"},
	KindEnum:           {"values"},
	KindPointer:        {"type"},
	KindReference:      {"type"},
	KindTypeReference:  {"templateArguments"},
	KindViewReference:  {"templateArguments"},
	KindAggregate:      {"alts", "other"},
	KindRecordValue:    {"alts"},
	KindExpression:     {"op1", "op2"},
	KindCast:           {"type", "value"},
	KindMember:         {"prefix", "index"},
	KindSlice:          {"prefix", "range"},
	KindFieldReference: {"prefix"},
	KindFunctionCall:   {"parameterAssigns", "templateAssigns"},
	KindWhen:           {"alts", "default"},
	KindWith:           {"condition", "alts", "default"},
	KindAssign:         {"lhs", "rhs"},
	KindProcedureCall:  {"parameterAssigns"},
	KindIf:             {"alts", "defaults"},
	KindFor:            {"initDeclarations", "condition", "stepActions", "actions"},
	KindWhile:          {"condition", "actions"},
	KindSwitch:         {"condition", "alts", "defaults"},
	KindReturn:         {"value"},
	KindWait:           {"time", "actions"},
	KindValueStatement: {"value"},
	KindTransition:     {"condition", "actions"},
	KindVariable:       {"type", "value"},
	KindSignal:         {"type", "value"},
	KindPort:           {"type", "value"},
	KindConst:          {"type", "value"},
	KindAlias:          {"value"},
	KindParameter:      {"type", "value"},
	KindEnumValue:      {"value"},
	KindField:          {"type"},
	KindTypeDef:        {"type", "templateParameters"},
	KindValueTP:        {"type", "value"},
	KindTypeTP:         {"type"},
	KindFunction:       {"returnType", "parameters", "templateParameters", "declarations", "actions"},
	KindProcedure:      {"parameters", "templateParameters", "declarations", "actions"},
	KindView:           {"templateParameters", "entity", "contents", "inheritances"},
	KindDesignUnit:     {"views"},
	KindEntity:         {"ports", "parameters"},
	KindContents:       {"declarations", "stateTables", "generates", "instances", "actions"},
	KindLibraryDef:     {"declarations", "libraries"},
	KindStateTable:     {"states", "declarations", "sensitivity"},
	KindState:          {"actions", "transitions"},
	KindSystem:         {"designUnits", "libraryDefs", "declarations"},
	KindIfAlt:          {"condition", "actions"},
	KindSwitchAlt:      {"conditions", "actions"},
	KindWhenAlt:        {"condition", "value"},
	KindWithAlt:        {"conditions", "value"},
	KindAggregateAlt:   {"value"},
	KindRecordValueAlt: {"value"},
	KindPortAssign:      {"value", "type"},
	KindParameterAssign: {"value"},
	KindValueTPAssign:   {"value"},
	KindTypeTPAssign:    {"type"},
}

// SlotOrder returns the stable slot-name order for kind.
func SlotOrder(kind Kind) []string { return slotOrder[kind] }

// CheckSlot validates that childKind may be attached to slot name of a
// parentKind node, returning a descriptive error otherwise. This is the
// "enforced at construction/attachment" check of SPEC_FULL.md §3.3.
func CheckSlot(parentKind Kind, slot string, childKind Kind) error {
	spec, ok := schema[parentKind][slot]
	if !ok {
		return fmt.Errorf("hifast: %s has no slot %q", parentKind, slot)
	}
	if childKind.Family() != spec.Allowed {
		return fmt.Errorf(
			"hifast: slot %s.%s requires a %v-family node, got %s (%v-family)",
			parentKind, slot, spec.Allowed, childKind, childKind.Family(),
		)
	}
	return nil
}

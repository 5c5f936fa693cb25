package manipulation

import (
	"strings"

	"github.com/esd-univr/hif-core-sub007/arena"
	"github.com/esd-univr/hif-core-sub007/copyengine"
	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/resolver"
	"github.com/esd-univr/hif-core-sub007/trash"
	"github.com/esd-univr/hif-core-sub007/visitor"
)

// FixTemplateOptions mirrors hif::manipulation::FixTemplateOptions.
type FixTemplateOptions struct {
	// UseHdtLib forces synthesized default template arguments to be marked
	// ConstExpr regardless of SetConstExpr, matching hdtlib's convention
	// that every template argument it generates is a compile-time constant.
	UseHdtLib bool
	// SetConstExpr marks every synthesized default argument's value
	// ConstExpr.
	SetConstExpr bool
	// FixStandardDeclarations, when false (the default), skips
	// TypeReference/ViewReference nodes whose resolved declaration
	// IsStandardLibrary reports true; when true every declaration is
	// eligible.
	FixStandardDeclarations bool
	// IsStandardLibrary reports whether decl is part of a standard
	// library, consulted only when !FixStandardDeclarations.
	IsStandardLibrary func(name string) bool
}

// DefaultFixTemplateOptions matches the original's constructor defaults.
func DefaultFixTemplateOptions() FixTemplateOptions {
	return FixTemplateOptions{}
}

// FixTemplateParameters fills in trailing template arguments a
// TypeReference/ViewReference omitted, copying each missing parameter's own
// default from its declaration's templateParameters — grounded on
// fixTemplateParameters.hpp: "adjusts template parameters... based on the
// provided options and semantics."
func FixTemplateParameters(tree *hifast.Tree, root hifast.Handle, res *resolver.Resolver, opt FixTemplateOptions) *Result {
	r := newResult()
	g := &templateParamFixer{tree: tree, res: res, factory: hifast.NewFactory(tree), opt: opt, result: r}
	visitor.Walk(tree, root, g)
	elevateBadScopeDeclarations(tree, root, res, opt, r)
	return r
}

type templateParamFixer struct {
	visitor.BaseGuide
	tree    *hifast.Tree
	res     *resolver.Resolver
	factory *hifast.Factory
	opt     FixTemplateOptions
	result  *Result
}

func (g *templateParamFixer) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	g.result.Stats.NodesVisited++
	n := t.Get(h)
	if n.Kind != hifast.KindTypeReference && n.Kind != hifast.KindViewReference {
		return hifast.Nil
	}

	decl, err := g.res.Resolve(h)
	if err != nil {
		g.result.addDiag("warning", "template reference could not be resolved: "+err.Error(), t.String(h))
		return hifast.Nil
	}
	dn := t.Get(decl)
	if !g.opt.FixStandardDeclarations && g.opt.IsStandardLibrary != nil && g.opt.IsStandardLibrary(dn.Decl.Name) {
		return hifast.Nil
	}

	params := dn.ChildLists["templateParameters"]
	args := n.ChildLists["templateArguments"]
	if len(args) >= len(params) {
		return hifast.Nil
	}

	copier := copyengine.New(t, t, copyengine.DefaultPolicy())
	for _, param := range params[len(args):] {
		assign, ok := g.defaultAssignFor(t, param, copier)
		if !ok {
			g.result.addDiag("warning", "template parameter has no default", t.String(param))
			return hifast.Nil
		}
		if err := t.AppendList(h, "templateArguments", assign); err != nil {
			g.result.addDiag("error", "could not append default template argument: "+err.Error(), t.String(h))
			return hifast.Nil
		}
		g.result.fixed()
	}
	return hifast.Nil
}

// defaultAssignFor builds a TPAssign carrying a copy of param's own default
// (ValueTP.value or TypeTP.type), or reports ok=false when param has none.
func (g *templateParamFixer) defaultAssignFor(t *hifast.Tree, param hifast.Handle, copier *copyengine.Engine) (hifast.Handle, bool) {
	pn := t.Get(param)
	switch pn.Kind {
	case hifast.KindValueTP:
		def := pn.Children["value"]
		if def.IsNil() {
			return hifast.Nil, false
		}
		value := copier.Copy(def)
		if g.opt.SetConstExpr || g.opt.UseHdtLib {
			vn := t.Get(value)
			vn.Value.ConstExpr = true
			t.Put(value, vn)
		}
		assign := t.NewNode(hifast.KindValueTPAssign)
		_ = t.SetSingle(assign, "value", value)
		return assign, true
	case hifast.KindTypeTP:
		def := pn.Children["type"]
		if def.IsNil() {
			return hifast.Nil, false
		}
		assign := t.NewNode(hifast.KindTypeTPAssign)
		_ = t.SetSingle(assign, "type", copier.Copy(def))
		return assign, true
	default:
		return hifast.Nil, false
	}
}

// elevateBadScopeDeclarations implements fixTemplateParameters.cpp's other
// responsibility beyond filling missing arguments: a Const/Variable/
// Parameter declaration referenced from a span/range bound is not a legal
// template actual in most backends (SPEC_FULL.md §8 scenario 3), so it is
// moved ("elevated") into a template parameter of the nearest enclosing
// templated declaration, and every reference to it is retargeted.
func elevateBadScopeDeclarations(tree *hifast.Tree, root hifast.Handle, res *resolver.Resolver, opt FixTemplateOptions, result *Result) {
	e := &elevator{
		tree: tree, root: root, res: res, opt: opt, result: result,
		factory: hifast.NewFactory(tree), toRemove: make(map[hifast.Handle]bool),
	}
	for _, decl := range e.findBadScopeConstants() {
		result.Stats.NodesVisited++
		e.elevate(decl)
	}
	tr := trash.New(tree)
	for decl := range e.toRemove {
		if tree.Nodes.Alive(decl) {
			tr.Insert(decl)
		}
	}
	tr.Clear(hifast.Nil)
}

type elevator struct {
	tree     *hifast.Tree
	root     hifast.Handle
	res      *resolver.Resolver
	opt      FixTemplateOptions
	factory  *hifast.Factory
	result   *Result
	toRemove map[hifast.Handle]bool
}

// findBadScopeConstants walks every Bitvector/Signed/Unsigned/Array type
// under root and collects the distinct Const/Variable/Parameter
// declarations resolved from an Identifier anywhere inside that type's
// "range" bound — exactly the "used in a bad scope" condition the original
// flags (a span bound is evaluated well before a template-parameter scope
// exists, so a reference to an ordinary declaration there cannot survive
// monomorphization).
func (e *elevator) findBadScopeConstants() []hifast.Handle {
	t := e.tree
	seen := make(map[hifast.Handle]bool)
	var out []hifast.Handle
	t.ForEachDescendant(e.root, func(h hifast.Handle) {
		n := t.Get(h)
		switch n.Kind {
		case hifast.KindBitvector, hifast.KindSigned, hifast.KindUnsigned, hifast.KindArray:
		default:
			return
		}
		rng := n.Children["range"]
		if rng.IsNil() {
			return
		}
		t.ForEachDescendant(rng, func(d hifast.Handle) {
			dn := t.Get(d)
			if dn.Kind != hifast.KindIdentifier {
				return
			}
			decl, err := e.res.Resolve(d)
			if err != nil {
				return
			}
			switch t.Get(decl).Kind {
			case hifast.KindConst, hifast.KindVariable, hifast.KindParameter:
			default:
				return
			}
			if !seen[decl] {
				seen[decl] = true
				out = append(out, decl)
			}
		})
	})
	return out
}

// nearestTemplateScope walks up from decl to the nearest ancestor that owns
// a templateParameters list (View, TypeDef, Function, Procedure).
func (e *elevator) nearestTemplateScope(decl hifast.Handle) hifast.Handle {
	t := e.tree
	p := t.Nodes.ParentOf(decl)
	for !p.IsNil() {
		switch t.Get(p).Kind {
		case hifast.KindView, hifast.KindTypeDef, hifast.KindFunction, hifast.KindProcedure:
			return p
		}
		p = t.Nodes.ParentOf(p)
	}
	return hifast.Nil
}

// elevate dispatches on decl's declared type: String and Record need
// special reference rewrites because they cannot themselves become scalar
// template-parameter values; Time is rejected per SPEC_FULL.md §9 ("these
// are not specified and the rewrite should reject these cases with a clear
// diagnostic rather than silently passing"); everything else moves as-is.
func (e *elevator) elevate(decl hifast.Handle) {
	t := e.tree
	dn := t.Get(decl)
	typ := dn.Children["type"]
	if typ.IsNil() {
		e.elevateScalar(decl)
		return
	}
	switch t.Get(typ).Kind {
	case hifast.KindString:
		e.elevateString(decl)
	case hifast.KindRecord:
		e.elevateRecord(decl)
	case hifast.KindTime:
		e.result.addDiag("warning", "time-typed declaration used in a template scope cannot be elevated: unspecified, rejecting rather than guessing", t.String(decl))
	default:
		e.elevateScalar(decl)
	}
}

// elevateScalar moves decl's own type/value into a same-named ValueTP on
// the nearest template scope and repoints every reference to it.
func (e *elevator) elevateScalar(decl hifast.Handle) {
	t := e.tree
	scope := e.nearestTemplateScope(decl)
	if scope.IsNil() {
		e.result.addDiag("warning", "declaration has no enclosing templated declaration to elevate into", t.String(decl))
		return
	}
	dn := t.Get(decl)
	copier := copyengine.New(t, t, copyengine.DefaultPolicy())

	tp := t.NewNode(hifast.KindValueTP)
	tn := t.Get(tp)
	tn.Decl.Name = dn.Decl.Name
	t.Put(tp, tn)
	if typ := dn.Children["type"]; !typ.IsNil() {
		_ = t.SetSingle(tp, "type", copier.Copy(typ))
	}
	if val := dn.Children["value"]; !val.IsNil() {
		value := copier.Copy(val)
		if e.opt.SetConstExpr || e.opt.UseHdtLib {
			vn := t.Get(value)
			vn.Value.ConstExpr = true
			t.Put(value, vn)
		}
		_ = t.SetSingle(tp, "value", value)
	}
	if err := t.AppendList(scope, "templateParameters", tp); err != nil {
		e.result.addDiag("error", "could not elevate declaration into template parameters: "+err.Error(), t.String(decl))
		return
	}

	e.rewriteReferences(decl, tp, "")
	e.removeDeclaration(decl)
	e.result.fixed()
}

// elevateString elevates a String-typed Const by interning its literal as a
// member of a shared Enum ("hif_string_names", attached at root's own
// declaration scope) and retargeting every reference at that member instead
// of at a new template parameter — SPEC_FULL.md §8 scenario 3: a
// String-typed declaration cannot itself become a template actual, but the
// values it ever held form a closed, enumerable set.
func (e *elevator) elevateString(decl hifast.Handle) {
	t := e.tree
	scope := e.nearestTemplateScope(decl)
	if scope.IsNil() {
		e.result.addDiag("warning", "declaration has no enclosing templated declaration to elevate into", t.String(decl))
		return
	}

	enumDecl, enumType := e.stringEnum()
	if enumDecl.IsNil() {
		e.result.addDiag("error", "could not locate or create hif_string_names enum", t.String(decl))
		return
	}

	literal := sanitizeIdent(e.stringLiteralOf(decl))
	member := e.findOrCreateEnumValue(enumType, literal)

	tp := t.NewNode(hifast.KindValueTP)
	tn := t.Get(tp)
	tn.Decl.Name = t.Get(decl).Decl.Name
	t.Put(tp, tn)

	typeRef := t.NewNode(hifast.KindTypeReference)
	rn := t.Get(typeRef)
	rn.Type.Name = t.Get(enumDecl).Decl.Name
	rn.ResolvedDecl = enumDecl
	t.Put(typeRef, rn)
	_ = t.SetSingle(tp, "type", typeRef)

	ident := e.factory.Identifier(literal)
	in := t.Get(ident)
	in.ResolvedDecl = member
	t.Put(ident, in)
	_ = t.SetSingle(tp, "value", ident)

	if err := t.AppendList(scope, "templateParameters", tp); err != nil {
		e.result.addDiag("error", "could not elevate declaration into template parameters: "+err.Error(), t.String(decl))
		return
	}

	e.rewriteReferences(decl, member, literal)
	e.removeDeclaration(decl)
	e.result.fixed()
}

// stringEnum finds the TypeDef named "hif_string_names" under root's own
// declarations list, creating an empty one if none exists yet, and returns
// both the TypeDef and its Enum type node.
func (e *elevator) stringEnum() (hifast.Handle, hifast.Handle) {
	const enumName = "hif_string_names"
	t := e.tree
	rn := t.Get(e.root)
	for _, child := range rn.ChildLists["declarations"] {
		cn := t.Get(child)
		if cn.Kind == hifast.KindTypeDef && cn.Decl.Name == enumName {
			return child, cn.Children["type"]
		}
	}

	enumType := t.NewNode(hifast.KindEnum)
	def := t.NewNode(hifast.KindTypeDef)
	dn := t.Get(def)
	dn.Decl.Name = enumName
	t.Put(def, dn)
	if err := t.SetSingle(def, "type", enumType); err != nil {
		return hifast.Nil, hifast.Nil
	}
	if err := t.AppendList(e.root, "declarations", def); err != nil {
		return hifast.Nil, hifast.Nil
	}
	return def, enumType
}

// findOrCreateEnumValue returns the EnumValue member of enumType named
// name, creating it if this literal hasn't been interned yet.
func (e *elevator) findOrCreateEnumValue(enumType hifast.Handle, name string) hifast.Handle {
	t := e.tree
	en := t.Get(enumType)
	for _, v := range en.ChildLists["values"] {
		if t.Get(v).Decl.Name == name {
			return v
		}
	}
	member := t.NewNode(hifast.KindEnumValue)
	mn := t.Get(member)
	mn.Decl.Name = name
	t.Put(member, mn)
	_ = t.AppendList(enumType, "values", member)
	return member
}

// stringLiteralOf returns decl's initial string value, or its own
// declaration name when it has none (an uninitialized String-typed
// declaration has no literal to intern, so its name stands in for it).
func (e *elevator) stringLiteralOf(decl hifast.Handle) string {
	t := e.tree
	dn := t.Get(decl)
	if val := dn.Children["value"]; !val.IsNil() {
		vn := t.Get(val)
		if vn.Kind == hifast.KindStringValue && vn.Value.StringLit != "" {
			return vn.Value.StringLit
		}
	}
	return dn.Decl.Name
}

// elevateRecord unpacks a Record-typed declaration field by field into one
// ValueTP per field, rewriting every FieldReference that selects a field of
// decl into a direct Identifier on the matching parameter. A bare reference
// to decl itself (not through a FieldReference) cannot be supported by
// unpacking, so it is rejected with a diagnostic instead of silently
// dropped.
func (e *elevator) elevateRecord(decl hifast.Handle) {
	t := e.tree
	scope := e.nearestTemplateScope(decl)
	if scope.IsNil() {
		e.result.addDiag("warning", "declaration has no enclosing templated declaration to elevate into", t.String(decl))
		return
	}

	dn := t.Get(decl)
	recordType := dn.Children["type"]
	fields := t.Get(recordType).ChildLists["fields"]
	if len(fields) == 0 {
		e.result.addDiag("warning", "record-typed declaration has no fields to unpack", t.String(decl))
		return
	}

	var alts []hifast.Handle
	if val := dn.Children["value"]; !val.IsNil() {
		alts = t.Get(val).ChildLists["alts"]
	}

	fieldRefs, bareRefs := e.collectFieldReferences(decl)
	if len(bareRefs) > 0 {
		e.result.addDiag("warning", "record-typed declaration is referenced as a whole value and cannot be unpacked", t.String(decl))
		return
	}

	copier := copyengine.New(t, t, copyengine.DefaultPolicy())
	fieldParams := make(map[string]hifast.Handle, len(fields))
	for _, field := range fields {
		fn := t.Get(field)
		tp := t.NewNode(hifast.KindValueTP)
		tn := t.Get(tp)
		tn.Decl.Name = dn.Decl.Name + "_" + fn.Decl.Name
		t.Put(tp, tn)
		if ftype := fn.Children["type"]; !ftype.IsNil() {
			_ = t.SetSingle(tp, "type", copier.Copy(ftype))
		}
		if alt := findAlt(t, alts, fn.Decl.Name); !alt.IsNil() {
			if altVal := t.Get(alt).Children["value"]; !altVal.IsNil() {
				value := copier.Copy(altVal)
				if e.opt.SetConstExpr || e.opt.UseHdtLib {
					vn := t.Get(value)
					vn.Value.ConstExpr = true
					t.Put(value, vn)
				}
				_ = t.SetSingle(tp, "value", value)
			}
		}
		if err := t.AppendList(scope, "templateParameters", tp); err != nil {
			e.result.addDiag("error", "could not elevate record field into template parameters: "+err.Error(), t.String(field))
			continue
		}
		fieldParams[fn.Decl.Name] = tp
	}

	for _, ref := range fieldRefs {
		rn := t.Get(ref)
		tp, ok := fieldParams[rn.Value.Name]
		if !ok {
			e.result.addDiag("warning", "record field reference has no matching elevated parameter", t.String(ref))
			continue
		}
		ident := e.factory.Identifier(t.Get(tp).Decl.Name)
		in := t.Get(ident)
		in.ResolvedDecl = tp
		t.Put(ident, in)
		replaceNode(t, ref, ident)
	}

	e.removeDeclaration(decl)
	e.result.fixed()
}

// collectFieldReferences partitions every symbolic reference to decl found
// under root into FieldReference nodes selecting one of decl's fields
// (fieldRefs) and anything else (bareRefs, e.g. a plain Identifier naming
// decl directly).
func (e *elevator) collectFieldReferences(decl hifast.Handle) (fieldRefs, bareRefs []hifast.Handle) {
	t := e.tree
	t.ForEachDescendant(e.root, func(h hifast.Handle) {
		n := t.Get(h)
		switch n.Kind.Family() {
		case hifast.FamilyValue, hifast.FamilyType:
		default:
			return
		}
		if h == decl {
			return
		}
		resolved := n.ResolvedDecl
		if resolved.IsNil() {
			d, err := e.res.Resolve(h)
			if err != nil {
				return
			}
			resolved = d
		}
		if resolved != decl {
			return
		}
		parent := t.Nodes.ParentOf(h)
		if !parent.IsNil() && t.Get(parent).Kind == hifast.KindFieldReference {
			ref := t.Nodes.SlotOf(h)
			if ref.Slot == "prefix" {
				fieldRefs = append(fieldRefs, parent)
				return
			}
		}
		bareRefs = append(bareRefs, h)
	})
	return fieldRefs, bareRefs
}

// rewriteReferences repoints every symbolic reference to oldDecl found
// under root at newDecl; when name is non-empty it also updates the
// reference's display name (used when the replacement is a differently
// named Enum member rather than a same-named template parameter).
func (e *elevator) rewriteReferences(oldDecl, newDecl hifast.Handle, name string) {
	t := e.tree
	t.ForEachDescendant(e.root, func(h hifast.Handle) {
		n := t.Get(h)
		switch n.Kind.Family() {
		case hifast.FamilyValue, hifast.FamilyType:
		default:
			return
		}
		if h == oldDecl || h == newDecl {
			return
		}
		resolved := n.ResolvedDecl
		if resolved.IsNil() {
			d, err := e.res.Resolve(h)
			if err != nil {
				return
			}
			resolved = d
		}
		if resolved != oldDecl {
			return
		}
		n.ResolvedDecl = newDecl
		if name != "" {
			n.Value.Name = name
		}
		t.Put(h, n)
	})
}

// removeDeclaration defers destruction of decl to the batch trash.Clear at
// the end of elevateBadScopeDeclarations, matching resolveTemplates's
// pattern of not mutating the tree mid-traversal.
func (e *elevator) removeDeclaration(decl hifast.Handle) {
	e.toRemove[decl] = true
}

// replaceNode swaps old for replacement in old's parent slot, leaving old
// detached (a local equivalent of visitor's unexported replaceInParent,
// needed here outside of a Guide.BeforeVisit callback).
func replaceNode(t *hifast.Tree, old, replacement hifast.Handle) {
	parent := t.Nodes.ParentOf(old)
	if parent.IsNil() {
		return
	}
	ref := t.Nodes.SlotOf(old)
	if ref.Kind == arena.SlotSingle {
		_ = t.SetSingle(parent, ref.Slot, replacement)
		return
	}
	p := t.Get(parent)
	list := append([]hifast.Handle(nil), p.ChildLists[ref.Slot]...)
	if ref.Index >= 0 && ref.Index < len(list) {
		list[ref.Index] = replacement
	}
	_ = t.SetList(parent, ref.Slot, list)
}

// findAlt returns the RecordValueAlt in alts whose FormalName is fieldName,
// or Nil if none matches.
func findAlt(t *hifast.Tree, alts []hifast.Handle, fieldName string) hifast.Handle {
	for _, alt := range alts {
		if t.Get(alt).Alt.FormalName == fieldName {
			return alt
		}
	}
	return hifast.Nil
}

// sanitizeIdent turns an arbitrary string literal into a legal enum-member
// identifier: non [A-Za-z0-9_] runs become '_', and a leading digit is
// prefixed with '_' since HIF identifiers follow ordinary HDL lexical rules.
func sanitizeIdent(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

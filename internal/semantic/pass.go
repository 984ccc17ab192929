// Package semantic implements the Semantic Pass (spec §4.4): a Copy
// Visitor plus a symbol-scope stack plus a reference to the type table,
// eliminating every Unresolved* AST node and producing a fully-typed
// tree. Grounded on the teacher's internal/semantic/analyzer.go (overall
// pass shape, built-in bootstrap-on-construction pattern) and
// internal/semantic/passes/pass_context.go (the aggregated-state struct
// this Pass's fields mirror), with exact resolution semantics taken from
// _examples/original_source/ast/semantic_pass.cc where spec.md was silent.
package semantic

import (
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/diag"
	"github.com/quill-lang/quillc/internal/scope"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

// Pass is the Semantic Pass. It embeds ast.Default so unhandled node kinds
// fall back to the identity copy; Self must be set to the Pass itself so
// the embedded Default's recursive calls reach these overrides.
type Pass struct {
	ast.Default

	Tree    *ast.Tree
	Types   *types.Table
	Native  *builtins.NativeClasses
	Sink    *diag.Sink
	Scope   *scope.Stack
	Helpers *Helpers

	currentClass     types.Handle // 0 outside a method body
	currentReturn    types.Handle // declared return type of the enclosing method
	methodScopeDepth int          // scope.Stack depth of the method-body scope; return unwinds down to here
}

// Helpers bundles the auxiliary state a class-body resolution needs but
// that doesn't belong on Pass's primary field list (kept separate so
// Pass's own fields mirror spec §4.4's "visitor + scope stack + type
// table + validation queue" description exactly).
type Helpers struct {
	// PendingAPIValidation is the queue of (type, location) pairs the
	// Semantic Pass enqueues for the API Validator to check once
	// resolution finishes (spec §4.4).
	PendingAPIValidation []PendingValidation
}

// PendingValidation is one entry of the post-resolution API-validation queue.
type PendingValidation struct {
	Type types.Handle
	Loc  source.Location
}

// New builds a Pass with an empty global scope seeded with native classes.
func New(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses, sink *diag.Sink) *Pass {
	p := &Pass{
		Tree:    tree,
		Types:   tbl,
		Native:  native,
		Sink:    sink,
		Scope:   scope.NewStack(),
		Helpers: &Helpers{},
	}
	p.Self = p
	p.seedGlobalScope()
	return p
}

// seedGlobalScope binds every native class name into the outermost scope
// as a type binding (spec §6.1).
func (p *Pass) seedGlobalScope() {
	if p.Native == nil {
		return
	}
	for name, h := range p.Native.ByName {
		p.Scope.DefineType(name, h)
	}
}

// Run resolves every top-level statement in roots, in order, then drains
// the class-template instance queue until it stays empty, lazily
// resolving class bodies discovered along the way (spec §4.4.8/§3.1: "a
// new instance is created on first request and enqueued for resolution").
func (p *Pass) Run(roots []ast.Handle) []ast.Handle {
	out := make([]ast.Handle, len(roots))
	for i, r := range roots {
		out[i] = p.VisitStmt(p.Tree, r)
	}
	for {
		pending := p.Types.PopInstanceQueue()
		if len(pending) == 0 {
			break
		}
		for _, inst := range pending {
			p.enqueueValidation(inst, source.Unknown)
			p.resolveClassBody(inst)
		}
	}
	return out
}

// enqueueValidation records typ for the API Validator to check after
// resolution finishes.
func (p *Pass) enqueueValidation(typ types.Handle, loc source.Location) {
	p.Helpers.PendingAPIValidation = append(p.Helpers.PendingAPIValidation, PendingValidation{Type: typ, Loc: loc})
}

// Package scope implements the Symbol Scope Stack (spec §3.3/§4.3): an
// ordered sequence of local variable records plus two bindings —
// identifier to expression-handle and identifier to type — looked up
// innermost-to-outermost, last-defined-wins. Complexity intentionally
// lives in internal/semantic, not here.
package scope

import (
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/types"
)

// Var is a local variable record: a name, a type, and a back-reference
// (its declaring VarDecl statement's handle) the emitter uses to
// materialize storage (spec §3.3).
type Var struct {
	Name string
	Type types.Handle
	Decl ast.Handle // the VarDecl statement handle that introduced it
}

// scopeFrame is one level of the stack.
type scopeFrame struct {
	vars  []Var
	exprs map[string]ast.Handle  // identifier -> bound expression
	types map[string]types.Handle // identifier -> bound type (type aliases, template args)
}

func newFrame() *scopeFrame {
	return &scopeFrame{
		exprs: make(map[string]ast.Handle),
		types: make(map[string]types.Handle),
	}
}

// Stack is the live scope stack for one pass's traversal.
type Stack struct {
	frames []*scopeFrame
}

// NewStack creates a Stack with one (global) frame already pushed.
func NewStack() *Stack {
	s := &Stack{}
	s.Push()
	return s
}

// Push enters a new lexical scope.
func (s *Stack) Push() { s.frames = append(s.frames, newFrame()) }

// Pop exits the innermost lexical scope, returning the Vars it declared in
// declaration order — callers needing reverse order for destructor
// synthesis (spec §4.4.6) reverse the slice themselves.
func (s *Stack) Pop() []Var {
	n := len(s.frames)
	top := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return top.vars
}

func (s *Stack) top() *scopeFrame { return s.frames[len(s.frames)-1] }

// DefineExpr binds name to expr in the innermost scope. It reports false
// (and does not bind) if name is already defined in that same innermost
// scope — shadowing an outer scope's binding is fine, redefining within
// one scope is not.
func (s *Stack) DefineExpr(name string, typ types.Handle, expr ast.Handle, decl ast.Handle) bool {
	f := s.top()
	if _, exists := f.exprs[name]; exists {
		return false
	}
	f.exprs[name] = expr
	f.vars = append(f.vars, Var{Name: name, Type: typ, Decl: decl})
	return true
}

// DefineType binds name to a type in the innermost scope (used for type
// aliases and formal template arguments in scope during class-body
// resolution). Reports false if already bound in this scope.
func (s *Stack) DefineType(name string, typ types.Handle) bool {
	f := s.top()
	if _, exists := f.types[name]; exists {
		return false
	}
	f.types[name] = typ
	return true
}

// LookupExpr performs a last-defined-wins, innermost-to-outermost linear
// scan for an identifier-to-expression binding.
func (s *Stack) LookupExpr(name string) (ast.Handle, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if h, ok := s.frames[i].exprs[name]; ok {
			return h, true
		}
	}
	return 0, false
}

// LookupType performs the same scan for an identifier-to-type binding.
func (s *Stack) LookupType(name string) (types.Handle, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if h, ok := s.frames[i].types[name]; ok {
			return h, true
		}
	}
	return 0, false
}

// Depth reports how many frames are currently on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// VarsAbove returns the declared Vars of every frame strictly deeper than
// depth, ordered innermost-frame-first; each frame's own vars stay in
// declaration order (callers reverse per-frame for destructor synthesis).
// Used by return-statement scope-unwind splicing (spec §4.4.7) to collect
// every local between the return and the enclosing method body without
// popping the frames — a return mid-block must not discard the rest of
// the block's scope.
func (s *Stack) VarsAbove(depth int) [][]Var {
	var out [][]Var
	for i := len(s.frames) - 1; i > depth; i-- {
		out = append(out, s.frames[i].vars)
	}
	return out
}

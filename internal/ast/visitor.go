package ast

import "github.com/quill-lang/quillc/internal/source"

// Visitor is the double-dispatch object passes subclass: one VisitExpr and
// one VisitStmt hook, which a pass overrides and switches on the node's
// Kind, delegating every kind it does not handle to Default's fallback
// (spec §4.2). Embedding Default and overriding these hooks is the usage,
// mirroring the teacher's own
// default-fallback visitor shape in its semantic analyze_*.go files.
type Visitor interface {
	VisitExpr(t *Tree, h Handle) Handle
	VisitStmt(t *Tree, h Handle) Handle
}

// Default is the identity Copy Visitor: every node is reallocated as an
// unmodified copy. Embed it and override VisitExpr/VisitStmt through a
// concrete pass type; Default's VisitExpr/VisitStmt recurse into children
// by calling back into the embedding type via the Visitor interface so
// overrides actually take effect despite Go's lack of virtual dispatch.
type Default struct {
	// Self is the outermost Visitor; passes must set Self = themselves
	// after embedding Default so VisitExpr/VisitStmt's recursive calls
	// dispatch back through the pass's own overrides rather than looping
	// through Default's own identity methods.
	Self Visitor
}

func (d *Default) self() Visitor {
	if d.Self != nil {
		return d.Self
	}
	return d
}

// VisitExpr is the fallback hook: copy the node, recursing into every
// child handle through the active Visitor.
func (d *Default) VisitExpr(t *Tree, h Handle) Handle {
	if h == 0 {
		return 0
	}
	e := t.Expr(h)
	self := d.self()
	e.LHS = visitExprHandle(self, t, e.LHS)
	e.RHS = visitExprHandle(self, t, e.RHS)
	e.Base = visitExprHandle(self, t, e.Base)
	e.Index = visitExprHandle(self, t, e.Index)
	e.Low = visitExprHandle(self, t, e.Low)
	e.High = visitExprHandle(self, t, e.High)
	e.Count = visitExprHandle(self, t, e.Count)
	if len(e.Args) > 0 {
		args := make([]Handle, len(e.Args))
		for i, a := range e.Args {
			args[i] = visitExprHandle(self, t, a)
		}
		e.Args = args
	}
	if len(e.Elements) > 0 {
		elems := make([]Handle, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = visitExprHandle(self, t, el)
		}
		e.Elements = elems
	}
	return t.PutExpr(e)
}

// VisitStmt is the fallback hook for statements.
func (d *Default) VisitStmt(t *Tree, h Handle) Handle {
	if h == 0 {
		return 0
	}
	s := t.Stmt(h)
	self := d.self()
	s.Init = visitExprHandle(self, t, s.Init)
	s.Target = visitExprHandle(self, t, s.Target)
	s.Value = visitExprHandle(self, t, s.Value)
	s.Cond = visitExprHandle(self, t, s.Cond)
	s.ReturnValue = visitExprHandle(self, t, s.ReturnValue)
	s.DestroyVar = visitExprHandle(self, t, s.DestroyVar)
	s.ForCond = visitExprHandle(self, t, s.ForCond)

	s.Then = visitStmtHandle(self, t, s.Then)
	s.Else = visitStmtHandle(self, t, s.Else)
	s.ForInit = visitStmtHandle(self, t, s.ForInit)
	s.ForPost = visitStmtHandle(self, t, s.ForPost)
	s.ForBody = visitStmtHandle(self, t, s.ForBody)

	if len(s.Stmts) > 0 {
		stmts := make([]Handle, len(s.Stmts))
		for i, c := range s.Stmts {
			stmts[i] = visitStmtHandle(self, t, c)
		}
		s.Stmts = stmts
	}
	return t.PutStmt(s)
}

func visitExprHandle(v Visitor, t *Tree, h Handle) Handle {
	if h == 0 {
		return 0
	}
	return v.VisitExpr(t, h)
}

func visitStmtHandle(v Visitor, t *Tree, h Handle) Handle {
	if h == 0 {
		return 0
	}
	return v.VisitStmt(t, h)
}

// ResolveExpr copies h through v, then stamps the copy's location with
// refLoc unless refLoc is invalid — the binding-site substitution used by
// identifier resolution (spec §4.2/§4.4.1: "the identifier's source
// location [is] replaced by the reference site unless the binding opts
// out"). Passing an invalid Location is how constants, default arguments,
// and class-field prototypes keep their defining location.
func ResolveExpr(t *Tree, v Visitor, h Handle, refLoc source.Location) Handle {
	out := v.VisitExpr(t, h)
	if out == 0 || !refLoc.IsValid() {
		return out
	}
	e := t.Expr(out)
	e.Loc = refLoc
	return t.PutExpr(e)
}

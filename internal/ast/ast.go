// Package ast defines the arena-resident AST node representation for the
// compiler core. Nodes are allocated inside a single Arena bound to one
// compilation: no node ever outlives the arena, and nodes reference each
// other by non-owning Handle rather than by pointer (spec §3.2). The
// lifecycle is parse → raw arena → Semantic Pass grows the arena with
// rewritten copies → emitters read the final arena → drop all at once.
package ast

import (
	"github.com/quill-lang/quillc/internal/arena"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

// Handle is a non-owning reference into a Tree's expression or statement
// arena; which arena it indexes is determined by context (callers never
// mix expression handles and statement handles).
type Handle = arena.Handle

// ExprKind discriminates the tagged variant an Expr node realizes.
type ExprKind int

const (
	ExprIntegerLiteral ExprKind = iota
	ExprFloatLiteral
	ExprBoolLiteral
	ExprNullLiteral
	ExprEnumLiteral
	ExprBinaryOp
	ExprUnaryOp
	ExprCast
	ExprFieldAccess
	ExprArrayAccess
	ExprSlice
	ExprMethodCall
	ExprSwizzle
	ExprExtractElement
	ExprInsertElement
	ExprSmartToRawPtr
	ExprRawToSmartPtr
	ExprLoad
	ExprLength
	ExprHeapAlloc
	ExprTempVar
	ExprInitializerList

	// Unresolved variants the Semantic Pass eliminates.
	ExprUnresolvedIdentifier
	ExprUnresolvedDot
	ExprUnresolvedStaticDot
	ExprUnresolvedMethodCall
	ExprUnresolvedStaticMethodCall
	ExprUnresolvedNewExpr
	ExprUnresolvedInitializer
	ExprUnresolvedListExpr
)

func (k ExprKind) IsUnresolved() bool { return k >= ExprUnresolvedIdentifier }

// BinaryOp enumerates the binary operators the Semantic Pass type-checks.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
)

// Expr is the tagged-variant expression node, realized (like types.Type)
// as one flat struct whose active fields are determined by Kind rather
// than as a node-kind class hierarchy.
type Expr struct {
	Kind ExprKind
	Loc  source.Location
	Type types.Handle // resolved type; zero until the Semantic Pass assigns it

	// Literals
	IntValue   int64
	FloatValue float64
	BoolValue  bool
	Name       string // enum value name / identifier text / field or method name

	// Operators
	BinOp BinaryOp
	UnOp  UnaryOp
	LHS   Handle
	RHS   Handle // also used as the single operand for unary/cast/deref forms

	// Field/array/method access
	Base      Handle
	Index     Handle // array index expression, or 0
	Args      []Handle
	Indices   []int // swizzle component indices, or insert/extract-element index set

	// Slices
	Low, High Handle

	// Initializer / list expressions
	Elements   []Handle
	FieldNames []string // parallel to Elements when the list is named

	// Temp var / heap alloc
	Count Handle // allocation count expression, or 0 for a single allocation
}

// StmtKind discriminates the tagged variant a Stmt node realizes.
type StmtKind int

const (
	StmtVarDecl StmtKind = iota
	StmtStore
	StmtZeroInit
	StmtExpr
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtReturn
	StmtDestroy
	StmtCompound
	StmtClassDefPlaceholder
)

// Stmt is the tagged-variant statement node.
type Stmt struct {
	Kind StmtKind
	Loc  source.Location

	// VarDecl
	VarName string
	VarType types.Handle
	Init    Handle // expression handle, or 0

	// Store. Also reused by StmtExpr (a bare expression statement, e.g. a
	// discarded method call): Target holds the expression handle and
	// Value is unused.
	Target Handle
	Value  Handle

	// If / While / DoWhile
	Cond Handle
	Then Handle // statement handle (usually a Compound)
	Else Handle // statement handle, or 0

	// For
	ForInit Handle // statement handle, or 0
	ForCond Handle
	ForPost Handle // statement handle, or 0
	ForBody Handle

	// Return
	ReturnValue  Handle   // expression handle, or 0 for a void return
	ReturnUnwind []Handle // Destroy statements spliced in innermost-to-outermost order (spec §4.4.7)

	// Destroy
	DestroyVar Handle // expression handle identifying the value to destroy

	// Compound
	Stmts []Handle

	// ClassDefPlaceholder
	ClassType types.Handle
}

// Tree owns one compilation's expression and statement arenas.
type Tree struct {
	Exprs *arena.Arena[Expr]
	Stmts *arena.Arena[Stmt]
}

// NewTree creates an empty Tree.
func NewTree() *Tree {
	return &Tree{
		Exprs: arena.New[Expr](),
		Stmts: arena.New[Stmt](),
	}
}

// PutExpr allocates e and returns its Handle.
func (t *Tree) PutExpr(e Expr) Handle { return t.Exprs.Put(e) }

// Expr dereferences an expression Handle.
func (t *Tree) Expr(h Handle) Expr { return t.Exprs.Get(h) }

// PutStmt allocates s and returns its Handle.
func (t *Tree) PutStmt(s Stmt) Handle { return t.Stmts.Put(s) }

// Stmt dereferences a statement Handle.
func (t *Tree) Stmt(h Handle) Stmt { return t.Stmts.Get(h) }

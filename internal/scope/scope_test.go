package scope

import "testing"

func TestDefineAndLookupInnermostWins(t *testing.T) {
	s := NewStack()
	if !s.DefineExpr("x", 1, 100, 0) {
		t.Fatal("first definition of x should succeed")
	}
	s.Push()
	if !s.DefineExpr("x", 2, 200, 0) {
		t.Fatal("shadowing x in an inner scope should succeed")
	}
	if h, ok := s.LookupExpr("x"); !ok || h != 200 {
		t.Errorf("LookupExpr(x) = (%v, %v), want (200, true)", h, ok)
	}
	s.Pop()
	if h, ok := s.LookupExpr("x"); !ok || h != 100 {
		t.Errorf("after Pop, LookupExpr(x) = (%v, %v), want (100, true)", h, ok)
	}
}

func TestRedefinitionInSameScopeRejected(t *testing.T) {
	s := NewStack()
	if !s.DefineExpr("x", 1, 100, 0) {
		t.Fatal("first definition should succeed")
	}
	if s.DefineExpr("x", 1, 999, 0) {
		t.Error("redefining x in the same scope should be rejected")
	}
}

func TestPopReturnsDeclarationOrder(t *testing.T) {
	s := NewStack()
	s.Push()
	s.DefineExpr("a", 1, 10, 0)
	s.DefineExpr("b", 1, 20, 0)
	s.DefineExpr("c", 1, 30, 0)
	vars := s.Pop()
	if len(vars) != 3 || vars[0].Name != "a" || vars[2].Name != "c" {
		t.Errorf("Pop order = %+v, want a, b, c", vars)
	}
}

func TestLookupMissingIdentifier(t *testing.T) {
	s := NewStack()
	if _, ok := s.LookupExpr("nope"); ok {
		t.Error("LookupExpr should fail for an undefined identifier")
	}
}

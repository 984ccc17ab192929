package arena

import "testing"

func TestPutGet(t *testing.T) {
	a := New[string]()
	h1 := a.Put("alpha")
	h2 := a.Put("beta")

	if got := a.Get(h1); got != "alpha" {
		t.Errorf("Get(h1) = %q, want alpha", got)
	}
	if got := a.Get(h2); got != "beta" {
		t.Errorf("Get(h2) = %q, want beta", got)
	}
	if h1 == Invalid || h2 == Invalid {
		t.Errorf("live handles must not equal Invalid")
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestSetOverwrites(t *testing.T) {
	a := New[int]()
	h := a.Put(1)
	a.Set(h, 2)
	if got := a.Get(h); got != 2 {
		t.Errorf("Get(h) after Set = %d, want 2", got)
	}
}

func TestAllSkipsSentinel(t *testing.T) {
	a := New[int]()
	a.Put(10)
	a.Put(20)

	var seen []int
	a.All(func(h Handle, v int) {
		if h == Invalid {
			t.Errorf("All visited the Invalid sentinel")
		}
		seen = append(seen, v)
	})
	if len(seen) != 2 {
		t.Errorf("All visited %d values, want 2", len(seen))
	}
}

package names

import "testing"

func TestTableCreateGet(t *testing.T) {
	var tab Table[string]
	a := tab.Create("a")
	b := tab.Create("b")
	if a != 1 || b != 2 {
		t.Fatalf("names = %d, %d; want 1, 2", a, b)
	}
	if v, ok := tab.Get(b); !ok || v != "b" {
		t.Errorf("Get(%d) = %q, %v", b, v, ok)
	}
	for _, id := range []uint32{0, 3, 100} {
		if _, ok := tab.Get(id); ok {
			t.Errorf("Get(%d) found an entry", id)
		}
	}
}

func TestTableDropReuses(t *testing.T) {
	var tab Table[int]
	a := tab.Create(10)
	tab.Create(20)

	if v, ok := tab.Drop(a); !ok || v != 10 {
		t.Fatalf("Drop(%d) = %d, %v", a, v, ok)
	}
	if _, ok := tab.Drop(a); ok {
		t.Error("second Drop succeeded")
	}
	if _, ok := tab.Get(a); ok {
		t.Error("dropped name still resolves")
	}
	if tab.Live() != 1 {
		t.Errorf("Live() = %d, want 1", tab.Live())
	}
	if c := tab.Create(30); c != a {
		t.Errorf("Create after Drop = %d, want reused %d", c, a)
	}
	if tab.Live() != 2 {
		t.Errorf("Live() = %d, want 2", tab.Live())
	}
}

func TestTableEach(t *testing.T) {
	var tab Table[rune]
	for _, r := range "abcd" {
		tab.Create(r)
	}
	tab.Drop(2)

	var got []rune
	tab.Each(func(id uint32, v rune) { got = append(got, v) })
	if string(got) != "acd" {
		t.Errorf("Each visited %q, want %q", string(got), "acd")
	}
}

package names

import (
	"reflect"
	"sort"
	"testing"
)

func TestRegistryAdd(t *testing.T) {
	r := New("Charlie", "Alice", "Bob")

	if got := r.Names(); !reflect.DeepEqual(got, []string{"Alice", "Bob", "Charlie"}) {
		t.Errorf("Names() = %v, want sorted seed", got)
	}

	if !r.Add("  Dave  ") {
		t.Error("Add with surrounding whitespace should insert the trimmed name")
	}
	if r.Contains("  Dave  ") || !r.Contains("Dave") {
		t.Error("stored entry should be trimmed")
	}

	if r.Add("Alice") {
		t.Error("exact duplicate should be a no-op")
	}
	if r.Add("   ") {
		t.Error("whitespace-only name should be a no-op")
	}

	// Storage is case-sensitive: a differently-cased entry is allowed here.
	if !r.Add("alice") {
		t.Error("case-different entry should insert")
	}
}

func TestRegistryRemove(t *testing.T) {
	r := New("Alice", "Bob")

	if !r.Remove("Alice") {
		t.Error("Remove of present entry should report change")
	}
	if r.Contains("Alice") {
		t.Error("entry should be gone after Remove")
	}
	if r.Remove("Alice") {
		t.Error("Remove of absent entry should be a no-op")
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"Bob"}) {
		t.Errorf("Names() = %v, want [Bob]", got)
	}
}

func TestRegistryRename(t *testing.T) {
	r := New("Alice", "Bob", "Charlie")

	if !r.Rename("Charlie", "Zed") {
		t.Error("rename to a fresh name should succeed")
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"Alice", "Bob", "Zed"}) {
		t.Errorf("Names() = %v, want [Alice Bob Zed]", got)
	}

	if r.Rename("Alice", "Bob") {
		t.Error("rename onto an existing entry should be a no-op")
	}
	if r.Rename("Alice", "Alice") {
		t.Error("rename to the same name should be a no-op")
	}
	if r.Rename("Alice", "   ") {
		t.Error("rename to an empty name should be a no-op")
	}
	if r.Rename("Nobody", "Someone") {
		t.Error("rename of an absent entry should be a no-op")
	}
}

func TestRegistryStaysSortedAndDeduplicated(t *testing.T) {
	r := New()
	ops := []func(){
		func() { r.Add("Mallory") },
		func() { r.Add("Bob") },
		func() { r.Add("Bob") },
		func() { r.Add("alice") },
		func() { r.Rename("Mallory", "Eve") },
		func() { r.Add("Eve") },
		func() { r.Remove("alice") },
		func() { r.Add("Zed") },
		func() { r.Rename("Zed", "Bob") },
	}

	for _, op := range ops {
		op()

		got := r.Names()
		if !sort.StringsAreSorted(got) {
			t.Fatalf("registry out of order: %v", got)
		}
		seen := make(map[string]bool, len(got))
		for _, name := range got {
			if seen[name] {
				t.Fatalf("duplicate entry %q in %v", name, got)
			}
			seen[name] = true
		}
	}
}

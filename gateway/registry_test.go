package gateway

import "testing"

func TestRegistryBindsFirstSocket(t *testing.T) {
	r := NewRegistry(nil)

	bound, accept := r.Bind(1, "sock-a")
	if !accept || bound != "sock-a" {
		t.Fatalf("expected first bind to be accepted at sock-a, got %q accept=%v", bound, accept)
	}

	bound, accept = r.Bind(1, "sock-a")
	if !accept || bound != "sock-a" {
		t.Fatalf("expected a repeat bind from the same socket to be accepted, got %q accept=%v", bound, accept)
	}
}

func TestRegistryRejectsForeignSocket(t *testing.T) {
	r := NewRegistry(nil)
	r.Bind(1, "sock-a")

	bound, accept := r.Bind(1, "sock-b")
	if accept {
		t.Fatal("expected a bind from a different socket to be rejected")
	}
	if bound != "sock-a" {
		t.Fatalf("expected the original binding to be reported, got %q", bound)
	}
}

func TestRegistryClientIdsOrderedAscending(t *testing.T) {
	r := NewRegistry(nil)
	r.Bind(5, "sock-a")
	r.Bind(1, "sock-b")
	r.Bind(3, "sock-c")

	ids := r.ClientIds()
	want := []uint64{1, 3, 5}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i, w := range want {
		if ids[i] != w {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestRegistryUnbindAllowsRebind(t *testing.T) {
	r := NewRegistry(nil)
	r.Bind(1, "sock-a")
	r.Unbind(1)

	bound, accept := r.Bind(1, "sock-b")
	if !accept || bound != "sock-b" {
		t.Fatalf("expected rebind to a new socket after Unbind, got %q accept=%v", bound, accept)
	}
}

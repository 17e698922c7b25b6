package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	def := []string{"GET"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("nil -> %v", got)
	}
	in := []string{"POST", "PUT"}
	if got := IfEmpty(in, def); len(got) != 2 {
		t.Fatalf("set -> %v", got)
	}
}

func TestMustString(t *testing.T) {
	if MustString("scoring", "module name") != "scoring" {
		t.Fatal("value not returned")
	}
	defer func() {
		r := recover()
		if r != "module name is required" {
			t.Fatalf("panic = %v", r)
		}
	}()
	MustString("  \t", "module name")
}

func TestPrefix(t *testing.T) {
	cases := map[string]string{
		"":            "/",
		"/":           "/",
		" // ":        "/",
		"predict":     "/predict",
		"/predict/":   "/predict",
		" /meta ":     "/meta",
		"/api/docs//": "/api/docs",
	}
	for in, want := range cases {
		if got := Prefix(in); got != want {
			t.Fatalf("Prefix(%q) = %q, want %q", in, got, want)
		}
	}
	if !IsRoot("") || IsRoot("/meta") {
		t.Fatal("IsRoot mismatch")
	}
}

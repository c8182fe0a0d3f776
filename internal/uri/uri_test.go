package uri

import "testing"

func TestRoundTrip(t *testing.T) {
	paths := []string{
		"/home/user/project/main.zl",
		"/home/user/my project/weird name (1).zl",
		"/tmp/a_b-c~d.zl",
	}
	for _, p := range paths {
		u := PathToURI(p)
		back, err := URIToPath(u)
		if err != nil {
			t.Fatalf("URIToPath(%q) error: %v", u, err)
		}
		if back != p {
			t.Errorf("round trip: got %q, want %q", back, p)
		}
	}
}

func TestPathToURIEncodesReserved(t *testing.T) {
	got := PathToURI("/a b/c.zl")
	want := "file:///a%20b/c.zl"
	if got != want {
		t.Errorf("PathToURI = %q, want %q", got, want)
	}
}

func TestURIToPathRejectsNonFileScheme(t *testing.T) {
	_, err := URIToPath("http://example.com/a")
	if err == nil {
		t.Fatal("expected error for non-file scheme")
	}
}

func TestURIToPathRejectsMalformedEscape(t *testing.T) {
	_, err := URIToPath("file:///a%2zfoo")
	if err == nil {
		t.Fatal("expected error for malformed escape")
	}
}

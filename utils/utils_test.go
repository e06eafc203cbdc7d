package utils

import "testing"

func TestNormalizeMediaPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"http://example.com/b.png", "http://example.com/b.png"},
		{"uploads/c.jpg", "/uploads/c.jpg"},
		{"/uploads/d.jpg", "/uploads/d.jpg"},
		{"uploads\\win\\e.jpg", "/uploads/win/e.jpg"},
	}
	for _, c := range cases {
		if got := NormalizeMediaPath(c.in); got != c.want {
			t.Errorf("NormalizeMediaPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"photo.png", "photo.png"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"", "file"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGenerateName(t *testing.T) {
	a := GenerateName(16)
	b := GenerateName(16)
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("lengths = %d, %d, want 16", len(a), len(b))
	}
	if a == b {
		t.Error("two generated names should almost never collide")
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseInt("42") != 42 || ParseInt("x") != 0 {
		t.Error("ParseInt mismatch")
	}
	if ParseFloat("2.5") != 2.5 || ParseFloat("x") != 0 {
		t.Error("ParseFloat mismatch")
	}
}

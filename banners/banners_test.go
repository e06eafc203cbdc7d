package banners

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFallbackBannersMissingDir(t *testing.T) {
	old, _ := os.Getwd()
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)

	banners := fallbackBanners()
	if len(banners) != 0 {
		t.Errorf("expected no banners without a banner directory, got %d", len(banners))
	}
}

func TestFallbackBannersFromDir(t *testing.T) {
	old, _ := os.Getwd()
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)

	if err := os.Mkdir("banner", 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.webp"} {
		if err := os.WriteFile(filepath.Join("banner", name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	banners := fallbackBanners()
	if len(banners) != 3 {
		t.Fatalf("expected 3 image banners, got %d", len(banners))
	}
	if banners[0].ImageURL != "/banner-files/a.png" {
		t.Errorf("first banner = %q, want /banner-files/a.png", banners[0].ImageURL)
	}
	for i, b := range banners {
		if b.DisplayOrder != i+1 {
			t.Errorf("banner %d display order = %d, want %d", i, b.DisplayOrder, i+1)
		}
		if b.Status != "active" {
			t.Errorf("banner %d status = %q, want active", i, b.Status)
		}
	}
}

package uploads

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func chdirTemp(t *testing.T) {
	t.Helper()
	old, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestProductImageUpload(t *testing.T) {
	chdirTemp(t)

	body, contentType := multipartBody(t, "image", "photo.png", pngBytes(t, 600, 400))
	req := httptest.NewRequest(http.MethodPost, "/upload/product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ProductImage(rec, req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Filename  string `json:"filename"`
		URL       string `json:"url"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Filename, "product-") || !strings.HasSuffix(resp.Filename, ".png") {
		t.Errorf("filename = %q, want product-*.png", resp.Filename)
	}
	if resp.URL != "/uploads/"+resp.Filename {
		t.Errorf("url = %q, want /uploads/%s", resp.URL, resp.Filename)
	}
	if resp.Thumbnail != "/uploads/thumb/"+resp.Filename {
		t.Errorf("thumbnail = %q, want /uploads/thumb/%s", resp.Thumbnail, resp.Filename)
	}

	if _, err := os.Stat("uploads/" + resp.Filename); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	if _, err := os.Stat("uploads/thumb/" + resp.Filename); err != nil {
		t.Errorf("thumbnail file missing: %v", err)
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	chdirTemp(t)

	body, contentType := multipartBody(t, "image", "script.exe", pngBytes(t, 10, 10))
	req := httptest.NewRequest(http.MethodPost, "/upload/product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ProductImage(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUploadRejectsSpoofedContent(t *testing.T) {
	chdirTemp(t)

	body, contentType := multipartBody(t, "image", "fake.png", []byte("#!/bin/sh\necho pwned\n"))
	req := httptest.NewRequest(http.MethodPost, "/upload/product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ProductImage(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUploadRequiresImageField(t *testing.T) {
	chdirTemp(t)

	body, contentType := multipartBody(t, "file", "photo.png", pngBytes(t, 10, 10))
	req := httptest.NewRequest(http.MethodPost, "/upload/banner", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	BannerImage(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBannerImagePrefix(t *testing.T) {
	chdirTemp(t)

	body, contentType := multipartBody(t, "image", "banner.png", pngBytes(t, 100, 50))
	req := httptest.NewRequest(http.MethodPost, "/upload/banner", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	BannerImage(rec, req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var resp struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Filename, "banner-") {
		t.Errorf("filename = %q, want banner-* prefix", resp.Filename)
	}
}

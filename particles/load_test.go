package particles

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestLoaderSources(t *testing.T) {
	data := encodePNG(t, uniformImage(12, 9, bright))

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing sample: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sample.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"path", path, false},
		{"file uri", "file://" + path, false},
		{"http", srv.URL + "/sample.png", false},
		{"http 404", srv.URL + "/missing.png", true},
		{"missing path", filepath.Join(dir, "nope.png"), true},
	}

	l := NewLoader()
	for _, tc := range tests {
		img, err := l.Decode(context.Background(), tc.src)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 9 {
			t.Errorf("%s: expected 12x9, got %v", tc.name, b)
		}
	}
}

func TestLoaderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatalf("writing junk: %v", err)
	}
	if _, err := NewLoader().Decode(context.Background(), path); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoaderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().Decode(ctx, srv.URL); err == nil {
		t.Error("expected cancelled request to fail")
	}
}

func TestFallbackTexture(t *testing.T) {
	img := ToNRGBA(Fallback(512))
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 512 {
		t.Fatalf("expected 512x512, got %v", b)
	}

	corner := img.NRGBAAt(0, 0)
	if corner.R < 0x80 || corner.R > 0x90 {
		t.Errorf("expected #888 at the rim, got %v", corner)
	}
	nearCentre := img.NRGBAAt(256, 200)
	if nearCentre.R < 0xe0 {
		t.Errorf("expected near-white close to the centre, got %v", nearCentre)
	}

	dark := 0
	for y := 230; y < 262; y++ {
		for x := 100; x < 412; x++ {
			if img.NRGBAAt(x, y).R <= 34 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected caption pixels below the mask threshold")
	}
}

func TestFallbackDefaultSize(t *testing.T) {
	if b := Fallback(0).Bounds(); b.Dx() != 512 {
		t.Errorf("expected default size 512, got %v", b)
	}
}

package leafcheck

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crimson-sun/leafcheck/internal/engine"
	"github.com/crimson-sun/leafcheck/internal/engine/classifier"
	"github.com/crimson-sun/leafcheck/internal/engine/knowledge"
)

const testModelDir = "../../models"

func skipWithoutModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(testModelDir, "tomato_model.onnx")); os.IsNotExist(err) {
		t.Skip("ONNX model not available, skipping integration test")
	}
}

// fakeChecker wires a Checker to a score function instead of an ONNX model.
func fakeChecker(t *testing.T, score classifier.ScoreFunc, parallelism int) *Checker {
	t.Helper()
	kb, err := knowledge.Default()
	if err != nil {
		t.Fatal(err)
	}
	images := classifier.NewImage(kb.Labels(), score)
	return newChecker(engine.New(images, nil, kb), parallelism)
}

func earlyBlight(_ []float32, _ []int64) ([]float32, error) {
	return []float32{0.01, 0.9, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.02}, nil
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	for i := range img.Pix {
		img.Pix[i] = 0xA0
	}
	img.Set(0, 0, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewBadPathReturnsError(t *testing.T) {
	_, err := New(WithModelDir("/nonexistent/path"))
	if err == nil {
		t.Fatal("expected error for bad model path, got nil")
	}
}

func TestNewBadKnowledgeFile(t *testing.T) {
	_, err := New(WithKnowledgeFile("/nonexistent/diseases.yaml"))
	if err == nil {
		t.Fatal("expected error for missing knowledge file, got nil")
	}
}

func TestResolvePaths(t *testing.T) {
	img, txt, vocab := resolvePaths(options{modelDir: "/m"})
	if img != "/m/tomato_model.onnx" || txt != "/m/spam_model.onnx" || vocab != "/m/spam_vocab.tsv" {
		t.Errorf("resolvePaths() = %q, %q, %q", img, txt, vocab)
	}

	img, _, _ = resolvePaths(options{modelDir: "/m", modelPath: "/elsewhere/leaf.onnx"})
	if img != "/elsewhere/leaf.onnx" {
		t.Errorf("explicit model path ignored: %q", img)
	}

	img, _, _ = resolvePaths(options{})
	if img != filepath.Join("models", "tomato_model.onnx") {
		t.Errorf("default dir not applied: %q", img)
	}
}

func TestDiagnoseFile(t *testing.T) {
	c := fakeChecker(t, earlyBlight, 2)
	path := writePNG(t, t.TempDir(), "leaf.png")

	d, err := c.DiagnoseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DiagnoseFile() error: %v", err)
	}
	if d.Disease.Class != "Tomato_Early_blight" {
		t.Errorf("Class = %q, want Tomato_Early_blight", d.Disease.Class)
	}
	if d.Disease.Confidence != 90 {
		t.Errorf("Confidence = %v, want 90", d.Disease.Confidence)
	}
}

func TestDiagnoseFilesKeepsOrderAndPerFileErrors(t *testing.T) {
	c := fakeChecker(t, earlyBlight, 2)
	dir := t.TempDir()
	bad := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths := []string{
		writePNG(t, dir, "a.png"),
		bad,
		filepath.Join(dir, "missing.png"),
		writePNG(t, dir, "b.png"),
	}

	results, err := c.DiagnoseFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("DiagnoseFiles() error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}
	if results[0].Err != nil || results[3].Err != nil {
		t.Errorf("valid files failed: %v, %v", results[0].Err, results[3].Err)
	}
	if !errors.Is(results[1].Err, ErrInvalidImage) {
		t.Errorf("results[1].Err = %v, want ErrInvalidImage", results[1].Err)
	}
	if !errors.Is(results[2].Err, os.ErrNotExist) {
		t.Errorf("results[2].Err = %v, want not-exist", results[2].Err)
	}
}

func TestDiagnoseFilesRespectsParallelism(t *testing.T) {
	var inflight, peak int32
	score := func(p []float32, s []int64) ([]float32, error) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return earlyBlight(p, s)
	}
	c := fakeChecker(t, score, 2)

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"1.png", "2.png", "3.png", "4.png", "5.png", "6.png"} {
		paths = append(paths, writePNG(t, dir, name))
	}
	if _, err := c.DiagnoseFiles(context.Background(), paths); err != nil {
		t.Fatalf("DiagnoseFiles() error: %v", err)
	}
	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestDiagnoseFilesCanceled(t *testing.T) {
	c := fakeChecker(t, earlyBlight, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.DiagnoseFiles(ctx, []string{writePNG(t, t.TempDir(), "a.png")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestDiseases(t *testing.T) {
	c := fakeChecker(t, earlyBlight, 1)
	if got := len(c.Diseases()); got != 10 {
		t.Errorf("len(Diseases()) = %d, want 10", got)
	}
	if _, err := c.Disease("Tomato_Target_Spot"); err != nil {
		t.Errorf("Disease() error: %v", err)
	}
	if _, err := c.Disease("Tomato_unknown"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Disease() error = %v, want ErrUnknownLabel", err)
	}
}

func TestClassifyTextWithoutModel(t *testing.T) {
	c := fakeChecker(t, earlyBlight, 1)
	if c.TextAvailable() {
		t.Fatal("TextAvailable() = true without a text model")
	}
	if _, err := c.ClassifyText(context.Background(), "hello"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("ClassifyText() error = %v, want ErrModelUnavailable", err)
	}
}

func TestNewWithModelDir(t *testing.T) {
	skipWithoutModel(t)

	c, err := New(WithModelDir(testModelDir))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer c.Close()

	if len(c.Diseases()) != 10 {
		t.Errorf("len(Diseases()) = %d, want 10", len(c.Diseases()))
	}
}

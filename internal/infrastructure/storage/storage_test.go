package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalStorage_PutWritesUnderBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	ref, err := store.Put(context.Background(), "prescriptions/7/rx.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ref != "prescriptions/7/rx.pdf" {
		t.Fatalf("unexpected reference %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, "prescriptions", "7", "rx.pdf"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	for _, key := range []string{"", "../escape.txt", "prescriptions/../../etc/passwd", "/"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), ""); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestProductImageKey(t *testing.T) {
	key, err := ProductImageKey("Amoxicillin.PNG")
	if err != nil {
		t.Fatalf("ProductImageKey: %v", err)
	}
	if !strings.HasPrefix(key, "products/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}

	for _, name := range []string{"leaflet.pdf", "noext", "script.png.exe"} {
		if _, err := ProductImageKey(name); !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("ProductImageKey(%q) error = %v, want ErrUnsupportedImage", name, err)
		}
	}
}

func TestPrescriptionKey_KeepsExtension(t *testing.T) {
	key := PrescriptionKey(12, "Scan.JPG")
	if !strings.HasPrefix(key, "prescriptions/12/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %q", key)
	}
	if PrescriptionKey(12, "a.jpg") == PrescriptionKey(12, "a.jpg") {
		t.Fatalf("expected unique keys")
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Put(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StorageWithClient(client, "farumasi-prescriptions")

	ref, err := store.Put(context.Background(), "/prescriptions/3/rx.png", bytes.NewReader([]byte("png")), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ref != "prescriptions/3/rx.png" {
		t.Fatalf("unexpected reference %q", ref)
	}
	if *client.input.Bucket != "farumasi-prescriptions" || *client.input.Key != "prescriptions/3/rx.png" {
		t.Fatalf("unexpected input bucket=%s key=%s", *client.input.Bucket, *client.input.Key)
	}
	if *client.input.ContentType != "image/png" || string(client.body) != "png" {
		t.Fatalf("unexpected content type or body")
	}
}

func TestS3Storage_PutWrapsClientError(t *testing.T) {
	boom := errors.New("boom")
	store := NewS3StorageWithClient(&fakeS3{err: boom}, "bucket")

	if _, err := store.Put(context.Background(), "k.pdf", strings.NewReader("x"), ""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

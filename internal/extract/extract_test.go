package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"letters-backend/internal/documents"
	"letters-backend/internal/shared/storage/object/local"
)

func TestTextFromBytes_PlainTextPassthrough(t *testing.T) {
	text, err := TextFromBytes(context.Background(), []byte("crash report\nline two"), "text/plain; charset=utf-8", "report.txt")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if text != "crash report\nline two" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = TextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceTextCachesOnDocument(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	repo := documents.NewMemoryRepo()
	svc := &Service{Store: store, Docs: repo}

	doc := documents.Document{
		ID:         "doc-1",
		FirmID:     "firm-1",
		FileName:   "statement.txt",
		MimeType:   "text/plain",
		StorageKey: "firm-1/doc-1/statement.txt",
		UploadedAt: time.Now().UTC(),
	}
	if _, err := store.Save(ctx, doc.StorageKey, doc.MimeType, strings.NewReader("witness statement")); err != nil {
		t.Fatalf("save object: %v", err)
	}
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	text, err := svc.Text(ctx, doc)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "witness statement" {
		t.Fatalf("unexpected text: %q", text)
	}

	cached, err := repo.GetByID(ctx, "firm-1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cached.ExtractedText != "witness statement" {
		t.Fatalf("expected cached text, got %q", cached.ExtractedText)
	}
	if cached.ExtractedAt == nil {
		t.Fatal("expected extractedAt to be set")
	}

	// Cache hit must not touch the object store.
	if err := store.Delete(ctx, doc.StorageKey); err != nil {
		t.Fatalf("delete object: %v", err)
	}
	text, err = svc.Text(ctx, cached)
	if err != nil {
		t.Fatalf("Text (cached): %v", err)
	}
	if text != "witness statement" {
		t.Fatalf("unexpected cached text: %q", text)
	}
}

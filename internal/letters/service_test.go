package letters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"letters-backend/internal/documents"
	"letters-backend/internal/extract"
	"letters-backend/internal/llm"
	"letters-backend/internal/render"
	"letters-backend/internal/shared/storage/object"
	"letters-backend/internal/shared/storage/object/local"
	"letters-backend/internal/templates"
)

const (
	testFirm  = "firm-1"
	otherFirm = "firm-2"
)

type stubLLM struct {
	content string
	err     error
	calls   int
}

func (s *stubLLM) GenerateLetter(ctx context.Context, input llm.GenerateInput) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

type fixture struct {
	svc       *Service
	letters   *MemoryRepo
	docs      *documents.MemoryRepo
	templates *templates.MemoryRepo
	store     object.ObjectStore
	llm       *stubLLM
	exportDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	docsDir := t.TempDir()
	exportDir := t.TempDir()
	docStore := local.New(docsDir)
	exportStore := local.New(exportDir)

	lettersRepo := NewMemoryRepo()
	docsRepo := documents.NewMemoryRepo()
	tplRepo := templates.NewMemoryRepo()
	client := &stubLLM{content: "<h2>Demand</h2><p>Pay <strong>now</strong>.</p>"}

	svc := &Service{
		Letters:   lettersRepo,
		Templates: tplRepo,
		Docs:      docsRepo,
		Extract:   &extract.Service{Store: docStore, Docs: docsRepo},
		LLM:       client,
		Exports:   exportStore,
	}
	return &fixture{
		svc:       svc,
		letters:   lettersRepo,
		docs:      docsRepo,
		templates: tplRepo,
		store:     docStore,
		llm:       client,
		exportDir: exportDir,
	}
}

func (f *fixture) addTemplate(t *testing.T, firmID, name string) templates.Template {
	t.Helper()
	now := time.Now().UTC()
	tpl := templates.Template{
		ID:        "tpl-" + name,
		FirmID:    firmID,
		Name:      name,
		Sections:  []string{"Facts", "Damages"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.templates.Create(context.Background(), tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tpl
}

func (f *fixture) addDocument(t *testing.T, firmID, id, text string) documents.Document {
	t.Helper()
	ctx := context.Background()
	doc := documents.Document{
		ID:         id,
		FirmID:     firmID,
		FileName:   id + ".txt",
		MimeType:   "text/plain",
		StorageKey: fmt.Sprintf("%s/%s/%s.txt", firmID, id, id),
		UploadedAt: time.Now().UTC(),
	}
	if _, err := f.store.Save(ctx, doc.StorageKey, doc.MimeType, strings.NewReader(text)); err != nil {
		t.Fatalf("save doc object: %v", err)
	}
	if err := f.docs.Create(ctx, doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}
	return doc
}

func (f *fixture) exportedArtifacts(t *testing.T, firmID string) []string {
	t.Helper()
	dir := filepath.Join(f.exportDir, firmID, "letters")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read export dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestGenerateCreatesDraftWithAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.addTemplate(t, testFirm, "Auto Accident")
	f.addDocument(t, testFirm, "doc-1", "police report")
	f.addDocument(t, testFirm, "doc-2", "medical bills")

	letter, err := f.svc.Generate(ctx, testFirm, "user-1", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if letter.Status != StatusDraft {
		t.Fatalf("expected draft status, got %s", letter.Status)
	}
	if letter.Title != "Demand Letter - Auto Accident" {
		t.Fatalf("unexpected default title: %s", letter.Title)
	}
	if !strings.Contains(letter.Content, "<strong>now</strong>") {
		t.Fatalf("expected sanitized content preserved, got %s", letter.Content)
	}

	ids, err := f.svc.SourceDocumentIDs(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("SourceDocumentIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 associations, got %d", len(ids))
	}
}

func TestGenerateSanitizesDisallowedTags(t *testing.T) {
	f := newFixture(t)
	f.llm.content = `<div><p onclick="x">Keep <script>alert(1)</script>this</p></div>`
	tpl := f.addTemplate(t, testFirm, "T")
	f.addDocument(t, testFirm, "doc-1", "text")

	letter, err := f.svc.Generate(context.Background(), testFirm, "", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(letter.Content, "script") || strings.Contains(letter.Content, "div") || strings.Contains(letter.Content, "onclick") {
		t.Fatalf("content not sanitized: %s", letter.Content)
	}
	if !strings.Contains(letter.Content, "<p>Keep this</p>") {
		t.Fatalf("expected allowed markup kept, got %s", letter.Content)
	}
}

func TestGenerateRejectsBadDocumentCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.addTemplate(t, testFirm, "T")

	if _, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{TemplateID: tpl.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero documents, got %v", err)
	}

	ids := make([]string, 6)
	for i := range ids {
		ids[i] = fmt.Sprintf("doc-%d", i)
	}
	if _, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{TemplateID: tpl.ID, DocumentIDs: ids}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for six documents, got %v", err)
	}

	if f.llm.calls != 0 {
		t.Fatalf("LLM must not be called on validation failure")
	}
}

func TestGenerateRejectsDuplicateDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.addTemplate(t, testFirm, "T")
	f.addDocument(t, testFirm, "doc-1", "text")

	_, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1", "doc-1"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for repeated document, got %v", err)
	}
	if f.llm.calls != 0 {
		t.Fatalf("LLM must not be called on validation failure")
	}

	letters, err := f.svc.List(ctx, testFirm, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(letters) != 0 {
		t.Fatalf("expected no letters after rejected generation, got %d", len(letters))
	}
}

func TestTitlesTruncateOnRuneBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.addTemplate(t, testFirm, "T")
	f.addDocument(t, testFirm, "doc-1", "text")

	long := strings.Repeat("é", 200) // 400 bytes
	letter, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1"},
		Title:       long,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(letter.Title) > 255 {
		t.Fatalf("title not capped: %d bytes", len(letter.Title))
	}
	if !utf8.ValidString(letter.Title) {
		t.Fatalf("title truncated mid-rune: %q", letter.Title)
	}

	updated, err := f.svc.Update(ctx, testFirm, letter.ID, UpdateInput{Title: &long})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Title) > 255 || !utf8.ValidString(updated.Title) {
		t.Fatalf("updated title invalid: %d bytes, valid=%v", len(updated.Title), utf8.ValidString(updated.Title))
	}
}

func TestGenerateOtherFirmResourcesAreNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	otherTpl := f.addTemplate(t, otherFirm, "Other")
	ownTpl := f.addTemplate(t, testFirm, "Own")
	f.addDocument(t, otherFirm, "doc-x", "secret")
	f.addDocument(t, testFirm, "doc-1", "mine")

	if _, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{TemplateID: otherTpl.ID, DocumentIDs: []string{"doc-1"}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other firm's template, got %v", err)
	}
	if _, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{TemplateID: ownTpl.ID, DocumentIDs: []string{"doc-x"}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other firm's document, got %v", err)
	}
}

func TestGenerateExtractionFailureLeavesNoRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.addTemplate(t, testFirm, "T")
	f.addDocument(t, testFirm, "doc-1", "fine text")
	f.addDocument(t, testFirm, "doc-2", "") // empty extraction

	_, err := f.svc.Generate(ctx, testFirm, "", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if f.llm.calls != 0 {
		t.Fatalf("LLM must not be called after extraction failure")
	}

	letters, err := f.svc.List(ctx, testFirm, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(letters) != 0 {
		t.Fatalf("expected no letters after aborted generation, got %d", len(letters))
	}
}

func TestGenerateLLMFailureIsUpstream(t *testing.T) {
	f := newFixture(t)
	f.llm.err = errors.New("status 500")
	tpl := f.addTemplate(t, testFirm, "T")
	f.addDocument(t, testFirm, "doc-1", "text")

	_, err := f.svc.Generate(context.Background(), testFirm, "", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1"},
	})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func generateDraft(t *testing.T, f *fixture) Letter {
	t.Helper()
	tpl := f.addTemplate(t, testFirm, "T")
	f.addDocument(t, testFirm, "doc-1", "source text")
	letter, err := f.svc.Generate(context.Background(), testFirm, "user-1", GenerateInput{
		TemplateID:  tpl.ID,
		DocumentIDs: []string{"doc-1"},
		Title:       "Jane Doe Demand!!",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return letter
}

func TestFinalizeCreatesArtifactAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	result, err := f.svc.Finalize(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Letter.Status != StatusCreated {
		t.Fatalf("expected created status, got %s", result.Letter.Status)
	}
	if result.DownloadURL == "" {
		t.Fatal("expected presigned URL")
	}
	wantPrefix := "Demand_Letter_Jane_Doe_Demand_"
	if !strings.HasPrefix(result.FileName, wantPrefix) || !strings.HasSuffix(result.FileName, ".docx") {
		t.Fatalf("unexpected artifact name: %s", result.FileName)
	}

	// Artifact must be real DOCX content.
	rc, err := f.svc.Exports.Open(ctx, result.Letter.DocxKey)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer rc.Close()
	data := make([]byte, 4)
	if _, err := rc.Read(data); err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if data[0] != 'P' || data[1] != 'K' {
		t.Fatalf("artifact is not a zip package")
	}
}

func TestFinalizeTwiceKeepsSingleArtifactAndCreatedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	first, err := f.svc.Finalize(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("first Finalize: %v", err)
	}

	// Edit the title so the regenerated artifact lands under a new key.
	newTitle := "Updated Claim"
	if _, err := f.svc.Update(ctx, testFirm, letter.ID, UpdateInput{Title: &newTitle}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	second, err := f.svc.Finalize(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if second.Letter.Status != StatusCreated {
		t.Fatalf("expected created status after re-finalize, got %s", second.Letter.Status)
	}
	if second.Letter.DocxKey == first.Letter.DocxKey {
		t.Fatalf("expected a new artifact key after title change")
	}

	artifacts := f.exportedArtifacts(t, testFirm)
	if len(artifacts) != 1 {
		t.Fatalf("expected exactly one live artifact, got %v", artifacts)
	}
}

func TestExportOnDraftLeavesDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	result, err := f.svc.Export(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Letter.Status != StatusDraft {
		t.Fatalf("export must not change status, got %s", result.Letter.Status)
	}
	if result.DownloadURL == "" {
		t.Fatal("expected presigned URL")
	}
	if len(f.exportedArtifacts(t, testFirm)) != 1 {
		t.Fatal("expected one artifact after export")
	}
}

func TestExportReusesArtifactWhenContentUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	first, err := f.svc.Export(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("first Export: %v", err)
	}
	firstUpdatedAt := first.Letter.UpdatedAt

	second, err := f.svc.Export(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("second Export: %v", err)
	}
	if second.Letter.DocxKey != first.Letter.DocxKey {
		t.Fatal("expected unchanged content to reuse the artifact key")
	}
	if !second.Letter.UpdatedAt.Equal(firstUpdatedAt) {
		t.Fatal("cheap-path export must not rewrite letter state")
	}
}

func TestExportRegeneratesAfterContentEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	first, err := f.svc.Export(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("first Export: %v", err)
	}

	newContent := "<p>Revised demand terms.</p>"
	if _, err := f.svc.Update(ctx, testFirm, letter.ID, UpdateInput{Content: &newContent}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	second, err := f.svc.Export(ctx, testFirm, letter.ID)
	if err != nil {
		t.Fatalf("second Export: %v", err)
	}
	if second.Letter.Status != StatusDraft {
		t.Fatalf("export must leave draft status, got %s", second.Letter.Status)
	}
	if second.Letter.DocxContentHash == first.Letter.DocxContentHash {
		t.Fatal("expected a new content hash after edit")
	}

	rc, err := f.svc.Exports.Open(ctx, second.Letter.DocxKey)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	blocks, err := render.ReadDocument(data)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	var joined strings.Builder
	for _, block := range blocks {
		for _, run := range block.Runs {
			joined.WriteString(run.Text)
		}
	}
	if !strings.Contains(joined.String(), "Revised demand terms.") {
		t.Fatalf("artifact does not reflect edited content: %q", joined.String())
	}
}

func TestDeleteRemovesArtifactAndRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	if _, err := f.svc.Finalize(ctx, testFirm, letter.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := f.svc.Delete(ctx, testFirm, letter.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := f.svc.Get(ctx, testFirm, letter.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if artifacts := f.exportedArtifacts(t, testFirm); len(artifacts) != 0 {
		t.Fatalf("expected no artifacts after delete, got %v", artifacts)
	}
}

func TestLifecycleOtherFirmIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	letter := generateDraft(t, f)

	if _, err := f.svc.Get(ctx, otherFirm, letter.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other firm get, got %v", err)
	}
	if _, err := f.svc.Finalize(ctx, otherFirm, letter.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other firm finalize, got %v", err)
	}
	if err := f.svc.Delete(ctx, otherFirm, letter.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other firm delete, got %v", err)
	}
}

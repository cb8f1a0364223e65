package templates

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateDefaultClearsPreviousDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	tpl := Template{
		ID:               "tpl-2",
		FirmID:           "firm-1",
		Name:             "Auto Accident",
		OpeningParagraph: "We represent the claimant.",
		Sections:         []string{"Facts", "Damages"},
		IsDefault:        true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE letter_templates SET is_default = FALSE").
		WithArgs(tpl.FirmID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO letter_templates").
		WithArgs(
			tpl.ID,
			tpl.FirmID,
			tpl.Name,
			tpl.LetterheadText,
			tpl.OpeningParagraph,
			tpl.ClosingParagraph,
			sqlmock.AnyArg(), // sections json
			true,
			nil, // created_by
			tpl.CreatedAt,
			tpl.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateNonDefaultSkipsClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	tpl := Template{
		ID:        "tpl-1",
		FirmID:    "firm-1",
		Name:      "Slip and Fall",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO letter_templates").
		WithArgs(
			tpl.ID,
			tpl.FirmID,
			tpl.Name,
			"",
			"",
			"",
			sqlmock.AnyArg(),
			false,
			nil,
			tpl.CreatedAt,
			tpl.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScopesToFirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "firm_id", "name", "letterhead_text", "opening_paragraph",
		"closing_paragraph", "sections", "is_default", "created_by",
		"created_at", "updated_at",
	}).AddRow("tpl-1", "firm-1", "Auto Accident", "Firm LLP", "Dear Sir", "Sincerely",
		[]byte(`["Facts","Damages"]`), true, nil, now, now)

	mock.ExpectQuery("FROM letter_templates").
		WithArgs("firm-1", "tpl-1").
		WillReturnRows(rows)

	tpl, err := repo.GetByID(context.Background(), "firm-1", "tpl-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if tpl.Name != "Auto Accident" {
		t.Fatalf("expected name Auto Accident, got %s", tpl.Name)
	}
	if len(tpl.Sections) != 2 || tpl.Sections[0] != "Facts" {
		t.Fatalf("unexpected sections: %v", tpl.Sections)
	}
	if !tpl.IsDefault {
		t.Fatalf("expected default template")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestMemoryRepoSingleDefaultPerFirm(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	first := Template{ID: "tpl-1", FirmID: "firm-1", Name: "A", IsDefault: true, CreatedAt: now, UpdatedAt: now}
	second := Template{ID: "tpl-2", FirmID: "firm-1", Name: "B", IsDefault: true, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)}

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	def, err := repo.GetDefault(ctx, "firm-1")
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def.ID != "tpl-2" {
		t.Fatalf("expected tpl-2 to be default, got %s", def.ID)
	}

	tpls, err := repo.ListByFirm(ctx, "firm-1")
	if err != nil {
		t.Fatalf("ListByFirm: %v", err)
	}
	defaults := 0
	for _, tpl := range tpls {
		if tpl.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

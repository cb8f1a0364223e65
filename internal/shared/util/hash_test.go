package util

import "testing"

func TestHashContentIsStableHex(t *testing.T) {
	content := "<p>Dear Sir or Madam,</p>"
	got := HashContent(content)
	if got != HashContent(content) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashContent(content+" ") {
		t.Fatalf("expected different content to hash differently")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "police_report.pdf", want: "police_report.pdf"},
		{in: " medical records.docx ", want: "medical records.docx"},
		{in: "a/b\\c.txt", want: "a_b_c.txt"},
		{in: "../../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "...", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package openai

import "testing"

func TestNewClientRequiresModel(t *testing.T) {
	if _, err := NewClient("sk-test", ""); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>hi</p>", "<p>hi</p>"},
		{"```html\n<p>hi</p>\n```", "<p>hi</p>"},
		{"```\n<p>hi</p>\n```", "<p>hi</p>"},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

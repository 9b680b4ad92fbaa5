package codec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dataveil/dataveil/internal/testutil"
)

func TestExtractPDF(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		path := testutil.WritePDF(t, []string{"contact alice@example.com"})

		text, err := ExtractPDF(path)
		if err != nil {
			t.Fatalf("ExtractPDF() error = %v", err)
		}
		if !strings.Contains(text, "alice@example.com") {
			t.Errorf("ExtractPDF() = %q, want the page text", text)
		}
	})

	t.Run("pages join with newline", func(t *testing.T) {
		path := testutil.WritePDF(t, []string{"first page", "second page"})

		text, err := ExtractPDF(path)
		if err != nil {
			t.Fatalf("ExtractPDF() error = %v", err)
		}
		if !strings.Contains(text, "first page") || !strings.Contains(text, "second page") {
			t.Fatalf("ExtractPDF() = %q, want both pages", text)
		}
		if !strings.Contains(text, "\n") {
			t.Errorf("ExtractPDF() = %q, want newline separator", text)
		}
	})

	t.Run("empty page contributes empty string", func(t *testing.T) {
		path := testutil.WritePDF(t, []string{"only page with text", ""})

		text, err := ExtractPDF(path)
		if err != nil {
			t.Fatalf("ExtractPDF() error = %v", err)
		}
		want := "only page with text\n"
		if text != want {
			t.Errorf("ExtractPDF() = %q, want %q", text, want)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := ExtractPDF(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
			t.Fatal("ExtractPDF() succeeded on a missing file")
		}
	})
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteText(path, "redacted body"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back text file: %v", err)
	}
	if string(data) != "redacted body" {
		t.Errorf("round trip = %q, want %q", data, "redacted body")
	}
}

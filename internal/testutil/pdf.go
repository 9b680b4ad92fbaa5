// Package testutil builds small file fixtures shared by tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BuildPDF generates a minimal valid PDF with one page per entry in
// pageTexts. An empty entry produces a page with an empty content stream.
// The output parses with ledongthuc/pdf and GetPlainText returns the page
// text.
func BuildPDF(pageTexts []string) []byte {
	n := len(pageTexts)
	// object numbering: 1 catalog, 2 pages, 3..2+n page objects,
	// 3+n..2+2n content streams, 3+2n font
	fontObj := 3 + 2*n
	totalObjs := fontObj + 1

	var kids []string
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}

	var buf bytes.Buffer
	offsets := make([]int, totalObjs)

	buf.WriteString("%PDF-1.4\n")

	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = buf.Len()
	fmt.Fprintf(&buf, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n)

	for i := 0; i < n; i++ {
		offsets[3+i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>\nendobj\n",
			3+i, 3+n+i, fontObj)
	}

	for i, text := range pageTexts {
		stream := ""
		if text != "" {
			escaped := strings.ReplaceAll(text, `\`, `\\`)
			escaped = strings.ReplaceAll(escaped, "(", `\(`)
			escaped = strings.ReplaceAll(escaped, ")", `\)`)
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaped)
		}
		offsets[3+n+i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			3+n+i, len(stream), stream)
	}

	offsets[fontObj] = buf.Len()
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", fontObj)

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", totalObjs)
	fmt.Fprintf(&buf, "0000000000 65535 f \r\n")
	for i := 1; i < totalObjs; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \r\n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n", totalObjs)
	fmt.Fprintf(&buf, "%d\n", xrefOffset)
	buf.WriteString("%%EOF\n")
	return buf.Bytes()
}

// WritePDF writes a generated PDF into a fresh temp directory and returns
// its path.
func WritePDF(t *testing.T, pageTexts []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, BuildPDF(pageTexts), 0o644); err != nil {
		t.Fatalf("writing test PDF: %v", err)
	}
	return path
}

// WriteFile writes content into a fresh temp directory under name and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

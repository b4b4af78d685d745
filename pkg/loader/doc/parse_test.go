package doc

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	t.Run("extracts paragraph text", func(t *testing.T) {
		content := buildDocx(t, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Hello</t></r></p>
    <p><r><t>World</t></r></p>
  </body>
</document>`)

		text, err := parseDocx(content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := string(text)
		if !strings.Contains(got, "Hello") || !strings.Contains(got, "World") {
			t.Fatalf("missing paragraph text: %q", got)
		}
	})

	t.Run("skips tracked deletions", func(t *testing.T) {
		content := buildDocx(t, `<?xml version="1.0"?>
<document>
  <body>
    <p><r><t>kept</t></r></p>
    <del><r><t>removed</t></r></del>
  </body>
</document>`)

		text, err := parseDocx(content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := string(text)
		if strings.Contains(got, "removed") {
			t.Fatalf("deleted text leaked into output: %q", got)
		}
		if !strings.Contains(got, "kept") {
			t.Fatalf("kept text missing: %q", got)
		}
	})

	t.Run("table cells are tab separated", func(t *testing.T) {
		content := buildDocx(t, `<?xml version="1.0"?>
<document>
  <body>
    <tbl>
      <tr><tc><p><r><t>a</t></r></p></tc><tc><p><r><t>b</t></r></p></tc></tr>
    </tbl>
  </body>
</document>`)

		text, err := parseDocx(content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(text), "a") || !strings.Contains(string(text), "\t") {
			t.Fatalf("table not rendered with tabs: %q", string(text))
		}
	})

	t.Run("not a zip fails", func(t *testing.T) {
		if _, err := parseDocx([]byte("plain text")); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("missing document.xml fails", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, _ := zw.Create("other.xml")
		_, _ = w.Write([]byte("<x/>"))
		_ = zw.Close()

		if _, err := parseDocx(buf.Bytes()); err == nil {
			t.Fatal("expected an error")
		}
	})
}

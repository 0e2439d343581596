package image

import (
	"strings"
	"testing"

	"banksy/internal/reference"
)

func TestBuildPromptWithoutReference(t *testing.T) {
	got := BuildPrompt("Stencil art.", nil, "a red balloon")
	want := "Stencil art.\nFollow this description to generate the image: a red balloon"
	if got != want {
		t.Fatalf("BuildPrompt() = %q, want %q", got, want)
	}
	if strings.Contains(got, "Reference") || strings.Contains(got, "reference") {
		t.Fatalf("prompt should not mention a reference: %q", got)
	}
}

func TestBuildPromptWithURLReference(t *testing.T) {
	ref := &reference.Reference{Source: reference.SourceURL, URL: "https://cdn.example.com/ref.png"}
	got := BuildPrompt("Stencil art.", ref, "a red balloon")
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[1] != "Reference image for style guidance: https://cdn.example.com/ref.png" {
		t.Fatalf("reference line = %q", lines[1])
	}
	if !strings.HasSuffix(got, "a red balloon") {
		t.Fatalf("prompt must end with user text: %q", got)
	}
}

func TestBuildPromptWithInlineReference(t *testing.T) {
	ref := &reference.Reference{Source: reference.SourceFile, Data: []byte{1, 2, 3}, MIME: "image/png"}
	got := BuildPrompt("", ref, "  rats with umbrellas ")
	want := InlineReferenceLine + "\n" + DescriptionLead + " rats with umbrellas"
	if got != want {
		t.Fatalf("BuildPrompt() = %q, want %q", got, want)
	}
}

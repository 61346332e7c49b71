package work

import (
	"errors"
	"strings"
	"testing"
)

func TestContentTypeDerivation(t *testing.T) {
	expected := map[Category]ContentType{
		CategoryPoem:        ContentTypeText,
		CategoryStory:       ContentTypeText,
		CategoryDigitalArt:  ContentTypeImage,
		CategoryPixelArt:    ContentTypeImage,
		CategoryGlitchArt:   ContentTypeImage,
		CategoryPhotography: ContentTypeImage,
	}
	if len(expected) != len(Categories) {
		t.Fatalf("expected %d categories, have %d", len(expected), len(Categories))
	}
	for _, c := range Categories {
		if got := c.ContentType(); got != expected[c] {
			t.Errorf("%s: content type %s, want %s", c, got, expected[c])
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		parsed, ok := ParseCategory(string(c))
		if !ok || parsed != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, parsed, ok)
		}
	}
	for _, bad := range []string{"", "sculpture", "POEM", "poem "} {
		if _, ok := ParseCategory(bad); ok {
			t.Errorf("ParseCategory(%q) accepted", bad)
		}
	}
}

func TestValidate(t *testing.T) {
	textInput := func() Input {
		return Input{Title: "t", Author: "a", Category: CategoryPoem, Body: TextBody{Content: "hello"}}
	}
	imageInput := func() Input {
		return Input{
			Title:    "t",
			Author:   "a",
			Category: CategoryPhotography,
			Body:     ImageBody{File: &FileUpload{Name: "p.png", Reader: strings.NewReader("img")}},
		}
	}

	tests := []struct {
		name      string
		input     Input
		forUpdate bool
		wantField string
	}{
		{"valid text", textInput(), false, ""},
		{"valid image", imageInput(), false, ""},
		{"empty title", func() Input { in := textInput(); in.Title = "  "; return in }(), false, "title"},
		{"empty author", func() Input { in := textInput(); in.Author = ""; return in }(), false, "author"},
		{"unknown category", func() Input { in := textInput(); in.Category = "sculpture"; return in }(), false, "category"},
		{"nil body", func() Input { in := textInput(); in.Body = nil; return in }(), false, "content"},
		{"body mismatch", Input{Title: "t", Author: "a", Category: CategoryPoem, Body: ImageBody{}}, false, "category"},
		{"empty text content", func() Input { in := textInput(); in.Body = TextBody{Content: " "}; return in }(), false, "content"},
		{"image without file on create", Input{Title: "t", Author: "a", Category: CategoryPixelArt, Body: ImageBody{}}, false, "file"},
		{
			"image without file on update but stored reference",
			Input{Title: "t", Author: "a", Category: CategoryPhotography, Body: ImageBody{ExistingPath: "uploads/x.png"}},
			true,
			"",
		},
		{
			"image without file or reference on update",
			Input{Title: "t", Author: "a", Category: CategoryPhotography, Body: ImageBody{}},
			true,
			"file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate(tc.forUpdate)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validationErr.Field != tc.wantField {
				t.Fatalf("field %q, want %q", validationErr.Field, tc.wantField)
			}
		})
	}
}

func TestPublishedAndGrouping(t *testing.T) {
	works := []Work{
		{ID: 1, Category: CategoryPoem, IsPublished: true},
		{ID: 2, Category: CategoryPoem, IsPublished: false},
		{ID: 3, Category: CategoryStory, IsPublished: true},
	}

	published := Published(works)
	if len(published) != 2 {
		t.Fatalf("published count %d, want 2", len(published))
	}

	grouped := GroupByCategory(published)
	if len(grouped[CategoryPoem]) != 1 || grouped[CategoryPoem][0].ID != 1 {
		t.Errorf("poem bucket wrong: %+v", grouped[CategoryPoem])
	}
	if len(grouped[CategoryStory]) != 1 {
		t.Errorf("story bucket wrong: %+v", grouped[CategoryStory])
	}
}

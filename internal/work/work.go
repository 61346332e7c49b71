package work

import "time"

type Category string

const (
	CategoryPoem        Category = "poem"
	CategoryStory       Category = "story"
	CategoryDigitalArt  Category = "digital-art"
	CategoryPixelArt    Category = "pixel-art"
	CategoryGlitchArt   Category = "glitch-art"
	CategoryPhotography Category = "photography"
)

// Categories lists every accepted category, in display order.
var Categories = []Category{
	CategoryPoem,
	CategoryStory,
	CategoryDigitalArt,
	CategoryPixelArt,
	CategoryGlitchArt,
	CategoryPhotography,
}

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// ContentType maps a category to the kind of content it carries. The
// mapping is total over Categories: poems and stories are text, the four
// visual categories are images.
func (c Category) ContentType() ContentType {
	switch c {
	case CategoryPoem, CategoryStory:
		return ContentTypeText
	default:
		return ContentTypeImage
	}
}

// Work is a single gallery item as the content API serves it. The API owns
// every field; this side only holds copies for display.
type Work struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	ContentType ContentType `json:"content_type"`
	Category    Category    `json:"category"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	IsPublished bool        `json:"is_published"`
	Content     *string     `json:"content,omitempty"`
	ImagePath   *string     `json:"image_path,omitempty"`
	ImageName   *string     `json:"image_name,omitempty"`
}

// Published filters a listing down to publicly visible works.
func Published(works []Work) []Work {
	out := make([]Work, 0, len(works))
	for _, w := range works {
		if w.IsPublished {
			out = append(out, w)
		}
	}
	return out
}

// GroupByCategory buckets works by category, preserving input order inside
// each bucket.
func GroupByCategory(works []Work) map[Category][]Work {
	grouped := make(map[Category][]Work)
	for _, w := range works {
		grouped[w.Category] = append(grouped[w.Category], w)
	}
	return grouped
}

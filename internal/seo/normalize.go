package seo

import (
	"fmt"
	"strings"
)

// Display sentinels for fields the pipeline never produced.
const (
	NoTitle       = "No title generated"
	NoDescription = "No description generated"
	NoTags        = "No tags generated"
)

// Canonical is display-ready SEO metadata. Exactly one shape, regardless of
// which wire variant it came from.
type Canonical struct {
	TitleLines  []string `json:"title_lines"`
	Description string   `json:"description"`
	Tags        string   `json:"tags"`
}

// Normalize maps raw metadata to its canonical display form. It is pure and
// deterministic, and idempotent over already-joined plain tag strings: a
// TagsRaw value that is already canonical comes back unchanged.
func Normalize(m Metadata) Canonical {
	desc := strings.TrimSpace(m.Description)
	if desc == "" {
		desc = NoDescription
	}
	return Canonical{
		TitleLines:  normalizeTitles(m.Titles),
		Description: desc,
		Tags:        normalizeTags(m.Tags),
	}
}

func normalizeTitles(t Titles) []string {
	switch t.Kind {
	case TitlesList:
		lines := make([]string, 0, len(t.List))
		for i, title := range t.List {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, title))
		}
		if len(lines) == 0 {
			return []string{NoTitle}
		}
		return lines
	case TitlesSingle:
		if strings.TrimSpace(t.Single) == "" {
			return []string{NoTitle}
		}
		return []string{t.Single}
	default:
		return []string{NoTitle}
	}
}

func normalizeTags(t Tags) string {
	switch t.Kind {
	case TagsBucketed:
		// Fixed bucket order, original order within each bucket.
		merged := make([]string, 0, len(t.Broad)+len(t.Medium)+len(t.LongTail))
		merged = append(merged, t.Broad...)
		merged = append(merged, t.Medium...)
		merged = append(merged, t.LongTail...)
		return joinTags(merged)
	case TagsList:
		return joinTags(t.List)
	case TagsRaw:
		cleaned := strings.NewReplacer("[", "", "]", "", `"`, "").Replace(t.Raw)
		return joinTags(strings.Split(cleaned, ","))
	default:
		return NoTags
	}
}

func joinTags(tags []string) string {
	kept := make([]string, 0, len(tags))
	for _, tag := range tags {
		v := strings.TrimSpace(tag)
		if v == "" {
			continue
		}
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		return NoTags
	}
	return strings.Join(kept, ", ")
}

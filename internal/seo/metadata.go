package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metadata is one youtube_metadata payload as received from the pipeline.
// The backend has shipped several incompatible shapes for the same fields,
// so titles and tags are decoded into tagged variants once at ingestion and
// never re-inspected downstream.
type Metadata struct {
	Titles      Titles
	Description string
	Tags        Tags
}

type TitleKind int

const (
	TitlesAbsent TitleKind = iota
	TitlesSingle
	TitlesList
)

// Titles is either a single suggested title, an ordered list of
// alternatives, or absent.
type Titles struct {
	Kind   TitleKind
	Single string
	List   []string
}

type TagKind int

const (
	TagsAbsent TagKind = iota
	TagsList
	TagsBucketed
	TagsRaw
)

// Tags is either a plain list, a bucketed object keyed broad/medium/long_tail,
// or a raw string (sometimes a JSON-ish blob, sometimes already comma-joined).
type Tags struct {
	Kind     TagKind
	List     []string
	Broad    []string
	Medium   []string
	LongTail []string
	Raw      string
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw struct {
		Titles      json.RawMessage `json:"titles"`
		Title       json.RawMessage `json:"title"`
		Description string          `json:"description"`
		Tags        json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode youtube metadata: %w", err)
	}

	// Older backends use "title", newer ones "titles". "titles" wins when both
	// are present.
	titlesRaw := raw.Titles
	if isAbsent(titlesRaw) {
		titlesRaw = raw.Title
	}
	titles, err := decodeTitles(titlesRaw)
	if err != nil {
		return err
	}
	tags, err := decodeTags(raw.Tags)
	if err != nil {
		return err
	}

	m.Titles = titles
	m.Description = raw.Description
	m.Tags = tags
	return nil
}

func decodeTitles(raw json.RawMessage) (Titles, error) {
	if isAbsent(raw) {
		return Titles{Kind: TitlesAbsent}, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return Titles{Kind: TitlesSingle, Single: single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return Titles{Kind: TitlesList, List: list}, nil
	}
	return Titles{}, fmt.Errorf("titles field is neither string nor list: %s", compact(raw))
}

func decodeTags(raw json.RawMessage) (Tags, error) {
	if isAbsent(raw) {
		return Tags{Kind: TagsAbsent}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return Tags{Kind: TagsList, List: list}, nil
	}
	var bucketed struct {
		Broad    []string `json:"broad"`
		Medium   []string `json:"medium"`
		LongTail []string `json:"long_tail"`
	}
	if err := json.Unmarshal(raw, &bucketed); err == nil && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Tags{
			Kind:     TagsBucketed,
			Broad:    bucketed.Broad,
			Medium:   bucketed.Medium,
			LongTail: bucketed.LongTail,
		}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Tags{Kind: TagsRaw, Raw: s}, nil
	}
	return Tags{}, fmt.Errorf("tags field is neither list, bucket object, nor string: %s", compact(raw))
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func compact(raw json.RawMessage) string {
	const max = 120
	s := string(bytes.TrimSpace(raw))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

package skills

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingID is returned by normalizeRecord for records without a
// non-empty string id. Such records are skipped, not failed.
var ErrMissingID = errors.New("record has no usable id")

// timeFormats are the accepted lastUpdated layouts, most specific first.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeRecord converts one loosely typed sync record into a Skill.
// Every field except id is lenient: wrong types and absent keys collapse
// to zero values instead of rejecting the record. A record without a
// non-empty string id returns ErrMissingID.
func normalizeRecord(record map[string]any, now time.Time) (*Skill, error) {
	id := stringField(record, "id")
	if id == "" {
		return nil, ErrMissingID
	}

	skill := &Skill{
		ID:          id,
		Name:        stringField(record, "name"),
		ShortDesc:   stringField(record, "shortDesc"),
		LongDesc:    stringField(record, "longDesc"),
		Author:      stringField(record, "author"),
		AuthorURL:   optionalString(record, "authorUrl"),
		Stars:       intField(record, "stars"),
		LastUpdated: timeField(record, "lastUpdated", now),
		Command:     stringField(record, "command"),
		Tags:        tagsField(record),
		FileSHA:     optionalString(record, "file_sha"),
		SourceRepo:  optionalString(record, "source_repo"),
		SourcePath:  optionalString(record, "source_path"),
		DownloadURL: optionalString(record, "downloadUrl"),
	}

	if seo, ok := record["seo_content"].(map[string]any); ok {
		skill.SEOTitle = optionalString(seo, "seo_title")
		skill.SEODesc = optionalString(seo, "seo_description")
	}

	return skill, nil
}

// stringField returns the value as a string, or "" when absent or of
// another type.
func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}

// optionalString returns a pointer to the trimmed value, or nil when the
// field is absent, empty, or not a string.
func optionalString(record map[string]any, key string) *string {
	s, ok := record[key].(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// intField reads a numeric field, clamping negatives to zero. JSON
// numbers decode as float64.
func intField(record map[string]any, key string) int {
	f, ok := record[key].(float64)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// timeField parses a timestamp field, falling back to now when absent
// or unparseable.
func timeField(record map[string]any, key string, now time.Time) time.Time {
	s, ok := record[key].(string)
	if !ok || s == "" {
		return now
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

// tagsField collects the string elements of a tags array, dropping
// anything else.
func tagsField(record map[string]any) []string {
	raw, ok := record["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

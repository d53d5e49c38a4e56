// Package extract locates and normalizes the JSON payload embedded in the
// vision model's free-form output. The model is prompted to answer with a
// bare JSON array, but in practice the payload arrives wrapped in prose or
// markdown fences, so we cut out the first bracketed substring and parse
// that.
package extract

import (
	"regexp"

	"github.com/tidwall/gjson"

	"book-scanner/backend/internal/apierr"
	"book-scanner/backend/internal/model"
)

const (
	// UnknownTitle substitutes a missing title field.
	UnknownTitle = "Unknown Title"
	// UnknownAuthor substitutes a missing author field.
	UnknownAuthor = "Unknown Author"
)

// jsonPattern greedily matches the first array or object in the text,
// across newlines. Greedy matching is deliberate: models tend to emit a
// single payload followed by a short sign-off, and the widest match keeps
// nested brackets intact.
var jsonPattern = regexp.MustCompile(`(?s)\[.*\]|\{.*\}`)

// locate cuts the JSON payload out of raw model output.
func locate(text string) (gjson.Result, error) {
	raw := jsonPattern.FindString(text)
	if raw == "" {
		return gjson.Result{}, apierr.Malformed("no JSON payload found in model response")
	}
	if !gjson.Valid(raw) {
		return gjson.Result{}, apierr.Malformed("model response contained invalid JSON")
	}
	return gjson.Parse(raw), nil
}

// sentinel reports the "nothing detected" message if parsed is the model's
// error sentinel: either a bare {"error": ...} object or an array holding
// one.
func sentinel(parsed gjson.Result) (string, bool) {
	probe := parsed
	if parsed.IsArray() {
		arr := parsed.Array()
		if len(arr) == 0 {
			return "", false
		}
		probe = arr[0]
	}
	if !probe.IsObject() {
		return "", false
	}
	if msg := probe.Get("error"); msg.Exists() && !probe.Get("title").Exists() {
		return msg.String(), true
	}
	return "", false
}

// Books parses book-list extraction output into normalized records.
// Missing title/author fields fall back to placeholders; isbn, genre and
// page count stay nil when absent. Both page_count and pageCount spellings
// are accepted.
func Books(text string) ([]model.ExtractedBook, error) {
	parsed, err := locate(text)
	if err != nil {
		return nil, err
	}
	if msg, ok := sentinel(parsed); ok {
		return nil, apierr.NotFound("%s", msg)
	}
	if !parsed.IsArray() {
		return nil, apierr.Malformed("model response was not a JSON array of books")
	}

	var books []model.ExtractedBook
	for _, el := range parsed.Array() {
		if !el.IsObject() {
			return nil, apierr.Malformed("model response contained a non-object book entry")
		}
		books = append(books, bookFrom(el))
	}
	return books, nil
}

func bookFrom(el gjson.Result) model.ExtractedBook {
	book := model.ExtractedBook{
		Title:  UnknownTitle,
		Author: UnknownAuthor,
	}
	if v := el.Get("title"); v.Exists() && v.String() != "" {
		book.Title = v.String()
	}
	if v := el.Get("author"); v.Exists() && v.String() != "" {
		book.Author = v.String()
	}
	if v := el.Get("isbn"); v.Type == gjson.String && v.String() != "" {
		s := v.String()
		book.ISBN = &s
	}
	if v := el.Get("genre"); v.Type == gjson.String && v.String() != "" {
		s := v.String()
		book.Genre = &s
	}
	pages := el.Get("page_count")
	if !pages.Exists() {
		pages = el.Get("pageCount")
	}
	if pages.Type == gjson.Number {
		n := int(pages.Int())
		book.PageCount = &n
	}
	return book
}

// Titles parses title-only extraction output. The payload must be a flat
// array of strings; order and duplicates are preserved because enrichment
// matches results back to titles positionally.
func Titles(text string) ([]string, error) {
	parsed, err := locate(text)
	if err != nil {
		return nil, err
	}
	if msg, ok := sentinel(parsed); ok {
		return nil, apierr.NotFound("%s", msg)
	}
	if !parsed.IsArray() {
		return nil, apierr.Malformed("model response was not a JSON array of titles")
	}

	var titles []string
	for _, el := range parsed.Array() {
		if el.Type != gjson.String {
			return nil, apierr.Malformed("model response contained a non-string title entry")
		}
		titles = append(titles, el.String())
	}
	return titles, nil
}

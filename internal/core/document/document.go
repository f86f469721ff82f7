package document

import (
	"bytes"
	"fmt"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/goccy/go-json"
)

// Document is the unit of storage that carries one download series.
//
// Content is the raw serialized form. Structured, when non-nil, is the already
// decoded content and takes precedence over Content; documents loaded that way
// are written back in structured form only. Data holds the per-document
// overrides (repo, start, prop).
type Document struct {
	Name       string
	Content    []byte
	Structured any
	Data       downloads.Overrides
}

// New creates a document from raw serialized content.
func New(name string, content []byte, data downloads.Overrides) *Document {
	return &Document{Name: name, Content: content, Data: data}
}

// structured returns the decoded content. Empty or invalid content decodes to
// nil; parse failures are reported through ok=false for logging only.
func (d *Document) structured() (value any, ok bool) {
	if d.Structured != nil {
		return d.Structured, true
	}
	if len(bytes.TrimSpace(d.Content)) == 0 {
		return nil, true
	}
	if err := json.Unmarshal(d.Content, &value); err != nil {
		return nil, false
	}
	return value, true
}

// ReadSeries extracts the series stored in the document. With prop set the
// series is the named field of the content object; otherwise the content
// itself is the series. Unparseable content yields an empty series and
// ok=false; ReadSeries never fails.
func ReadSeries(doc *Document, prop string) (series downloads.Series, ok bool) {
	value, ok := doc.structured()
	if !ok {
		return downloads.Series{}, false
	}
	if prop != "" {
		obj, isObj := value.(map[string]any)
		if !isObj {
			return downloads.Series{}, value == nil
		}
		value = obj[prop]
	}
	return downloads.FromRaw(value), true
}

// WriteSeries stores series into the document. With prop set the series goes
// under that field of the content object, keeping unrelated fields intact; a
// content value that is not an object is replaced by a fresh one.
//
// Documents that arrived with Structured content get their Structured value
// updated. All others get Content re-serialized as indented JSON.
func WriteSeries(doc *Document, prop string, series downloads.Series) error {
	raw := downloads.ToRaw(series)

	var value any = raw
	if prop != "" {
		current, _ := doc.structured()
		obj, isObj := current.(map[string]any)
		if !isObj {
			obj = make(map[string]any)
		}
		obj[prop] = raw
		value = obj
	}

	if doc.Structured != nil {
		doc.Structured = value
		return nil
	}

	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %q: %w", doc.Name, err)
	}
	doc.Content = content
	return nil
}

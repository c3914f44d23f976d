// Package feed decodes the release feed document into raw categories and
// releases, tolerating unknown fields and null release lists.
package feed

import (
	"encoding/json"
	"fmt"
	"io"
)

// File mirrors the "File" object of a raw release.
type File struct {
	URL            string `json:"Url"`
	Sha512CheckSum string `json:"Sha512CheckSum"`
}

// Release mirrors one raw release entry inside a category.
type Release struct {
	Version   string   `json:"Version"`
	ChangeLog []string `json:"ChangeLog"`
	File      *File    `json:"File,omitempty"`
}

// Category mirrors one "Categories" entry of the feed document.
type Category struct {
	Name     string     `json:"Name"`
	Releases []*Release `json:"Releases"`
}

// Document is the decoded top-level feed.
type Document struct {
	Categories []*Category `json:"Categories"`
}

// document is the wire shape: Categories is required, everything else is
// ignored on decode.
type document struct {
	Categories *[]*Category `json:"Categories"`
}

// Decode reads and parses a feed document from r.
//
// It fails with a *FeedError if the stream is empty, is not well-formed
// JSON, or lacks the Categories field. A Releases list that is explicitly
// JSON null decodes to an empty slice rather than nil, per category.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FeedError{Reason: "read feed body", Err: err}
	}
	if len(data) == 0 {
		return nil, &FeedError{Reason: "empty feed body"}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FeedError{Reason: "decode feed JSON", Err: err}
	}
	if doc.Categories == nil {
		return nil, &FeedError{Reason: "feed document missing Categories field"}
	}

	out := &Document{Categories: *doc.Categories}
	for _, cat := range out.Categories {
		if cat == nil {
			continue
		}
		if cat.Releases == nil {
			cat.Releases = []*Release{}
		}
		for _, rel := range cat.Releases {
			if rel != nil && rel.ChangeLog == nil {
				rel.ChangeLog = []string{}
			}
		}
	}
	return out, nil
}

// FeedError reports a malformed or unreadable feed document.
type FeedError struct {
	Reason string
	Err    error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("feed: %s", e.Reason)
}

func (e *FeedError) Unwrap() error { return e.Err }

package model

import (
	"sort"

	"firestore-rules-tester/internal/shared/paths"
)

// Document is a keyed record in the fixture dataset. Fields hold the document's
// stored data; Collections holds nested sub-collections, so documents form a tree
// of unbounded depth.
type Document struct {
	Key         string                 `json:"key"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
	Collections Collections            `json:"collections,omitempty"`
}

// Collection is an ordered sequence of documents at one tree level. Order is the
// insertion order of the fixture; lookups are by key.
type Collection []*Document

// Collections maps collection names to their documents. The dataset root is itself
// a Collections value, addressed by its child collection names.
type Collections map[string]Collection

// DocumentEntry pairs a document with its absolute path in the tree.
type DocumentEntry struct {
	Path string
	Doc  *Document
}

// GetCollection resolves a collection path. A single-segment path names a root
// collection; otherwise the parent document is resolved first. Absence, and a
// path that does not end on a collection name, resolve to a nil collection.
func (c Collections) GetCollection(path string) Collection {
	if !paths.IsCollectionPath(path) {
		return nil
	}

	parent, last := paths.SplitLast(path)
	if parent == "" {
		return c[last]
	}

	doc := c.GetDocument(parent)
	if doc == nil {
		return nil
	}
	return doc.Collections[last]
}

// GetDocument resolves a document path, returning nil when the document is absent
// or the path does not end on a document key. The first document whose key matches
// wins; duplicate keys within a collection are a fixture authoring error and are
// not validated here.
func (c Collections) GetDocument(path string) *Document {
	if !paths.IsDocumentPath(path) {
		return nil
	}

	collectionPath, key := paths.SplitLast(path)
	for _, doc := range c.GetCollection(collectionPath) {
		if doc.Key == key {
			return doc
		}
	}
	return nil
}

// HasDocument reports whether a document exists at the given path.
func (c Collections) HasDocument(path string) bool {
	return c.GetDocument(path) != nil
}

// Documents enumerates every document in the tree with its absolute path, exactly
// once each. Collection names are visited in sorted order so enumeration is
// deterministic; documents keep their fixture order.
func (c Collections) Documents() []DocumentEntry {
	return c.documentsUnder("")
}

func (c Collections) documentsUnder(parentPath string) []DocumentEntry {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []DocumentEntry
	for _, name := range names {
		for _, doc := range c[name] {
			docPath := paths.Join(parentPath, name, doc.Key)
			entries = append(entries, DocumentEntry{Path: docPath, Doc: doc})
			entries = append(entries, doc.Collections.documentsUnder(docPath)...)
		}
	}
	return entries
}

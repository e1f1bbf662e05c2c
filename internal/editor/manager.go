package editor

import (
	"errors"
	"strconv"
)

// ErrDocumentNotFound is returned for an operation on a document that is
// not open.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentManager keeps the open documents in the order they were opened
// and tracks the active one. Documents are keyed by path; scratch
// documents get a generated key.
type DocumentManager struct {
	documents map[string]*Document
	active    *Document
	order     []string
	counter   int
}

// NewDocumentManager creates an empty document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*Document),
	}
}

// Add registers doc and makes it active. A document already open under the
// same path is returned instead and becomes active.
func (dm *DocumentManager) Add(doc *Document) (*Document, bool) {
	k := doc.path
	if k == "" {
		dm.counter++
		k = scratchKey(dm.counter)
		if dm.counter > 1 {
			doc.name = "Untitled-" + strconv.Itoa(dm.counter)
		}
	}
	if existing, ok := dm.documents[k]; ok {
		dm.active = existing
		return existing, false
	}
	dm.documents[k] = doc
	dm.order = append(dm.order, k)
	dm.active = doc
	return doc, true
}

// Remove closes doc. The most recently opened remaining document becomes
// active.
func (dm *DocumentManager) Remove(doc *Document) error {
	idx := dm.indexOf(doc)
	if idx < 0 {
		return ErrDocumentNotFound
	}
	delete(dm.documents, dm.order[idx])
	dm.order = append(dm.order[:idx], dm.order[idx+1:]...)

	if dm.active == doc {
		dm.active = nil
		if len(dm.order) > 0 {
			dm.active = dm.documents[dm.order[len(dm.order)-1]]
		}
	}
	return nil
}

// Active returns the active document, or nil when none is open.
func (dm *DocumentManager) Active() *Document {
	return dm.active
}

// SetActive makes doc the active document.
func (dm *DocumentManager) SetActive(doc *Document) error {
	if dm.indexOf(doc) < 0 {
		return ErrDocumentNotFound
	}
	dm.active = doc
	return nil
}

// Get returns a document by path.
func (dm *DocumentManager) Get(path string) (*Document, bool) {
	doc, ok := dm.documents[path]
	return doc, ok
}

// ByURI returns the document with the given uri.
func (dm *DocumentManager) ByURI(uri string) (*Document, bool) {
	if uri == "" {
		return nil, false
	}
	for _, k := range dm.order {
		if doc := dm.documents[k]; doc.uri == uri {
			return doc, true
		}
	}
	return nil, false
}

// All returns all open documents in open order.
func (dm *DocumentManager) All() []*Document {
	docs := make([]*Document, 0, len(dm.order))
	for _, k := range dm.order {
		docs = append(docs, dm.documents[k])
	}
	return docs
}

// Language returns the open documents of a language.
func (dm *DocumentManager) Language(id string) []*Document {
	var docs []*Document
	for _, k := range dm.order {
		if doc := dm.documents[k]; doc.languageID == id {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	return len(dm.order)
}

// HasModified returns true if any document has unsaved changes.
func (dm *DocumentManager) HasModified() bool {
	for _, doc := range dm.documents {
		if doc.IsModified() {
			return true
		}
	}
	return false
}

// Next activates and returns the document after the active one, wrapping
// around.
func (dm *DocumentManager) Next() *Document {
	return dm.step(1)
}

// Previous activates and returns the document before the active one,
// wrapping around.
func (dm *DocumentManager) Previous() *Document {
	return dm.step(-1)
}

func (dm *DocumentManager) step(delta int) *Document {
	idx := dm.indexOf(dm.active)
	if idx < 0 {
		return dm.active
	}
	n := len(dm.order)
	dm.active = dm.documents[dm.order[(idx+delta+n)%n]]
	return dm.active
}

func (dm *DocumentManager) indexOf(doc *Document) int {
	if doc == nil {
		return -1
	}
	for i, k := range dm.order {
		if dm.documents[k] == doc {
			return i
		}
	}
	return -1
}

// scratchKey generates a key for scratch buffers.
func scratchKey(n int) string {
	return "::scratch::" + strconv.Itoa(n)
}

package xloss

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/pthm/xloss/lib/dom"
	"github.com/rs/zerolog"
)

// Page is one document session: the document plus every registry that
// writes into it. Create one per rendered page and pass it explicitly;
// nothing in xloss is global.
//
// All methods are safe for concurrent use. Calls are serialized, so an
// Inject never interleaves with another Inject or with variable writes.
type Page struct {
	mu       sync.Mutex
	doc      *dom.Document
	vars     *VarRegistry
	rules    *RuleRegistry
	ledger   *Ledger
	securer  *Securer
	injector *Injector
	log      zerolog.Logger
}

// NewPage creates a page over an empty document.
func NewPage(opts ...Option) (*Page, error) {
	return NewPageFromDocument(dom.New(), opts...)
}

// NewPageFromDocument creates a page over an existing document. Style
// elements owned by the registries are reused if the document has them.
func NewPageFromDocument(doc *dom.Document, opts ...Option) (*Page, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.tags == TagShared && doc.CustomElements().Defined(SharedTag) {
		return nil, fmt.Errorf("%w: %s is owned by another page", ErrTagCollision, SharedTag)
	}

	vars, err := NewVarRegistry(doc)
	if err != nil {
		return nil, fmt.Errorf("create variable registry: %w", err)
	}
	rules, err := NewRuleRegistry(doc)
	if err != nil {
		return nil, fmt.Errorf("create rule registry: %w", err)
	}

	ledger := NewLedger()
	securer := NewSecurer(o.cipher)
	injector, err := newInjector(doc, vars, ledger, securer, o)
	if err != nil {
		return nil, fmt.Errorf("create injector: %w", err)
	}

	return &Page{
		doc:      doc,
		vars:     vars,
		rules:    rules,
		ledger:   ledger,
		securer:  securer,
		injector: injector,
		log:      o.logger,
	}, nil
}

// Inject protects content inside the element with id targetID (body when
// empty or missing) and returns the updated snapshot.
func (p *Page) Inject(ctx context.Context, content, cssProps, extraHTML, targetID string) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.injector.Inject(ctx, content, cssProps, extraHTML, targetID)
	if err != nil {
		p.log.Warn().Err(err).Str("target_id", targetID).Msg("injection failed")
		return Snapshot{}, err
	}
	return snap, nil
}

// Snapshot returns the bookkeeping of every injection so far.
func (p *Page) Snapshot() Snapshot {
	return p.ledger.Snapshot()
}

// Reveal decrypts a sealed token rendered in SourceCipherText mode, given
// the identifier it was rendered under.
func (p *Page) Reveal(sealed string, id Identifier) (string, error) {
	return p.securer.Reveal(sealed, string(id))
}

// AddVar sets a page variable.
func (p *Page) AddVar(name, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.Add(name, value)
}

// AddVars sets several page variables in order.
func (p *Page) AddVars(vars ...Var) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.AddAll(vars...)
}

// UpdateVar changes an existing page variable; it does nothing and returns
// false when the variable is absent.
func (p *Page) UpdateVar(name, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.Update(name, value)
}

// UpdateVars changes several existing page variables.
func (p *Page) UpdateVars(vars ...Var) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.UpdateAll(vars...)
}

// RemoveVar deletes a page variable.
func (p *Page) RemoveVar(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.Remove(name)
}

// RemoveVars deletes several page variables.
func (p *Page) RemoveVars(names ...string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.RemoveAll(names...)
}

// Var returns a page variable.
func (p *Page) Var(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.Get(name)
}

// AllVars returns every page variable in insertion order.
func (p *Page) AllVars() []Var {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.All()
}

// HasVar reports whether a page variable is set.
func (p *Page) HasVar(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vars.Has(name)
}

// ClearVars removes every page variable.
func (p *Page) ClearVars() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vars.Clear()
}

// AddClass adds a class rule unless one exists.
func (p *Page) AddClass(name string, props map[string]string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rules.AddClass(name, props)
}

// UpdateClass replaces or adds a class rule.
func (p *Page) UpdateClass(name string, props map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rules.UpdateClass(name, props)
}

// RemoveClass deletes a class rule.
func (p *Page) RemoveClass(name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rules.RemoveClass(name)
}

// ClearClasses deletes every class rule.
func (p *Page) ClearClasses() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rules.Clear()
}

// Rules returns the page's class rule registry. It is not synchronized
// with the page; use AddClass and friends when other goroutines share it.
func (p *Page) Rules() *RuleRegistry { return p.rules }

// Document returns the underlying document. Reads and writes through it
// bypass the page lock; use Do for exclusive access.
func (p *Page) Document() *dom.Document { return p.doc }

// Do runs fn with exclusive access to the document, for building the
// surrounding page (containers, headings) between injections.
func (p *Page) Do(fn func(doc *dom.Document) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.doc)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Render(w)
}

// HTML returns the rendered page.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.HTML()
}

// Component returns the page as a templ component.
func (p *Page) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return p.Render(w)
	})
}

package xloss

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pthm/xloss/lib/dom"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// SharedTag is the element type used in TagShared mode.
const SharedTag = "x-loss"

const (
	attrID    = "data-xloss-id"
	attrFor   = "data-xloss-for"
	attrScope = "data-xloss-scope"
)

// Injector renders content as the ::before content of a generated element
// instead of as text nodes, so markup-only scrapers never see it.
//
// Injector is not safe for concurrent use; Page serializes calls so each
// injection is one transaction.
type Injector struct {
	doc     *dom.Document
	vars    *VarRegistry
	ledger  *Ledger
	securer *Securer
	ids     *IDGenerator
	opts    options
	log     zerolog.Logger

	// scoped holds the element style of each identifier for the shared
	// element type's connected hook.
	scoped map[Identifier]string
}

func newInjector(doc *dom.Document, vars *VarRegistry, ledger *Ledger, securer *Securer, o options) (*Injector, error) {
	in := &Injector{
		doc:     doc,
		vars:    vars,
		ledger:  ledger,
		securer: securer,
		ids:     NewIDGenerator(o.idSource),
		opts:    o,
		log:     o.logger,
		scoped:  make(map[Identifier]string),
	}

	if o.tags == TagShared {
		err := doc.CustomElements().Define(SharedTag, dom.ElementDefinition{
			Connected: in.connectShared,
		})
		if errors.Is(err, dom.ErrAlreadyDefined) {
			return nil, fmt.Errorf("%w: %s is owned by another page", ErrTagCollision, SharedTag)
		}
		if err != nil {
			return nil, err
		}
	}
	return in, nil
}

// Inject protects content and places it in the element with id targetID,
// or in body when targetID is empty or not found. cssProps styles the
// generated element's ::before box; extraHTML is parsed into the element.
//
// Identifier generation, encryption and element definition all happen
// before the document or the ledger is touched, so a failed call leaves no
// partial state. The returned snapshot includes this call.
func (in *Injector) Inject(ctx context.Context, content, cssProps, extraHTML, targetID string) (Snapshot, error) {
	target := in.resolveTarget(targetID)

	id, err := in.newIdentifier()
	if err != nil {
		return Snapshot{}, err
	}

	secured, err := in.securer.Secure(ctx, content, string(id))
	if err != nil {
		return Snapshot{}, err
	}

	tag := SharedTag
	if in.opts.tags == TagPerCall {
		tag = string(id)
		err := in.doc.CustomElements().Define(tag, dom.ElementDefinition{
			Connected: scopedStyle(id, tag+"::before", cssProps),
		})
		if errors.Is(err, dom.ErrAlreadyDefined) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrTagCollision, tag)
		}
		if err != nil {
			return Snapshot{}, err
		}
	} else {
		in.scoped[id] = cssProps
	}

	visible := secured.Plaintext
	if in.opts.source == SourceCipherText {
		visible = secured.Sealed
	}
	if err := in.vars.Add(string(id), visible); err != nil {
		return Snapshot{}, err
	}

	el := dom.CreateElement(tag,
		html.Attribute{Key: "id", Val: string(id)},
		html.Attribute{Key: attrID, Val: string(id)},
	)
	if err := in.doc.AppendChild(target, el); err != nil {
		return Snapshot{}, err
	}
	if err := in.doc.AppendHTML(el, extraHTML); err != nil {
		return Snapshot{}, err
	}

	if err := in.appendContentRule(id, visible); err != nil {
		return Snapshot{}, err
	}

	in.ledger.record(entry{
		id:      id,
		css:     cssProps,
		markup:  dom.OuterHTML(el),
		content: content,
	})

	in.log.Debug().
		Str("id", string(id)).
		Str("tag", tag).
		Str("target", target.Data).
		Msg("protected element injected")

	return in.ledger.Snapshot(), nil
}

func (in *Injector) resolveTarget(targetID string) *html.Node {
	if targetID == "" {
		return in.doc.Body()
	}
	el := in.doc.GetElementByID(targetID)
	switch {
	case el == nil:
		in.log.Debug().Str("target_id", targetID).Msg("target not found, using body")
	case !dom.AcceptsChildren(el) || in.doc.InHead(el):
		in.log.Debug().
			Str("target_id", targetID).
			Str("tag", el.Data).
			Msg("target cannot hold elements, using body")
	default:
		return el
	}
	return in.doc.Body()
}

// newIdentifier draws identifiers until one is unused by the ledger, the
// custom element registry, the variable registry and the document ids.
func (in *Injector) newIdentifier() (Identifier, error) {
	for range in.opts.idRetries {
		id := in.ids.Generate()
		if in.available(id) {
			return id, nil
		}
		in.log.Debug().Str("id", string(id)).Msg("identifier in use, drawing again")
	}
	return "", fmt.Errorf("%w: no free identifier after %d attempts", ErrTagCollision, in.opts.idRetries)
}

func (in *Injector) available(id Identifier) bool {
	return !in.ledger.Has(id) &&
		!in.doc.CustomElements().Defined(string(id)) &&
		!in.vars.Has(string(id)) &&
		in.doc.GetElementByID(string(id)) == nil
}

// appendContentRule adds the global rule that makes the text visible.
func (in *Injector) appendContentRule(id Identifier, visible string) error {
	value := cssString(visible)
	if in.opts.expose == ExposeVariable {
		value = "var(--" + string(id) + ")"
	}
	rule := dom.Rule{
		Selector: "#" + string(id) + "::before",
		Body:     "content: " + value + ";",
	}

	style := dom.CreateElement("style", html.Attribute{Key: attrFor, Val: string(id)})
	dom.SetText(style, rule.CSSText())
	return in.doc.AppendChild(in.doc.Head(), style)
}

// connectShared is the connected hook of SharedTag.
func (in *Injector) connectShared(doc *dom.Document, el *html.Node) error {
	id := Identifier(dom.Attr(el, attrID))
	css, ok := in.scoped[id]
	if !ok {
		// Not one of ours: markup written by hand or by another page.
		return nil
	}
	return scopedStyle(id, "#"+string(id)+"::before", css)(doc, el)
}

// scopedStyle returns a connected hook that appends the element style next
// to the element, inside its container.
func scopedStyle(id Identifier, selector, cssProps string) func(*dom.Document, *html.Node) error {
	return func(doc *dom.Document, el *html.Node) error {
		style := dom.CreateElement("style", html.Attribute{Key: attrScope, Val: string(id)})
		dom.SetText(style, dom.Rule{Selector: selector, Body: strings.TrimSpace(cssProps)}.CSSText())
		return doc.AppendChild(el.Parent, style)
	}
}

// Package demo builds the xloss demonstration page: three preloaded
// examples and a container that grows each time the button is pressed.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/pthm/xloss"
	"github.com/pthm/xloss/lib/dom"
	nethtml "golang.org/x/net/html"
)

// Element ids of the demo layout.
const (
	RootID      = "xloss-demo-container"
	PreloadedID = "xloss-preloaded"
	ContainerID = "xloss-container"
	DataID      = "xloss-data"
)

// InteractivePath is the route the demo button posts to.
const InteractivePath = "/demo/interactive"

// HTMXScript is the htmx build the button relies on.
const HTMXScript = "https://unpkg.com/htmx.org@2.0.4"

// Example is one injection with the container it goes into.
type Example struct {
	TargetID string
	Title    string
	Content  string
	CSS      string
	HTML     string
}

// Examples are injected when the page is built.
var Examples = []Example{
	{
		TargetID: "xloss-example-1",
		Title:    "Ejemplo 1: Texto simple protegido",
		Content:  "Este es un texto protegido simple",
		CSS:      "color: #e63946; font-weight: bold;",
	},
	{
		TargetID: "xloss-example-2",
		Title:    "Ejemplo 2: Texto con estilos",
		Content:  "Texto con estilos personalizados",
		CSS:      "color: #2a9d8f; font-weight: bold; font-size: 18px; text-decoration: underline;",
	},
	{
		TargetID: "xloss-example-3",
		Title:    "Ejemplo 3: Contenido mixto (texto protegido + HTML visible)",
		Content:  "Contenido protegido + HTML visible",
		CSS:      "color: #4361ee; font-weight: bold; font-style: italic;",
		HTML:     `<p style="color: #333; margin-top: 10px;">Este es contenido HTML visible normal que complementa el contenido protegido</p>`,
	},
}

// Interactive is injected into ContainerID by the demo button.
var Interactive = Example{
	TargetID: ContainerID,
	Content:  "Este texto fue agregado interactivamente",
	CSS:      "color: #6d23b6; font-weight: bold; border-bottom: 2px dotted #6d23b6;",
	HTML:     "<p>Este es contenido adicional visible que se agregó al hacer clic</p>",
}

// Build lays out the demo on page and runs the preloaded examples.
func Build(ctx context.Context, page *xloss.Page) error {
	err := page.Do(func(doc *dom.Document) error {
		script := dom.CreateElement("script", nethtml.Attribute{Key: "src", Val: HTMXScript})
		if err := doc.AppendChild(doc.Head(), script); err != nil {
			return err
		}
		return doc.AppendHTML(doc.Body(), layout())
	})
	if err != nil {
		return fmt.Errorf("demo layout: %w", err)
	}

	var snap xloss.Snapshot
	for _, ex := range Examples {
		snap, err = page.Inject(ctx, ex.Content, ex.CSS, ex.HTML, ex.TargetID)
		if err != nil {
			return fmt.Errorf("demo %s: %w", ex.TargetID, err)
		}
	}
	return ShowSnapshot(page, snap)
}

// AddInteractive performs the button's injection and refreshes the
// snapshot display.
func AddInteractive(ctx context.Context, page *xloss.Page) (xloss.Snapshot, error) {
	snap, err := page.Inject(ctx, Interactive.Content, Interactive.CSS, Interactive.HTML, Interactive.TargetID)
	if err != nil {
		return xloss.Snapshot{}, err
	}
	return snap, ShowSnapshot(page, snap)
}

// ShowSnapshot writes snap as indented JSON into the data panel, creating
// it on first use. Protected contents are left out so the panel does not
// put them back into the markup.
func ShowSnapshot(page *xloss.Page, snap xloss.Snapshot) error {
	b, err := json.MarshalIndent(snap.Redacted(), "", "  ")
	if err != nil {
		return err
	}

	return page.Do(func(doc *dom.Document) error {
		pre := doc.GetElementByID(DataID)
		if pre == nil {
			pre = dom.CreateElement("pre",
				nethtml.Attribute{Key: "id", Val: DataID},
				nethtml.Attribute{Key: "style", Val: "background-color: #f5f5f5; padding: 10px; margin-top: 20px; overflow: auto; max-height: 300px;"},
			)
			parent := doc.GetElementByID(PreloadedID)
			if parent == nil {
				parent = doc.Body()
			}
			if err := doc.AppendChild(parent, pre); err != nil {
				return err
			}
		}
		dom.SetText(pre, string(b))
		return nil
	})
}

func layout() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="xloss-demo-container">`, RootID)
	b.WriteString(`<h2>XLoss Anti-Scraping Demo</h2>`)
	b.WriteString(`<p>Este componente muestra cómo XLoss puede proteger contenido contra scraping utilizando pseudo-elementos CSS.</p>`)
	b.WriteString(`<h3 style="margin-top: 20px;">Ejemplos pre-cargados de XLoss</h3>`)

	fmt.Fprintf(&b, `<div id="%s" class="preloaded-examples">`, PreloadedID)
	for _, ex := range Examples {
		fmt.Fprintf(&b, `<div id="%s" class="xloss-example"><h4>%s</h4></div>`,
			html.EscapeString(ex.TargetID), html.EscapeString(ex.Title))
	}
	b.WriteString(`</div>`)

	b.WriteString(`<h3 style="margin-top: 30px;">Demo interactivo</h3>`)
	fmt.Fprintf(&b, `<div id="%s" class="xloss-example"></div>`, ContainerID)
	fmt.Fprintf(&b, `<button hx-post="%s">Agregar más texto protegido</button>`, InteractivePath)
	b.WriteString(`</div>`)
	return b.String()
}

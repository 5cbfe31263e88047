// Package xloss hides text from markup scrapers by rendering it as the
// generated content of a ::before pseudo-element instead of as text nodes.
//
// A Page holds one HTML document and everything that writes into it:
//
//	page, err := xloss.NewPage()
//	snap, err := page.Inject(ctx, "Secret", "color: red;", "", "box")
//	xloss.Render(w, r, page.Component())
//
// # Injection
//
// Each Inject call:
//   - draws a fresh Identifier of the form aaaaa-aaaaa, checked against
//     everything the page already uses
//   - encrypts the content with the identifier as passphrase
//     (PBKDF2-SHA256, AES-256-GCM) and decrypts it again to validate
//   - records the text as a CSS variable in the page's :root block
//   - appends an element carrying the identifier as id to the target
//     container (body when the target id is empty or missing), with a
//     scoped style rule next to it for cssProps
//   - appends `#id::before { content: ... }` to head
//   - appends one entry to every bookkeeping sequence (see Snapshot)
//
// Nothing is written until encryption and identifier checks succeed, and
// calls on a Page are serialized, so each injection is one transaction.
//
// # Policies
//
// Options select between the behaviors the mechanism has had over time:
//   - WithExposeMode: literal text in the rule, or var(--id)
//   - WithContentSource: the validated plaintext, or the sealed cipher bundle
//   - WithTagMode: one shared x-loss element type, or a custom element type
//     per identifier (where a reused name fails with ErrTagCollision)
//
// # Security Model
//
// The passphrase is the identifier, which is in the same page. This defeats
// static scraping of markup and stylesheets, not a reader who runs the page.
//
// # Registries
//
// VarRegistry mirrors an ordered set of custom properties into
// <style id="xloss-vars">. RuleRegistry keeps class rules in
// <style id="xloss-rules">. Both reuse their element when the document
// already has it.
package xloss

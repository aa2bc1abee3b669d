// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package richtext renders block-structured article bodies to sanitized
// HTML and builds the table of contents.
package richtext

import (
	"bytes"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/luxora-go/internal/content"
	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/offers"
)

// Decorator marks with their wrapping tags.
var decorators = map[string][2]string{
	"strong":         {"<strong>", "</strong>"},
	"em":             {"<em>", "</em>"},
	"underline":      {"<u>", "</u>"},
	"strike-through": {"<s>", "</s>"},
	"code":           {"<code>", "</code>"},
}

// Resolver supplies the page-model pieces embedded blocks need.
// *content.Normalizer implements it.
type Resolver interface {
	InlineImage(ref *model.Reference, alt string) content.ImageView
	NormalizeProduct(p *model.Product) (*content.ProductCard, content.Diagnostics)
}

// Element is the rendered output of one block.
type Element struct {
	Key  string
	Kind model.Kind
	HTML string
}

// Renderer turns blocks into HTML. It is safe for concurrent use.
type Renderer struct {
	resolver Resolver
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New creates a Renderer.
func New(resolver Resolver) *Renderer {
	return &Renderer{
		resolver: resolver,
		markdown: goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)),
		policy:   NewPolicy(),
	}
}

// Document is a rendered body with its table of contents.
type Document struct {
	Elements []Element
	TOC      TOC

	policy *bluemonday.Policy
}

// RenderDocument renders blocks into a Document with a fresh TOC.
func (r *Renderer) RenderDocument(blocks []model.Block) *Document {
	doc := &Document{policy: r.policy}
	doc.Elements = r.Render(blocks, &doc.TOC)
	return doc
}

// Render renders each block in order. Blocks that lack required
// data are omitted. Level-2 headings are recorded in toc, which may be nil.
func (r *Renderer) Render(blocks []model.Block, toc *TOC) []Element {
	if toc == nil {
		toc = &TOC{}
	}
	out := make([]Element, 0, len(blocks))
	for _, b := range blocks {
		s, ok := r.block(b, toc)
		if !ok {
			continue
		}
		out = append(out, Element{Key: b.Key, Kind: b.Kind(), HTML: s})
	}
	return out
}

// HTML joins the elements, wraps runs of list items in <ul>/<ol> and
// sanitizes the result.
func (d *Document) HTML() template.HTML {
	var b strings.Builder
	var open model.Kind
	closeList := func() {
		switch open {
		case model.KindBulletItem:
			b.WriteString("</ul>\n")
		case model.KindNumberItem:
			b.WriteString("</ol>\n")
		}
		open = model.KindUnknown
	}

	for _, e := range d.Elements {
		if e.Kind != open {
			closeList()
			switch e.Kind {
			case model.KindBulletItem:
				b.WriteString("<ul>\n")
				open = e.Kind
			case model.KindNumberItem:
				b.WriteString("<ol>\n")
				open = e.Kind
			}
		}
		b.WriteString(e.HTML)
		b.WriteString("\n")
	}
	closeList()

	policy := d.policy
	if policy == nil {
		policy = NewPolicy()
	}
	return template.HTML(policy.Sanitize(b.String())) //nolint:gosec // sanitized by bluemonday
}

func (r *Renderer) block(b model.Block, toc *TOC) (string, bool) {
	switch k := b.Kind(); k {
	case model.KindParagraph:
		return "<p>" + r.spans(b) + "</p>", true
	case model.KindHeading2:
		e := toc.Add(b.PlainText())
		attrs := ` id="` + e.ID + `"`
		if e.IsBuySection {
			attrs += ` class="buy-section" data-buy-section="true"`
		}
		return "<h2" + attrs + ">" + r.spans(b) + "</h2>", true
	case model.KindHeading3:
		return "<h3>" + r.spans(b) + "</h3>", true
	case model.KindHeading4:
		return "<h4>" + r.spans(b) + "</h4>", true
	case model.KindBlockquote:
		return "<blockquote>" + r.spans(b) + "</blockquote>", true
	case model.KindBulletItem, model.KindNumberItem:
		return "<li>" + r.spans(b) + "</li>", true
	case model.KindImage:
		return r.image(b)
	case model.KindCallToAction:
		return r.callToAction(b)
	case model.KindFAQ:
		return r.faq(b)
	case model.KindTable:
		return table(b), true
	case model.KindProduct:
		return r.product(b)
	default:
		if b.Type == model.TypeBlock {
			return "<p>" + r.spans(b) + "</p>", true
		}
		return "", false
	}
}

// spans renders the inline children of a text block. The first mark
// wraps innermost.
func (r *Renderer) spans(b model.Block) string {
	var out strings.Builder
	for _, s := range b.Children {
		text := html.EscapeString(s.Text)
		text = strings.ReplaceAll(text, "\n", "<br>")
		for _, m := range s.Marks {
			if tags, ok := decorators[m]; ok {
				text = tags[0] + text + tags[1]
				continue
			}
			def, ok := b.MarkDef(m)
			if !ok || def.Href == "" {
				continue
			}
			var a strings.Builder
			if def.Type == model.MarkAffiliateLink {
				writeAffiliateOpen(&a, def.Href, def.Retailer, "", "affiliate-link")
			} else if code, ok := offers.RetailerForURL(def.Href); ok {
				writeAffiliateOpen(&a, def.Href, code, "", "")
			} else {
				writeLinkOpen(&a, def.Href, def.Blank)
			}
			text = a.String() + text + "</a>"
		}
		out.WriteString(text)
	}
	return out.String()
}

func (r *Renderer) image(b model.Block) (string, bool) {
	if b.Asset == nil || r.resolver == nil {
		return "", false
	}
	img := r.resolver.InlineImage(b.Asset, b.Alt)
	if !img.Present() {
		return "", false
	}

	var out strings.Builder
	out.WriteString(`<figure class="rt-image"><img src="`)
	out.WriteString(html.EscapeString(img.URL))
	out.WriteString(`" alt="`)
	out.WriteString(html.EscapeString(img.Alt))
	out.WriteString(`"`)
	if img.Width > 0 {
		out.WriteString(` width="` + strconv.Itoa(img.Width) + `"`)
	}
	if img.Height > 0 {
		out.WriteString(` height="` + strconv.Itoa(img.Height) + `"`)
	}
	out.WriteString(` loading="lazy">`)
	if b.Caption != "" {
		out.WriteString("<figcaption>" + html.EscapeString(b.Caption) + "</figcaption>")
	}
	out.WriteString("</figure>")
	return out.String(), true
}

func (r *Renderer) callToAction(b model.Block) (string, bool) {
	if b.URL == "" {
		return "", false
	}
	variant := b.Variant
	if variant == "" {
		variant = "primary"
	}
	label := b.ButtonText
	if label == "" {
		label = "Shop now"
	}

	var out strings.Builder
	out.WriteString(`<aside class="rt-cta rt-cta-` + html.EscapeString(variant) + `">`)
	if b.Title != "" {
		out.WriteString("<h3>" + html.EscapeString(b.Title) + "</h3>")
	}
	if b.Text != "" {
		out.WriteString(`<div class="rt-cta-text">` + r.renderMarkdown(b.Text) + `</div>`)
	}
	if isExternal(b.URL) {
		out.WriteString(string(AffiliateLink(b.URL, label, "", "", "btn btn-cta")))
	} else {
		out.WriteString(`<a href="` + html.EscapeString(b.URL) + `" class="btn btn-cta">` + html.EscapeString(label) + `</a>`)
	}
	out.WriteString("</aside>")
	return out.String(), true
}

func (r *Renderer) faq(b model.Block) (string, bool) {
	if strings.TrimSpace(b.Question) == "" {
		return "", false
	}
	var out strings.Builder
	out.WriteString(`<details class="rt-faq"><summary>`)
	out.WriteString(html.EscapeString(b.Question))
	out.WriteString(`</summary><div class="rt-faq-answer">`)
	out.WriteString(r.renderMarkdown(b.Answer))
	out.WriteString("</div></details>")
	return out.String(), true
}

// table partitions rows by their header flag. Empty rows are kept.
func table(b model.Block) string {
	var head, body []model.TableRow
	for _, row := range b.Rows {
		if row.IsHeader {
			head = append(head, row)
		} else {
			body = append(body, row)
		}
	}

	var out strings.Builder
	out.WriteString(`<div class="rt-table"><table>`)
	if len(head) > 0 {
		out.WriteString("<thead>")
		for _, row := range head {
			writeRow(&out, row, "th")
		}
		out.WriteString("</thead>")
	}
	out.WriteString("<tbody>")
	for _, row := range body {
		writeRow(&out, row, "td")
	}
	out.WriteString("</tbody></table></div>")
	return out.String()
}

func writeRow(out *strings.Builder, row model.TableRow, cell string) {
	out.WriteString("<tr>")
	for _, c := range row.Cells {
		out.WriteString("<" + cell + ">" + html.EscapeString(c) + "</" + cell + ">")
	}
	out.WriteString("</tr>")
}

func (r *Renderer) product(b model.Block) (string, bool) {
	if b.Product == nil || r.resolver == nil {
		return "", false
	}
	card, _ := r.resolver.NormalizeProduct(b.Product)
	if card == nil {
		return "", false
	}

	var out strings.Builder
	out.WriteString(`<div class="rt-product" data-product="` + html.EscapeString(card.Slug) + `">`)
	if card.Image.Present() {
		out.WriteString(`<img src="` + html.EscapeString(card.Image.URL) + `" alt="` + html.EscapeString(card.Image.Alt) + `" loading="lazy">`)
	}
	out.WriteString(`<div class="rt-product-body">`)
	if name := card.BrandName(); name != "" {
		out.WriteString(`<p class="rt-product-brand">` + html.EscapeString(name) + `</p>`)
	}
	out.WriteString(`<h4><a href="` + html.EscapeString(card.URL) + `">` + html.EscapeString(card.Name) + `</a></h4>`)
	if card.HasPrice {
		out.WriteString(`<p class="rt-product-price">` + html.EscapeString(card.PriceLabel))
		if card.OnSale {
			out.WriteString(` <s>` + html.EscapeString(card.OriginalLabel) + `</s>`)
		}
		out.WriteString(`</p>`)
	}
	if p := card.Offers.Primary; p != nil {
		out.WriteString(string(AffiliateLink(p.URL, "Shop at "+p.Name, p.Retailer, card.Slug, "btn btn-buy")))
	} else {
		out.WriteString(`<span class="rt-coming-soon">Coming soon</span>`)
	}
	out.WriteString("</div></div>")
	return out.String(), true
}

func (r *Renderer) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return buf.String()
}

// Markdown renders a markdown fragment to sanitized HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	return template.HTML(r.policy.Sanitize(r.renderMarkdown(src))) //nolint:gosec // sanitized by bluemonday
}

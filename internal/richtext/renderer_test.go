// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/luxora-go/internal/content"
	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/sanity"
)

func newTestRenderer() *Renderer {
	return New(content.NewNormalizer(sanity.Images{ProjectID: "proj", Dataset: "production"}))
}

func text(style, s string, marks ...string) model.Block {
	return model.Block{
		Type:     model.TypeBlock,
		Key:      "k-" + s,
		Style:    style,
		Children: []model.Span{{Type: "span", Text: s, Marks: marks}},
	}
}

func listItem(kind, s string) model.Block {
	b := text("normal", s)
	b.ListItem = kind
	return b
}

func TestRender_TOCCountsOnlyLevelTwoHeadings(t *testing.T) {
	blocks := []model.Block{
		text("normal", "Intro"),
		text("h2", "Overview"),
		text("h3", "Details"),
		text("h2", "Overview"),
		text("h4", "Small print"),
		text("h2", "Where to Buy"),
	}

	var toc TOC
	elems := newTestRenderer().Render(blocks, &toc)

	require.Len(t, elems, 6)
	require.Equal(t, 3, toc.Len())
	assert.Equal(t, "heading-0", toc.Entries[0].ID)
	assert.Equal(t, "heading-1", toc.Entries[1].ID)
	assert.Equal(t, "heading-2", toc.Entries[2].ID)
	assert.False(t, toc.Entries[1].IsBuySection)
	assert.True(t, toc.Entries[2].IsBuySection)
	assert.Equal(t, "toc-link toc-buy", toc.Entries[2].Class())

	assert.Contains(t, elems[1].HTML, `id="heading-0"`)
	assert.Contains(t, elems[3].HTML, `id="heading-1"`)
	assert.Contains(t, elems[5].HTML, `data-buy-section="true"`)
}

func TestIsBuySection(t *testing.T) {
	tests := map[string]bool{
		"Where To Find It": true,
		"BUY NOW":          true,
		"Shop the look":    true,
		"Our verdict":      false,
		"":                 false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsBuySection(in), in)
	}
}

func TestRender_Marks(t *testing.T) {
	b := model.Block{
		Type: model.TypeBlock,
		Children: []model.Span{
			{Type: "span", Text: "bold", Marks: []string{"strong"}},
			{Type: "span", Text: " & ", Marks: nil},
			{Type: "span", Text: "buy", Marks: []string{"em", "aff1"}},
			{Type: "span", Text: "read", Marks: []string{"lnk"}},
		},
		MarkDefs: []model.MarkDef{
			{Key: "aff1", Type: model.MarkAffiliateLink, Href: "https://shop.example/item", Retailer: "farfetch"},
			{Key: "lnk", Type: model.MarkLink, Href: "/article/other"},
		},
	}

	elems := newTestRenderer().Render([]model.Block{b}, nil)
	require.Len(t, elems, 1)
	got := elems[0].HTML

	assert.Contains(t, got, "<strong>bold</strong>")
	assert.Contains(t, got, " &amp; ")
	assert.Contains(t, got, `rel="noopener noreferrer sponsored"`)
	assert.Contains(t, got, `target="_blank"`)
	assert.Contains(t, got, `data-track="affiliate_click"`)
	assert.Contains(t, got, `data-retailer="farfetch"`)
	assert.Contains(t, got, "<em>buy</em></a>")
	assert.Contains(t, got, `<a href="/article/other">read</a>`)
}

func TestRender_PlainLinkToRetailerIsSponsored(t *testing.T) {
	b := model.Block{
		Type: model.TypeBlock,
		Children: []model.Span{
			{Type: "span", Text: "shop it", Marks: []string{"l1"}},
			{Type: "span", Text: " or ", Marks: nil},
			{Type: "span", Text: "elsewhere", Marks: []string{"l2"}},
		},
		MarkDefs: []model.MarkDef{
			{Key: "l1", Type: model.MarkLink, Href: "https://www.farfetch.com/y"},
			{Key: "l2", Type: model.MarkLink, Href: "https://press.example/story"},
		},
	}

	elems := newTestRenderer().Render([]model.Block{b}, nil)
	require.Len(t, elems, 1)
	got := elems[0].HTML

	assert.Contains(t, got, `rel="noopener noreferrer sponsored"`)
	assert.Contains(t, got, `data-retailer="farfetch"`)
	assert.Contains(t, got, `<a href="https://press.example/story" target="_blank" rel="noopener noreferrer">elsewhere</a>`)
}

func TestRender_SkipsIncompleteEmbeds(t *testing.T) {
	blocks := []model.Block{
		{Type: model.TypeImage, Key: "img"},
		{Type: model.TypeImage, Key: "bad", Asset: &model.Reference{Ref: "not-an-asset"}},
		{Type: model.TypeCallToAction, Key: "cta", Title: "No URL"},
		{Type: model.TypeFAQItem, Key: "faq", Answer: "No question"},
		{Type: model.TypeProductEmbed, Key: "prod"},
		{Type: model.TypeProductEmbed, Key: "prod-invalid", Product: &model.Product{ID: "x"}},
		{Type: "mystery", Key: "unknown"},
	}

	assert.Empty(t, newTestRenderer().Render(blocks, nil))
}

func TestRender_Image(t *testing.T) {
	b := model.Block{
		Type:    model.TypeImage,
		Key:     "img",
		Asset:   &model.Reference{Ref: "image-abc-2000x1000-jpg"},
		Alt:     "Runway",
		Caption: "Paris, SS26",
	}

	elems := newTestRenderer().Render([]model.Block{b}, nil)
	require.Len(t, elems, 1)
	assert.Contains(t, elems[0].HTML, "https://cdn.sanity.io/images/proj/production/abc-2000x1000.jpg")
	assert.Contains(t, elems[0].HTML, `alt="Runway"`)
	assert.Contains(t, elems[0].HTML, `height="500"`)
	assert.Contains(t, elems[0].HTML, "<figcaption>Paris, SS26</figcaption>")
}

func TestRender_CallToActionAndFAQ(t *testing.T) {
	blocks := []model.Block{
		{Type: model.TypeCallToAction, Key: "cta", Title: "Get it", Text: "Now **20%** off", URL: "https://retailer.example/x"},
		{Type: model.TypeFAQItem, Key: "faq", Question: "Is it worth it?", Answer: "Yes, *absolutely*.\n\n<script>alert(1)</script>"},
	}

	doc := newTestRenderer().RenderDocument(blocks)
	require.Len(t, doc.Elements, 2)
	assert.Contains(t, doc.Elements[0].HTML, "<strong>20%</strong>")
	assert.Contains(t, doc.Elements[0].HTML, "Shop now")
	assert.Contains(t, doc.Elements[0].HTML, AffiliateRel)
	assert.Contains(t, doc.Elements[1].HTML, "<summary>Is it worth it?</summary>")
	assert.Contains(t, doc.Elements[1].HTML, "<em>absolutely</em>")

	out := string(doc.HTML())
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<details")
}

func TestRender_TableHeaderPartitionAndEmptyRows(t *testing.T) {
	b := model.Block{
		Type: model.TypeTable,
		Key:  "tbl",
		Rows: []model.TableRow{
			{Cells: []string{"Size", "Bust"}},
			{Cells: []string{"Measurement", "Value"}, IsHeader: true},
			{Cells: nil},
			{Cells: []string{"S", "84"}},
		},
	}

	elems := newTestRenderer().Render([]model.Block{b}, nil)
	require.Len(t, elems, 1)
	got := elems[0].HTML

	assert.Equal(t, 4, strings.Count(got, "<tr>"))
	thead := got[strings.Index(got, "<thead>"):strings.Index(got, "</thead>")]
	assert.Contains(t, thead, "<th>Measurement</th>")
	assert.NotContains(t, thead, "Size")
	assert.Contains(t, got, "<tr></tr>")
}

func TestRender_ProductEmbed(t *testing.T) {
	price := 1234.0
	b := model.Block{
		Type: model.TypeProductEmbed,
		Key:  "prod",
		Product: &model.Product{
			ID:       "p1",
			Name:     "Cashmere Coat",
			Slug:     model.Slug{Current: "cashmere-coat"},
			Price:    &price,
			Currency: model.CurrencyUSD,
			Offers:   []model.Offer{{Retailer: "ssense", URL: "https://ssense.example/coat"}},
		},
	}

	elems := newTestRenderer().Render([]model.Block{b}, nil)
	require.Len(t, elems, 1)
	got := elems[0].HTML
	assert.Contains(t, got, `href="/product/cashmere-coat"`)
	assert.Contains(t, got, "$1,234")
	assert.Contains(t, got, "Shop at SSENSE")
	assert.Contains(t, got, `data-product="cashmere-coat"`)
	assert.Contains(t, got, AffiliateRel)

	b.Product.Offers = nil
	elems = newTestRenderer().Render([]model.Block{b}, nil)
	require.Len(t, elems, 1)
	assert.Contains(t, elems[0].HTML, "Coming soon")
}

func TestDocumentHTML_GroupsLists(t *testing.T) {
	blocks := []model.Block{
		listItem("bullet", "a"),
		listItem("bullet", "b"),
		listItem("number", "one"),
		text("normal", "para"),
		listItem("bullet", "c"),
	}

	out := string(newTestRenderer().RenderDocument(blocks).HTML())

	assert.Equal(t, 2, strings.Count(out, "<ul>"))
	assert.Equal(t, 1, strings.Count(out, "<ol>"))
	assert.Contains(t, out, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>")
	assert.Contains(t, out, "<ol>\n<li>one</li>\n</ol>")
}

func TestDocumentHTML_KeepsTrackingAttributes(t *testing.T) {
	b := model.Block{
		Type:     model.TypeBlock,
		Style:    "h2",
		Children: []model.Span{{Type: "span", Text: "Shop ", Marks: nil}, {Type: "span", Text: "here", Marks: []string{"a1"}}},
		MarkDefs: []model.MarkDef{{Key: "a1", Type: model.MarkAffiliateLink, Href: "https://r.example", Retailer: "rebag"}},
	}

	out := string(newTestRenderer().RenderDocument([]model.Block{b}).HTML())

	assert.Contains(t, out, `id="heading-0"`)
	assert.Contains(t, out, `data-buy-section="true"`)
	assert.Contains(t, out, `data-track="affiliate_click"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, "sponsored")
}

func TestDocumentHTML_StripsUnsafeHrefs(t *testing.T) {
	b := model.Block{
		Type:     model.TypeBlock,
		Children: []model.Span{{Type: "span", Text: "click", Marks: []string{"x"}}},
		MarkDefs: []model.MarkDef{{Key: "x", Type: model.MarkLink, Href: "javascript:alert(1)"}},
	}

	out := string(newTestRenderer().RenderDocument([]model.Block{b}).HTML())
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "click")
}

func TestAffiliateLink(t *testing.T) {
	got := string(AffiliateLink("https://x.example/?a=1&b=2", "Buy <now>", "net-a-porter", "bag", "btn"))

	assert.Contains(t, got, `href="https://x.example/?a=1&amp;b=2"`)
	assert.Contains(t, got, "Buy &lt;now&gt;")
	assert.Contains(t, got, `data-retailer="net-a-porter"`)
	assert.Contains(t, got, `data-product="bag"`)
	assert.Contains(t, got, `class="btn"`)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Block _type values.
const (
	TypeBlock        = "block"
	TypeImage        = "image"
	TypeCallToAction = "callToAction"
	TypeFAQItem      = "faqItem"
	TypeTable        = "table"
	TypeProductEmbed = "productEmbed"
)

// Kind is the discriminated block kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindParagraph
	KindHeading2
	KindHeading3
	KindHeading4
	KindBlockquote
	KindBulletItem
	KindNumberItem
	KindImage
	KindCallToAction
	KindFAQ
	KindTable
	KindProduct
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindParagraph:    "paragraph",
	KindHeading2:     "h2",
	KindHeading3:     "h3",
	KindHeading4:     "h4",
	KindBlockquote:   "blockquote",
	KindBulletItem:   "bullet",
	KindNumberItem:   "number",
	KindImage:        "image",
	KindCallToAction: "callToAction",
	KindFAQ:          "faq",
	KindTable:        "table",
	KindProduct:      "product",
}

func (k Kind) String() string {
	return kindNames[k]
}

// IsHeading reports whether k is any heading level.
func (k Kind) IsHeading() bool {
	return k == KindHeading2 || k == KindHeading3 || k == KindHeading4
}

// IsListItem reports whether k is a list item.
func (k Kind) IsListItem() bool {
	return k == KindBulletItem || k == KindNumberItem
}

// Block is one rich-text body block. Text blocks use Style, ListItem,
// Children and MarkDefs; embedded objects use the fields for their type.
type Block struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`

	// text blocks
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	// image
	Asset   *Reference `json:"asset,omitempty"`
	Alt     string     `json:"alt,omitempty"`
	Caption string     `json:"caption,omitempty"`

	// call to action
	Title      string `json:"title,omitempty"`
	Text       string `json:"text,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	URL        string `json:"url,omitempty"`
	Variant    string `json:"variant,omitempty"`

	// FAQ item
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`

	// table
	Rows []TableRow `json:"rows,omitempty"`

	// product embed, dereferenced by the query
	Product *Product `json:"product,omitempty"`
}

// Span is an inline run of text with mark names.
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Mark definition types.
const (
	MarkLink          = "link"
	MarkAffiliateLink = "affiliateLink"
)

// MarkDef is an annotation referenced by span marks.
type MarkDef struct {
	Key      string `json:"_key"`
	Type     string `json:"_type"`
	Href     string `json:"href,omitempty"`
	Retailer string `json:"retailer,omitempty"`
	Blank    bool   `json:"blank,omitempty"`
}

// TableRow is one table row. Header rows are flagged explicitly.
type TableRow struct {
	Key      string   `json:"_key,omitempty"`
	Cells    []string `json:"cells"`
	IsHeader bool     `json:"isHeader,omitempty"`
}

// Kind discriminates the block.
func (b Block) Kind() Kind {
	switch b.Type {
	case TypeBlock:
		switch b.ListItem {
		case "bullet":
			return KindBulletItem
		case "number":
			return KindNumberItem
		}
		switch b.Style {
		case "", "normal":
			return KindParagraph
		case "h2":
			return KindHeading2
		case "h3":
			return KindHeading3
		case "h4":
			return KindHeading4
		case "blockquote":
			return KindBlockquote
		}
		return KindUnknown
	case TypeImage:
		return KindImage
	case TypeCallToAction:
		return KindCallToAction
	case TypeFAQItem:
		return KindFAQ
	case TypeTable:
		return KindTable
	case TypeProductEmbed:
		return KindProduct
	}
	return KindUnknown
}

// PlainText joins the text of every child span.
func (b Block) PlainText() string {
	switch len(b.Children) {
	case 0:
		return ""
	case 1:
		return b.Children[0].Text
	}
	n := 0
	for _, c := range b.Children {
		n += len(c.Text)
	}
	buf := make([]byte, 0, n)
	for _, c := range b.Children {
		buf = append(buf, c.Text...)
	}
	return string(buf)
}

// MarkDef returns the annotation with the given key.
func (b Block) MarkDef(key string) (MarkDef, bool) {
	for _, d := range b.MarkDefs {
		if d.Key == key {
			return d, true
		}
	}
	return MarkDef{}, false
}

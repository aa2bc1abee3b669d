// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content turns raw CMS documents into page models. It validates
// required fields, resolves images, flattens references and derives
// display fields. It performs no I/O.
package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/offers"
	"github.com/olegiv/luxora-go/internal/sanity"
)

// Image sizes used by the page templates.
var (
	HeroSize    = sanity.ImageOptions{Width: 1200, Height: 630, Quality: 80}
	CardSize    = sanity.ImageOptions{Width: 600, Height: 750, Quality: 80}
	InlineSize  = sanity.ImageOptions{Width: 1000, Quality: 80}
	GallerySize = sanity.ImageOptions{Width: 1200, Height: 1500, Quality: 85}
	AvatarSize  = sanity.ImageOptions{Width: 96, Height: 96, Quality: 80}
)

// ImageResolver turns an image field into a URL, or "" when it cannot.
type ImageResolver interface {
	URL(img *model.Image, opts sanity.ImageOptions) string
}

// Normalizer converts documents to page models.
type Normalizer struct {
	images   ImageResolver
	validate *validator.Validate
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(images ImageResolver) *Normalizer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Normalizer{images: images, validate: v}
}

// articleInput is the required-field contract for an article.
type articleInput struct {
	ID     string `json:"_id" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Slug   string `json:"slug" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=draft in-review published archived"`
}

// productInput is the required-field contract for a product.
type productInput struct {
	ID    string   `json:"_id" validate:"required"`
	Name  string   `json:"name" validate:"required"`
	Slug  string   `json:"slug" validate:"required"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

// NormalizeArticle returns the page model for a, or nil with error
// diagnostics when a required field is missing. Dangling references are
// dropped with informational diagnostics.
func (n *Normalizer) NormalizeArticle(a *model.Article) (*ArticlePage, Diagnostics) {
	var diags Diagnostics
	if a == nil {
		diags.fail("article", "document is missing")
		return nil, diags
	}

	n.check(articleInput{ID: a.ID, Title: a.Title, Slug: a.Slug.Current, Status: a.Status}, "", &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	page := &ArticlePage{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug.Current,
		URL:       "/article/" + a.Slug.Current,
		Body:      a.Body,
		UpdatedAt: a.UpdatedAt,
	}

	if a.Excerpt != nil {
		page.Excerpt = *a.Excerpt
	} else {
		diags.info("excerpt", "missing, defaulted to empty")
	}

	if a.PublishedAt != nil {
		page.PublishedAt = *a.PublishedAt
	} else {
		page.PublishedAt = a.UpdatedAt
	}

	if a.ReadTime != nil && *a.ReadTime > 0 {
		page.ReadTime = *a.ReadTime
	} else {
		page.ReadTime = ReadTime(a.Body)
	}

	page.Hero = n.image(a.MainImage, HeroSize, a.Title, "mainImage", &diags)
	page.Card = n.image(a.MainImage, CardSize, a.Title, "", nil)

	if a.Author != nil && a.Author.Name != "" {
		page.Author = &AuthorView{
			Name:  a.Author.Name,
			Slug:  a.Author.Slug.Current,
			Role:  a.Author.Role,
			Bio:   a.Author.Bio,
			Image: n.image(a.Author.Image, AvatarSize, a.Author.Name, "", nil),
		}
	} else {
		diags.info("author", "reference missing or unresolved")
	}

	for i, c := range a.Categories {
		link := categoryLink(c)
		if link == nil {
			diags.info(fmt.Sprintf("categories[%d]", i), "dangling reference omitted")
			continue
		}
		page.Categories = append(page.Categories, *link)
	}

	if a.PrimaryProduct != nil {
		if card, pd := n.NormalizeProduct(a.PrimaryProduct); card != nil {
			page.Primary = card
		} else {
			diags.info("primaryProduct", "invalid product omitted: "+pd.String())
		}
	}

	for i, p := range a.FeaturedProducts {
		if p == nil {
			diags.info(fmt.Sprintf("featuredProducts[%d]", i), "dangling reference omitted")
			continue
		}
		card, pd := n.NormalizeProduct(p)
		if card == nil {
			diags.info(fmt.Sprintf("featuredProducts[%d]", i), "invalid product omitted: "+pd.String())
			continue
		}
		page.Featured = append(page.Featured, *card)
	}

	page.SEO = SEOView{Title: a.Title, Description: page.Excerpt, Image: page.Hero}
	if a.SEO != nil {
		if a.SEO.MetaTitle != "" {
			page.SEO.Title = a.SEO.MetaTitle
		}
		if a.SEO.MetaDescription != "" {
			page.SEO.Description = a.SEO.MetaDescription
		}
		page.SEO.NoIndex = a.SEO.NoIndex
		if og := n.image(a.SEO.OGImage, HeroSize, page.SEO.Title, "", nil); og.Present() {
			page.SEO.Image = og
		}
	}

	return page, diags
}

// NormalizeProduct returns the page model for p, or nil with error
// diagnostics when a required field is missing or invalid.
func (n *Normalizer) NormalizeProduct(p *model.Product) (*ProductCard, Diagnostics) {
	var diags Diagnostics
	if p == nil {
		diags.fail("product", "document is missing")
		return nil, diags
	}

	n.check(productInput{ID: p.ID, Name: p.Name, Slug: p.Slug.Current, Price: p.Price}, "", &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	card := &ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug.Current,
		URL:         "/product/" + p.Slug.Current,
		Description: p.Description,
		Currency:    p.Currency,
		Featured:    p.Featured,
		Specs:       p.Specifications,
		Offers:      offers.Compose(p.Offers),
		CreatedAt:   p.CreatedAt,
	}

	switch p.Currency {
	case model.CurrencyUSD, model.CurrencyEUR, model.CurrencyGBP:
	default:
		diags.info("currency", fmt.Sprintf("unsupported currency %q, displayed with %s", p.Currency, offers.DefaultSymbol))
	}

	if p.Price != nil {
		card.Price = *p.Price
		card.HasPrice = true
		card.PriceLabel = offers.FormatPrice(card.Price, p.Currency)
	} else {
		diags.info("price", "missing")
	}
	if was, onSale := offers.Sale(p.Price, p.OriginalPrice); onSale && card.HasPrice {
		card.OnSale = true
		card.OriginalLabel = offers.FormatPrice(was, p.Currency)
	}

	if p.Brand != nil && p.Brand.Name != "" {
		card.Brand = &Link{Name: p.Brand.Name, Slug: p.Brand.Slug.Current}
	} else {
		diags.info("brand", "reference missing or unresolved")
	}
	if link := categoryLink(p.Category); link != nil {
		card.Category = link
	} else {
		diags.info("category", "reference missing or unresolved")
	}

	for i := range p.Images {
		img := n.image(&p.Images[i], GallerySize, p.Name, fmt.Sprintf("images[%d]", i), &diags)
		if img.Present() {
			card.Gallery = append(card.Gallery, img)
		}
	}
	if len(p.Images) > 0 {
		card.Image = n.image(&p.Images[0], CardSize, p.Name, "", nil)
	}

	return card, diags
}

// NormalizeProducts normalizes a collection, dropping invalid products.
func (n *Normalizer) NormalizeProducts(ps []model.Product) []ProductCard {
	out := make([]ProductCard, 0, len(ps))
	for i := range ps {
		if card, _ := n.NormalizeProduct(&ps[i]); card != nil {
			out = append(out, *card)
		}
	}
	return out
}

// NormalizeArticles normalizes a collection, dropping invalid articles.
func (n *Normalizer) NormalizeArticles(as []model.Article) []ArticlePage {
	out := make([]ArticlePage, 0, len(as))
	for i := range as {
		if page, _ := n.NormalizeArticle(&as[i]); page != nil {
			out = append(out, *page)
		}
	}
	return out
}

// InlineImage resolves an image embedded in the body.
func (n *Normalizer) InlineImage(ref *model.Reference, alt string) ImageView {
	return n.image(&model.Image{Asset: ref, Alt: alt}, InlineSize, "", "", nil)
}

func (n *Normalizer) check(input any, prefix string, diags *Diagnostics) {
	err := n.validate.Struct(input)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		diags.fail(prefix+"document", err.Error())
		return
	}
	for _, fe := range verrs {
		msg := "is required"
		if fe.Tag() != "required" {
			msg = fmt.Sprintf("failed %q validation", fe.Tag())
		}
		diags.fail(prefix+fe.Field(), msg)
	}
}

// image resolves img; when field is set, a missing asset is reported.
func (n *Normalizer) image(img *model.Image, opts sanity.ImageOptions, fallbackAlt, field string, diags *Diagnostics) ImageView {
	u := ""
	if n.images != nil {
		u = n.images.URL(img, opts)
	}
	if u == "" {
		if field != "" && diags != nil {
			diags.info(field, "image asset missing")
		}
		return ImageView{}
	}

	view := ImageView{URL: u, Alt: fallbackAlt, Width: opts.Width, Height: opts.Height}
	if img != nil && img.Alt != "" {
		view.Alt = img.Alt
	}
	if view.Height == 0 {
		if w, h, ok := sanity.Dimensions(img.AssetRef()); ok && w > 0 {
			view.Height = opts.Width * h / w
		}
	}
	return view
}

func categoryLink(c *model.Category) *Link {
	if c == nil || c.Name == "" || c.Slug.Current == "" {
		return nil
	}
	return &Link{Name: c.Name, Slug: c.Slug.Current, URL: c.URL()}
}


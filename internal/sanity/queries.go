// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sanity

// publishedFilter restricts article queries to reader-visible documents.
const publishedFilter = `status == "published" && defined(slug.current)`

const categoryProjection = `{_id, name, slug, parent, description}`

const brandProjection = `{_id, name, slug, logo, website}`

const productProjection = `{
  _id, name, slug, price, originalPrice, currency, featured, description,
  images, specifications, affiliateLinks, _createdAt,
  "brand": brand->` + brandProjection + `,
  "category": category->` + categoryProjection + `
}`

const articleCardProjection = `{
  _id, title, slug, excerpt, mainImage, publishedAt, _updatedAt, status, readTime,
  "author": author->{_id, name, slug, image, role},
  "categories": categories[]->` + categoryProjection + `
}`

const articleProjection = `{
  _id, title, slug, excerpt, mainImage, publishedAt, _updatedAt, status, readTime, seo,
  body[]{
    ...,
    _type == "productEmbed" => {..., "product": product->` + productProjection + `}
  },
  "primaryProduct": primaryProduct->` + productProjection + `,
  "featuredProducts": featuredProducts[]->` + productProjection + `,
  "author": author->{_id, name, slug, image, bio, role},
  "categories": categories[]->` + categoryProjection + `
}`

// GROQ queries used by Repository.
const (
	QueryArticleBySlug = `*[_type == "article" && ` + publishedFilter + ` && slug.current == $slug][0]` + articleProjection

	QueryArticleSlugs = `*[_type == "article" && ` + publishedFilter + `] | order(publishedAt desc){
  "slug": slug.current, "updatedAt": _updatedAt
}`

	QueryLatestArticles = `*[_type == "article" && ` + publishedFilter + `] | order(publishedAt desc)[0...$limit]` + articleCardProjection

	QueryArticlesByCategory = `*[_type == "article" && ` + publishedFilter + ` && $slug in categories[]->slug.current] | order(publishedAt desc)[0...$limit]` + articleCardProjection

	QueryArticlesBySection = `*[_type == "article" && ` + publishedFilter + ` && count(categories[@->parent == $parent || @->slug.current == $parent]) > 0] | order(publishedAt desc)[0...$limit]` + articleCardProjection

	QueryProducts = `*[_type == "product" && defined(slug.current)] | order(_createdAt desc)` + productProjection

	QueryProductsByCategory = `*[_type == "product" && defined(slug.current) && category->slug.current == $slug] | order(_createdAt desc)` + productProjection

	QueryFeaturedProducts = `*[_type == "product" && defined(slug.current) && featured == true] | order(_createdAt desc)[0...$limit]` + productProjection

	QueryProductBySlug = `*[_type == "product" && slug.current == $slug][0]` + productProjection

	QueryProductSlugs = `*[_type == "product" && defined(slug.current)]{
  "slug": slug.current, "updatedAt": _updatedAt
}`

	QueryCategoryBySlug = `*[_type == "category" && slug.current == $slug][0]` + categoryProjection

	QueryCategories = `*[_type == "category" && defined(slug.current)] | order(name asc)` + categoryProjection
)

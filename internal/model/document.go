// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains the CMS document shapes as they arrive from the
// query API. Optional fields are pointers or zero values; nothing here is
// trusted until the content package has validated it.
package model

// Slug is the CMS slug object.
type Slug struct {
	Current string `json:"current"`
}

// Reference points at another document or asset by id.
type Reference struct {
	Ref string `json:"_ref"`
}

// Image is an image field with an asset reference.
type Image struct {
	Asset   *Reference `json:"asset,omitempty"`
	Alt     string     `json:"alt,omitempty"`
	Caption string     `json:"caption,omitempty"`
}

// AssetRef returns the asset id or "" when the image has no asset.
func (i *Image) AssetRef() string {
	if i == nil || i.Asset == nil {
		return ""
	}
	return i.Asset.Ref
}

// SEO holds per-document search metadata.
type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	NoIndex         bool   `json:"noIndex,omitempty"`
	OGImage         *Image `json:"ogImage,omitempty"`
}

// Brand is a product brand document.
type Brand struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Slug    Slug   `json:"slug"`
	Logo    *Image `json:"logo,omitempty"`
	Website string `json:"website,omitempty"`
}

// Author is an article author document.
type Author struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  Slug   `json:"slug"`
	Image *Image `json:"image,omitempty"`
	Bio   string `json:"bio,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sanity

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/olegiv/luxora-go/internal/model"
)

// image-{id}-{width}x{height}-{format}
var assetRefPattern = regexp.MustCompile(`^image-([A-Za-z0-9]+)-(\d+)x(\d+)-([a-z0-9]+)$`)

// ImageOptions sets transformation parameters. Zero values are omitted.
type ImageOptions struct {
	Width   int
	Height  int
	Quality int
}

// Images resolves image asset references to CDN URLs.
type Images struct {
	ProjectID string
	Dataset   string
}

// URL resolves img or returns "" when it has no usable asset.
func (b Images) URL(img *model.Image, opts ImageOptions) string {
	return b.URLForRef(img.AssetRef(), opts)
}

// URLForRef resolves an asset reference such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg". Malformed references
// yield "".
func (b Images) URLForRef(ref string, opts ImageOptions) string {
	m := assetRefPattern.FindStringSubmatch(ref)
	if m == nil || b.ProjectID == "" || b.Dataset == "" {
		return ""
	}
	id, w, h, ext := m[1], m[2], m[3], m[4]

	u := fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%sx%s.%s", b.ProjectID, b.Dataset, id, w, h, ext)

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}
	if opts.Width > 0 && opts.Height > 0 {
		q.Set("fit", "crop")
	}
	if opts.Quality > 0 {
		q.Set("q", strconv.Itoa(opts.Quality))
	}
	q.Set("auto", "format")
	return u + "?" + q.Encode()
}

// Dimensions returns the intrinsic size encoded in an asset reference.
func Dimensions(ref string) (width, height int, ok bool) {
	m := assetRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, 0, false
	}
	width, _ = strconv.Atoi(m[2])
	height, _ = strconv.Atoi(m[3])
	return width, height, true
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strings"

	"github.com/olegiv/luxora-go/internal/model"
)

const (
	wordsPerMinute = 200
	// DefaultReadTime is shown when the body has no text at all.
	DefaultReadTime = 5
)

// ReadTime estimates minutes to read the text blocks of body at 200 words
// per minute, rounded up. A body without words reports DefaultReadTime.
func ReadTime(body []model.Block) int {
	words := 0
	for _, b := range body {
		if b.Type != model.TypeBlock {
			continue
		}
		words += len(strings.Fields(b.PlainText()))
	}
	if words == 0 {
		return DefaultReadTime
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package redirect

import "strings"

// matchWildcard matches path against a source pattern. "*" captures one
// segment, "**" captures zero or more segments joined with "/".
func matchWildcard(path, source string) ([]string, bool) {
	src := strings.Split(strings.Trim(source, "/"), "/")
	req := strings.Split(strings.Trim(path, "/"), "/")
	var captures []string
	if !matchParts(src, req, &captures) {
		return nil, false
	}
	return captures, true
}

func matchParts(src, req []string, captures *[]string) bool {
	if len(src) == 0 {
		return len(req) == 0
	}

	switch src[0] {
	case "**":
		mark := len(*captures)
		for end := 0; end <= len(req); end++ {
			*captures = append(*captures, strings.Join(req[:end], "/"))
			if matchParts(src[1:], req[end:], captures) {
				return true
			}
			*captures = (*captures)[:mark]
		}
		return false
	case "*":
		if len(req) == 0 || req[0] == "" {
			return false
		}
		*captures = append(*captures, req[0])
		if matchParts(src[1:], req[1:], captures) {
			return true
		}
		*captures = (*captures)[:len(*captures)-1]
		return false
	default:
		if len(req) == 0 || req[0] != src[0] {
			return false
		}
		return matchParts(src[1:], req[1:], captures)
	}
}

// substitute replaces each "*" or "**" in dest with the next capture.
func substitute(dest string, captures []string) string {
	for _, c := range captures {
		i := strings.Index(dest, "*")
		if i < 0 {
			break
		}
		width := 1
		if strings.HasPrefix(dest[i:], "**") {
			width = 2
		}
		dest = dest[:i] + c + dest[i+width:]
	}
	if strings.HasPrefix(dest, "/") {
		for strings.Contains(dest, "//") {
			dest = strings.ReplaceAll(dest, "//", "/")
		}
	}
	return dest
}

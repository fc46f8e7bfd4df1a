//-----------------------------------------------------------------------------
// Copyright (c) 2024-present Detlef Stern
//
// This file is part of Wikiround.
//
// Wikiround is licensed under the latest version of the EUPL (European Union
// Public License). Please see file LICENSE.txt for your rights and obligations
// under this license.
//
// SPDX-License-Identifier: EUPL-1.2
// SPDX-FileCopyrightText: 2024-present Detlef Stern
//-----------------------------------------------------------------------------

package dom

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"wikiround.de/w/internal/token"
)

// wtData is the wire form of the reserved data-wt attribute.
type wtData struct {
	TSR      []int             `json:"tsr,omitempty"`
	Stx      string            `json:"stx,omitempty"`
	Fostered bool              `json:"fostered,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// decodeSourceInfo deserializes the reserved attribute value. Malformed data
// is not fatal: the element just serializes without source information.
func decodeSourceInfo(log *slog.Logger, raw string) token.SourceInfo {
	var data wtData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Warn("malformed source information, ignoring", "raw", raw, "err", err)
		return token.SourceInfo{}
	}
	src := token.SourceInfo{Stx: data.Stx, Fostered: data.Fostered, Extra: data.Extra}
	if len(data.TSR) == 2 && data.TSR[0] <= data.TSR[1] {
		src.TSR = &token.Range{Start: data.TSR[0], End: data.TSR[1]}
	} else if len(data.TSR) != 0 {
		log.Warn("inconsistent source range, ignoring", "tsr", data.TSR)
	}
	return src
}

const wikiPrefix = "./"

var externalSchemes = [...]string{"http://", "https://", "ftp://", "//"}

// analyzeLink records on the link tokens how the link can be written back as
// wikitext: the decoded target, whether the element content is just the
// target again (so the authored text can flow through unchanged), a link
// tail, and markers for external and auto-numbered links.
func analyzeLink(n *html.Node, open, closing *token.Token) {
	href := nodeAttr(n, "href")
	if href == "" {
		return
	}
	for _, scheme := range externalSchemes {
		if strings.HasPrefix(href, scheme) {
			open.SetExtra("target", href)
			closing.SetExtra("target", href)
			if strings.Contains(" "+nodeAttr(n, "class")+" ", " autonumber ") {
				open.SetExtra("autonumber", "1")
				closing.SetExtra("autonumber", "1")
			} else {
				open.SetExtra("external", "1")
				closing.SetExtra("external", "1")
			}
			return
		}
	}

	target := decodeTitle(href)
	open.SetExtra("target", target)
	closing.SetExtra("target", target)
	tail := open.Extra("tail")
	closing.SetExtra("tail", tail)
	content := strings.TrimSuffix(textContent(n), tail)
	if normalizeTitle(content) == normalizeTitle(target) {
		open.SetExtra("contentMatches", "1")
		closing.SetExtra("contentMatches", "1")
	}
}

// decodeTitle turns an href back into a page title.
func decodeTitle(href string) string {
	title := strings.TrimPrefix(href, wikiPrefix)
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}
	return strings.ReplaceAll(title, "_", " ")
}

// normalizeTitle maps a title to its canonical form: trimmed, underscores as
// spaces, first letter upper-cased.
func normalizeTitle(title string) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
	r, size := utf8.DecodeRuneInString(title)
	if r == utf8.RuneError {
		return title
	}
	return string(unicode.ToUpper(r)) + title[size:]
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			collect(cc)
		}
	}
	collect(n)
	return sb.String()
}

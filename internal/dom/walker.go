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

// Package dom turns an annotated HTML document tree into the token alphabet
// the serializer consumes.
//
// The walk is a depth-first descent: an open token before the children, the
// matching close token after them, so the emitted stream is balanced by
// construction. Void elements collapse into one self-closing token. The
// reserved data-wt attribute of an element carries its source information
// and is never emitted as a regular attribute.
package dom

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"t73f.de/r/zero/set"

	"wikiround.de/w/internal/token"
)

// DataAttr is the reserved attribute holding round-trip source information.
const DataAttr = "data-wt"

var voidNames = set.New(
	"area", "base", "br", "col", "embed", "hr", "img", "input", "link",
	"meta", "param", "source", "track", "wbr",
)

// Tokens converts the children of root into a token stream, terminated by an
// end-of-input token.
func Tokens(log *slog.Logger, root *html.Node) []*token.Token {
	w := walker{log: log}
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		w.walk(n)
	}
	w.out = append(w.out, token.MakeEOF())
	return w.out
}

type walker struct {
	log *slog.Logger
	out []*token.Token
}

func (w *walker) emit(t *token.Token) { w.out = append(w.out, t) }

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.emitText(n.Data)
	case html.CommentNode:
		w.emit(token.MakeComment(n.Data))
	case html.ElementNode:
		w.walkElement(n)
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
	case html.DoctypeNode:
		// Nothing to serialize.
	default:
		w.log.Warn("unrecognized node, skipping", "type", int(n.Type))
	}
}

// emitText maps a text node to text tokens with explicit newline tokens in
// between, so the serializer can buffer and coalesce the line breaks.
func (w *walker) emitText(data string) {
	for len(data) > 0 {
		idx := strings.IndexByte(data, '\n')
		if idx < 0 {
			w.emit(token.MakeText(data))
			return
		}
		if idx > 0 {
			w.emit(token.MakeText(data[:idx]))
		}
		w.emit(token.MakeNewline())
		data = data[idx+1:]
	}
}

func (w *walker) walkElement(n *html.Node) {
	name := n.Data
	attrs, src := splitAttrs(w.log, n)

	// An element whose source information carries original markup stands in
	// for non-normalizable wikitext, e.g. a transclusion. Its rendered
	// children are the expansion and are not serialized.
	if src.Extra["wt"] != "" {
		marker := src.Extra["name"]
		if marker == "" {
			marker = "template"
		}
		t := token.MakeSelfClosing(marker, attrs...)
		t.Src = src
		w.emit(t)
		return
	}

	if voidNames.Contains(name) {
		t := token.MakeSelfClosing(name, attrs...)
		t.Src = src
		w.emit(t)
		return
	}

	open := token.MakeOpen(name, attrs...)
	open.Src = src
	closing := token.MakeClose(name)
	closing.Src = src
	if name == "a" {
		analyzeLink(n, open, closing)
	}
	w.emit(open)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.emit(closing)
}

// splitAttrs separates the regular attributes of an element from its
// reserved source-information attribute.
func splitAttrs(log *slog.Logger, n *html.Node) ([]token.Attribute, token.SourceInfo) {
	var attrs []token.Attribute
	var src token.SourceInfo
	for _, a := range n.Attr {
		if a.Key == DataAttr {
			src = decodeSourceInfo(log, a.Val)
			continue
		}
		attrs = append(attrs, token.Attribute{Key: a.Key, Value: a.Val})
	}
	return attrs, src
}

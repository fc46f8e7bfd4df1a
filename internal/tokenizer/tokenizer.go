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

// Package tokenizer provides a line-oriented tokenizer for wikitext.
//
// The tokenizer recovers the markup structure of a wikitext source as a flat
// token stream. Every token carries a source range, so later stages can map
// tokens back to the exact source bytes they came from.
package tokenizer

import (
	"strings"

	"t73f.de/r/zero/set"

	"wikiround.de/w/internal/token"
)

// Tokenize scans the whole source and returns its token stream, terminated
// by an end-of-input token.
func Tokenize(src string) []*token.Token {
	s := scanner{src: src}
	pos := 0
	for pos < len(src) {
		lineEnd := len(src)
		if idx := strings.IndexByte(src[pos:], '\n'); idx >= 0 {
			lineEnd = pos + idx
		}
		s.scanLine(pos, lineEnd)
		if lineEnd < len(src) {
			s.emit(token.MakeNewline().WithTSR(lineEnd, lineEnd+1))
		}
		pos = lineEnd + 1
	}
	s.emit(token.MakeEOF().WithTSR(len(src), len(src)))
	return s.out
}

type scanner struct {
	src string
	out []*token.Token
}

func (s *scanner) emit(t *token.Token) { s.out = append(s.out, t) }

func (s *scanner) emitText(from, to int) {
	if from < to {
		s.emit(token.MakeText(s.src[from:to]).WithTSR(from, to))
	}
}

// listMarkers are the characters that start a list item line.
const listMarkers = "*#;:"

func (s *scanner) scanLine(start, end int) {
	if start >= end {
		return
	}
	line := s.src[start:end]
	switch {
	case strings.HasPrefix(line, "----"):
		n := 4
		for n < len(line) && line[n] == '-' {
			n++
		}
		s.emit(token.MakeSelfClosing("hr").WithTSR(start, start+n))
		s.scanInline(start+n, end, false)
	case headingLevel(line) > 0:
		lvl := headingLevel(line)
		trimmed := strings.TrimRight(line, " \t")
		innerEnd := start + len(trimmed) - lvl
		s.emit(token.MakeOpen(headingName(lvl)).WithTSR(start, start+lvl))
		s.scanInline(start+lvl, innerEnd, false)
		s.emit(token.MakeClose(headingName(lvl)).WithTSR(innerEnd, start+len(trimmed)))
	case strings.IndexByte(listMarkers, line[0]) >= 0:
		n := 0
		for n < len(line) && strings.IndexByte(listMarkers, line[n]) >= 0 {
			n++
		}
		s.emit(token.MakeSelfClosing("li").WithStx(line[:n]).WithTSR(start, start+n))
		s.scanInline(start+n, end, false)
	case strings.HasPrefix(line, "{|"):
		s.emit(token.MakeOpen("table").WithTSR(start, start+2))
		s.scanInline(start+2, end, false)
	case strings.HasPrefix(line, "|}"):
		s.emit(token.MakeClose("table").WithTSR(start, start+2))
		s.scanInline(start+2, end, false)
	case strings.HasPrefix(line, "|-"):
		s.emit(token.MakeSelfClosing("tr").WithTSR(start, start+2))
		s.scanInline(start+2, end, false)
	case strings.HasPrefix(line, "|+"):
		s.emit(token.MakeSelfClosing("caption").WithTSR(start, start+2))
		s.scanInline(start+2, end, true)
	case line[0] == '|':
		s.emit(token.MakeSelfClosing("td").WithTSR(start, start+1))
		s.scanInline(start+1, end, true)
	case line[0] == '!':
		s.emit(token.MakeSelfClosing("th").WithTSR(start, start+1))
		s.scanInline(start+1, end, true)
	default:
		s.scanInline(start, end, false)
	}
}

// headingLevel returns the level of a heading line, or 0 if the line is not
// a heading. A heading needs matching runs of '=' on both ends.
func headingLevel(line string) int {
	if len(line) < 2 || line[0] != '=' {
		return 0
	}
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < 2 || trimmed[len(trimmed)-1] != '=' {
		return 0
	}
	lead := 0
	for lead < len(trimmed) && trimmed[lead] == '=' {
		lead++
	}
	trail := 0
	for trail < len(trimmed) && trimmed[len(trimmed)-1-trail] == '=' {
		trail++
	}
	if lead+trail >= len(trimmed) {
		// Only equal signs, e.g. "====": level is the shorter possible run.
		lead = (len(trimmed) - 1) / 2
		trail = lead
	}
	lvl := min(lead, trail)
	return min(lvl, 6)
}

func headingName(lvl int) string { return "h" + string(rune('0'+lvl)) }

// scanInline scans everything that can occur inside a line. cellLine marks
// table cell lines, where "||" and "!!" separate further cells.
func (s *scanner) scanInline(from, to int, cellLine bool) {
	textStart := from
	i := from
	for i < to {
		toks, next := s.matchInline(i, to, cellLine)
		if len(toks) == 0 {
			i++
			continue
		}
		s.emitText(textStart, i)
		for _, tok := range toks {
			s.emit(tok)
		}
		i = next
		textStart = next
	}
	s.emitText(textStart, to)
}

func one(t *token.Token, next int) ([]*token.Token, int) {
	return []*token.Token{t}, next
}

// matchInline tries to recognize a markup construct at position i. It
// returns no tokens if plain text continues there.
func (s *scanner) matchInline(i, to int, cellLine bool) ([]*token.Token, int) {
	rest := s.src[i:to]
	switch rest[0] {
	case '<':
		if strings.HasPrefix(rest, "<!--") {
			if idx := strings.Index(rest, "-->"); idx >= 0 {
				return one(token.MakeComment(rest[4:idx]).WithTSR(i, i+idx+3), i+idx+3)
			}
			// Unclosed comment runs to the end of the text.
			return one(token.MakeComment(rest[4:]).WithTSR(i, to), to)
		}
		return s.matchTag(i, to)
	case '[':
		if strings.HasPrefix(rest, "[[") {
			if idx := matchBrackets(rest, "[[", "]]"); idx > 0 {
				return one(token.MakeSelfClosing("wikilink").WithTSR(i, i+idx), i+idx)
			}
			return nil, 0
		}
		return s.matchExtLink(i, to)
	case '{':
		if strings.HasPrefix(rest, "{{{") {
			if idx := strings.Index(rest, "}}}"); idx > 0 {
				return one(token.MakeSelfClosing("templatearg").WithTSR(i, i+idx+3), i+idx+3)
			}
			return nil, 0
		}
		if strings.HasPrefix(rest, "{{") {
			if idx := matchBrackets(rest, "{{", "}}"); idx > 0 {
				return one(token.MakeSelfClosing("template").WithTSR(i, i+idx), i+idx)
			}
		}
		return nil, 0
	case '\'':
		for _, q := range [...]struct {
			mark string
			stx  string
		}{{"'''''", "bold-italic"}, {"'''", "bold"}, {"''", "italic"}} {
			if strings.HasPrefix(rest, q.mark) {
				return one(token.MakeSelfClosing("quote").WithStx(q.stx).WithTSR(i, i+len(q.mark)), i+len(q.mark))
			}
		}
		return nil, 0
	case '_':
		if n := matchBehaviorSwitch(rest); n > 0 {
			return one(token.MakeSelfClosing("behavior-switch").WithTSR(i, i+n), i+n)
		}
		return nil, 0
	case '~':
		n := 0
		for n < len(rest) && rest[n] == '~' {
			n++
		}
		if n >= 3 && n <= 5 {
			return one(token.MakeSelfClosing("signature").WithTSR(i, i+n), i+n)
		}
		return nil, 0
	case '|':
		if cellLine && strings.HasPrefix(rest, "||") {
			return one(token.MakeSelfClosing("td").WithStx("row").WithTSR(i, i+2), i+2)
		}
		return nil, 0
	case '!':
		if cellLine && strings.HasPrefix(rest, "!!") {
			return one(token.MakeSelfClosing("th").WithStx("row").WithTSR(i, i+2), i+2)
		}
		return nil, 0
	}
	return nil, 0
}

// htmlTagNames are element names accepted as literal HTML tags in wikitext.
var htmlTagNames = set.New(
	"abbr", "b", "bdi", "big", "blockquote", "br", "caption", "center",
	"cite", "code", "dd", "del", "dfn", "div", "dl", "dt", "em", "font",
	"gallery", "h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "ins", "kbd",
	"li", "math", "nowiki", "ol", "p", "pre", "q", "ref", "references", "s",
	"samp", "small", "span", "strike", "strong", "sub", "sup", "table", "td",
	"th", "tr", "tt", "u", "ul", "var", "wbr",
)

func (s *scanner) matchTag(i, to int) ([]*token.Token, int) {
	rest := s.src[i:to]
	pos := 1
	closing := false
	if pos < len(rest) && rest[pos] == '/' {
		closing = true
		pos++
	}
	nameStart := pos
	for pos < len(rest) && isTagNameByte(rest[pos]) {
		pos++
	}
	name := strings.ToLower(rest[nameStart:pos])
	if name == "" || !htmlTagNames.Contains(name) {
		return nil, 0
	}
	gt := strings.IndexByte(rest[pos:], '>')
	if gt < 0 {
		return nil, 0
	}
	inner := rest[pos : pos+gt]
	end := i + pos + gt + 1
	selfClosing := strings.HasSuffix(strings.TrimRight(inner, " \t"), "/")
	attrs := parseTagAttrs(strings.TrimSuffix(strings.TrimRight(inner, " \t"), "/"))
	switch {
	case closing:
		return one(token.MakeClose(name).WithStx("html").WithTSR(i, end), end)
	case selfClosing:
		return one(token.MakeSelfClosing(name, attrs...).WithStx("html").WithTSR(i, end), end)
	case name == "nowiki":
		// The nowiki content is literal; it is not tokenized further.
		contentEnd, next := to, to
		if idx := strings.Index(s.src[end:to], "</nowiki>"); idx >= 0 {
			contentEnd, next = end+idx, end+idx+len("</nowiki>")
		}
		toks := []*token.Token{token.MakeOpen(name).WithStx("html").WithTSR(i, end)}
		if end < contentEnd {
			toks = append(toks, token.MakeText(s.src[end:contentEnd]).WithTSR(end, contentEnd))
		}
		toks = append(toks, token.MakeClose(name).WithStx("html").WithTSR(contentEnd, next))
		return toks, next
	default:
		return one(token.MakeOpen(name, attrs...).WithStx("html").WithTSR(i, end), end)
	}
}

func isTagNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// parseTagAttrs splits a raw attribute string into key/value pairs. Values
// may be single-quoted, double-quoted, or bare.
func parseTagAttrs(raw string) []token.Attribute {
	var attrs []token.Attribute
	i := 0
	for i < len(raw) {
		for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
			i++
		}
		start := i
		for i < len(raw) && raw[i] != '=' && raw[i] != ' ' && raw[i] != '\t' {
			i++
		}
		key := raw[start:i]
		if key == "" {
			break
		}
		if i >= len(raw) || raw[i] != '=' {
			attrs = append(attrs, token.Attribute{Key: key})
			continue
		}
		i++
		var value string
		if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
			quote := raw[i]
			i++
			vStart := i
			for i < len(raw) && raw[i] != quote {
				i++
			}
			value = raw[vStart:i]
			if i < len(raw) {
				i++
			}
		} else {
			vStart := i
			for i < len(raw) && raw[i] != ' ' && raw[i] != '\t' {
				i++
			}
			value = raw[vStart:i]
		}
		attrs = append(attrs, token.Attribute{Key: key, Value: value})
	}
	return attrs
}

var extLinkPrefixes = [...]string{"http://", "https://", "ftp://", "//"}

func (s *scanner) matchExtLink(i, to int) ([]*token.Token, int) {
	rest := s.src[i:to]
	target := rest[1:]
	found := false
	for _, prefix := range extLinkPrefixes {
		if strings.HasPrefix(target, prefix) {
			found = true
			break
		}
	}
	if !found {
		return nil, 0
	}
	idx := strings.IndexByte(rest, ']')
	if idx < 0 {
		return nil, 0
	}
	return one(token.MakeSelfClosing("extlink").WithTSR(i, i+idx+1), i+idx+1)
}

// matchBrackets returns the length of the shortest balanced span that starts
// with open at the beginning of s, or 0 if it does not close.
func matchBrackets(s, open, close string) int {
	depth := 0
	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], open):
			depth++
			i += len(open)
		case strings.HasPrefix(s[i:], close):
			depth--
			i += len(close)
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return 0
}

func matchBehaviorSwitch(s string) int {
	if !strings.HasPrefix(s, "__") {
		return 0
	}
	i := 2
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 2 || !strings.HasPrefix(s[i:], "__") {
		return 0
	}
	return i + 2
}

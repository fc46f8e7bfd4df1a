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

// Package escape wraps text fragments that would be misread as markup.
//
// A literal text run is re-tokenized with the wikitext tokenizer. Whatever
// does not come back as plain text or line breaks would change meaning if
// emitted verbatim, so those substrings are wrapped in a nowiki construct.
// Escaping is content-preserving: un-escaping the result reproduces the
// original character sequence.
package escape

import (
	"log/slog"
	"strings"

	"wikiround.de/w/internal/preblock"
	"wikiround.de/w/internal/token"
	"wikiround.de/w/internal/tokenizer"
)

// Context describes the position a text run will be emitted at.
type Context struct {
	StartOfLine bool // the run starts at column 0
	InPre       bool // the run is inside an indentation-literal block
}

// The guard suppresses false start-of-line markup detection during
// re-tokenization. It never appears in the escaped output.
const guard = "x"

const (
	nowikiOpen  = "<nowiki>"
	nowikiClose = "</nowiki>"
)

// Escape returns the text with all markup-like substrings wrapped in a
// nowiki construct.
func Escape(log *slog.Logger, text string, ctx Context) string {
	if text == "" {
		return ""
	}
	g := buildGuarded(text, ctx)
	spans, ok := unsafeSpans(log, &g, len(text))
	if !ok {
		// No usable source range: conservatively escape through the end.
		return nowikiOpen + text + nowikiClose
	}
	if len(spans) == 0 {
		return text
	}
	var sb strings.Builder
	last := 0
	for _, sp := range spans {
		sb.WriteString(text[last:sp.Start])
		sb.WriteString(nowikiOpen)
		sb.WriteString(text[sp.Start:sp.End])
		sb.WriteString(nowikiClose)
		last = sp.End
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// guardedText is the re-tokenization input plus the byte mapping back to the
// original text. Guard bytes map to -1.
type guardedText struct {
	src  string
	orig []int
}

func buildGuarded(text string, ctx Context) guardedText {
	var sb strings.Builder
	orig := make([]int, 0, len(text)+2)
	if !ctx.StartOfLine {
		sb.WriteString(guard)
		orig = append(orig, -1)
	}
	for i := 0; i < len(text); i++ {
		sb.WriteByte(text[i])
		orig = append(orig, i)
		if ctx.InPre && text[i] == '\n' {
			// Keep the start-of-line detector from firing on the next line.
			sb.WriteString(guard)
			orig = append(orig, -1)
		}
	}
	return guardedText{src: sb.String(), orig: orig}
}

// unsafeSpans re-tokenizes the guarded text and collects the original byte
// ranges of everything that did not tokenize into plain text or newlines.
// The token stream also runs through the literal-block automaton, so an
// indented line that would become a literal block counts as unsafe too.
// The ranges are merged and ordered. ok is false if an unsafe token carries
// no source range, in which case the caller must fall back.
func unsafeSpans(log *slog.Logger, g *guardedText, textLen int) ([]token.Range, bool) {
	var spans []token.Range
	for _, tok := range preblock.Apply(log, tokenizer.Tokenize(g.src)) {
		switch tok.Kind {
		case token.KindText, token.KindNewline, token.KindEOF:
			continue
		}
		tsr := tok.Src.TSR
		if tsr == nil {
			log.Warn("token without source range during escaping", "kind", tok.Kind, "name", tok.Name)
			return nil, false
		}
		start, end, valid := g.spanOf(tsr)
		if !valid {
			// The token consists of guard bytes only; nothing to escape.
			continue
		}
		if end > textLen {
			end = textLen
		}
		if n := len(spans); n > 0 && start <= spans[n-1].End {
			if end > spans[n-1].End {
				spans[n-1].End = end
			}
			continue
		}
		spans = append(spans, token.Range{Start: start, End: end})
	}
	return spans, true
}

// spanOf maps a range in the guarded text back into the original text,
// skipping guard bytes at the boundaries.
func (g *guardedText) spanOf(tsr *token.Range) (start, end int, ok bool) {
	s, e := tsr.Start, tsr.End
	if e > len(g.orig) {
		e = len(g.orig)
	}
	for s < e && g.orig[s] < 0 {
		s++
	}
	for e > s && g.orig[e-1] < 0 {
		e--
	}
	if s >= e {
		return 0, 0, false
	}
	return g.orig[s], g.orig[e-1] + 1, true
}

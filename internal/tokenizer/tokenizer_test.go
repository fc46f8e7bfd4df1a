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

package tokenizer_test

import (
	"fmt"
	"strings"
	"testing"

	"wikiround.de/w/internal/token"
	"wikiround.de/w/internal/tokenizer"
)

// sig renders a token stream compactly: name, syntax marker in brackets,
// attributes in braces.
func sig(tokens []*token.Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch t.Kind {
		case token.KindText:
			fmt.Fprintf(&sb, "T(%q)", t.Text)
		case token.KindComment:
			fmt.Fprintf(&sb, "C(%q)", t.Text)
		case token.KindNewline:
			sb.WriteString("NL")
		case token.KindEOF:
			sb.WriteString("EOF")
		case token.KindTagOpen:
			fmt.Fprintf(&sb, "<%s>", tagSig(t))
		case token.KindTagClose:
			fmt.Fprintf(&sb, "</%s>", tagSig(t))
		case token.KindSelfClosing:
			fmt.Fprintf(&sb, "<%s/>", tagSig(t))
		}
	}
	return sb.String()
}

func tagSig(t *token.Token) string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if stx := t.Src.Stx; stx != "" {
		fmt.Fprintf(&sb, "[%s]", stx)
	}
	for _, a := range t.Attrs {
		fmt.Fprintf(&sb, "{%s=%s}", a.Key, a.Value)
	}
	return sb.String()
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		src string
		exp string
	}{
		{"", "EOF"},
		{"hello", `T("hello") EOF`},
		{"a\nb", `T("a") NL T("b") EOF`},
		{"== T ==", `<h2> T(" T ") </h2> EOF`},
		{"==T==", `<h2> T("T") </h2> EOF`},
		{"====", `<h1> T("==") </h1> EOF`},
		{"=x=", `<h1> T("x") </h1> EOF`},
		{"* a", `<li[*]/> T(" a") EOF`},
		{"*# a", `<li[*#]/> T(" a") EOF`},
		{"; term", `<li[;]/> T(" term") EOF`},
		{"-----", `<hr/> EOF`},
		{
			"{|\n|-\n|a||b\n|}",
			`<table> NL <tr/> NL <td/> T("a") <td[row]/> T("b") NL </table> EOF`,
		},
		{"!head", `<th/> T("head") EOF`},
		{"|+cap", `<caption/> T("cap") EOF`},
		{"a<!--x-->b", `T("a") C("x") T("b") EOF`},
		{"a<!--open", `T("a") C("open") EOF`},
		{"{{foo|x}}", `<template/> EOF`},
		{"{{a{{b}}c}}", `<template/> EOF`},
		{"{{{1}}}", `<templatearg/> EOF`},
		{"[[Foo|bar]]", `<wikilink/> EOF`},
		{"[[unclosed", `T("[[unclosed") EOF`},
		{"[https://x y]", `<extlink/> EOF`},
		{"[not a link]", `T("[not a link]") EOF`},
		{"'''b'''", `<quote[bold]/> T("b") <quote[bold]/> EOF`},
		{"''i''", `<quote[italic]/> T("i") <quote[italic]/> EOF`},
		{"'''''bi'''''", `<quote[bold-italic]/> T("bi") <quote[bold-italic]/> EOF`},
		{"__NOTOC__", `<behavior-switch/> EOF`},
		{"__lower__", `T("__lower__") EOF`},
		{"~~~~", `<signature/> EOF`},
		{"~~ too short", `T("~~ too short") EOF`},
		{"a||b", `T("a||b") EOF`},
		{
			`x<b class="y">t</b>`,
			`T("x") <b[html]{class=y}> T("t") </b[html]> EOF`,
		},
		{"<br/>", `<br[html]/> EOF`},
		{"<unknown>", `T("<unknown>") EOF`},
		{
			"<nowiki>[[x]]</nowiki>",
			`<nowiki[html]> T("[[x]]") </nowiki[html]> EOF`,
		},
		{"<nowiki>open end", `<nowiki[html]> T("open end") </nowiki[html]> EOF`},
	}
	for i, tc := range testcases {
		got := sig(tokenizer.Tokenize(tc.src))
		if got != tc.exp {
			t.Errorf("%d: %q expected\n%s\ngot\n%s", i, tc.src, tc.exp, got)
		}
	}
}

func TestTokenizeRanges(t *testing.T) {
	t.Parallel()
	const src = "a {{t}} b\n* c"
	toks := tokenizer.Tokenize(src)
	for _, tok := range toks {
		tsr := tok.Src.TSR
		if tsr == nil {
			t.Errorf("token %v %q has no source range", tok.Kind, tok.Name)
			continue
		}
		if tsr.Start < 0 || tsr.End > len(src) || tsr.Start > tsr.End {
			t.Errorf("token %v has invalid range %d-%d", tok.Kind, tsr.Start, tsr.End)
		}
	}
	// Concatenating the covered source bytes reproduces the input.
	var sb strings.Builder
	for _, tok := range toks {
		sb.WriteString(src[tok.Src.TSR.Start:tok.Src.TSR.End])
	}
	if got := sb.String(); got != src {
		t.Errorf("ranges do not cover the source: %q", got)
	}
}

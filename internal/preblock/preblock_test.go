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

package preblock_test

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"wikiround.de/w/internal/preblock"
	"wikiround.de/w/internal/token"
	"wikiround.de/w/internal/tokenizer"
)

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// sig renders a token stream compactly, including source ranges of tag
// tokens, so expectations stay readable.
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
			fmt.Fprintf(&sb, "<%s%s>", t.Name, tsrSig(t))
		case token.KindTagClose:
			fmt.Fprintf(&sb, "</%s%s>", t.Name, tsrSig(t))
		case token.KindSelfClosing:
			fmt.Fprintf(&sb, "<%s%s/>", t.Name, tsrSig(t))
		}
	}
	return sb.String()
}

func tsrSig(t *token.Token) string {
	if tsr := t.Src.TSR; tsr != nil {
		return fmt.Sprintf(" %d-%d", tsr.Start, tsr.End)
	}
	return ""
}

func TestTransition(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		state   preblock.State
		class   token.Class
		expNext preblock.State
		expAct  preblock.Action
	}{
		{preblock.StartOfLine, token.ClassNewline, preblock.StartOfLine, preblock.ActPurge},
		{preblock.StartOfLine, token.ClassEOF, preblock.StartOfLine, preblock.ActPurge},
		{preblock.StartOfLine, token.ClassLeadingWS, preblock.Pre, preblock.ActHold},
		{preblock.StartOfLine, token.ClassSolTransparent, preblock.StartOfLine, preblock.ActBuffer},
		{preblock.StartOfLine, token.ClassOther, preblock.Ignore, preblock.ActPurge},
		{preblock.StartOfLine, token.ClassBlockTag, preblock.Ignore, preblock.ActPurge},
		{preblock.Pre, token.ClassSolTransparent, preblock.Pre, preblock.ActBuffer},
		{preblock.Pre, token.ClassBlockTag, preblock.Ignore, preblock.ActPurge},
		{preblock.Pre, token.ClassNewline, preblock.StartOfLine, preblock.ActPurge},
		{preblock.Pre, token.ClassEOF, preblock.StartOfLine, preblock.ActPurge},
		{preblock.Pre, token.ClassOther, preblock.PreCollect, preblock.ActAccumulate},
		{preblock.Pre, token.ClassLeadingWS, preblock.PreCollect, preblock.ActAccumulate},
		{preblock.PreCollect, token.ClassNewline, preblock.MultilinePre, preblock.ActHoldNewline},
		{preblock.PreCollect, token.ClassEOF, preblock.StartOfLine, preblock.ActCloseBlock},
		{preblock.PreCollect, token.ClassBlockTag, preblock.Ignore, preblock.ActCloseBlock},
		{preblock.PreCollect, token.ClassOther, preblock.PreCollect, preblock.ActAccumulate},
		{preblock.MultilinePre, token.ClassLeadingWS, preblock.PreCollect, preblock.ActReleaseNewline},
		{preblock.MultilinePre, token.ClassSolTransparent, preblock.MultilinePre, preblock.ActBuffer},
		{preblock.MultilinePre, token.ClassNewline, preblock.StartOfLine, preblock.ActCloseBlock},
		{preblock.MultilinePre, token.ClassEOF, preblock.StartOfLine, preblock.ActCloseBlock},
		{preblock.MultilinePre, token.ClassOther, preblock.Ignore, preblock.ActCloseBlock},
		{preblock.Ignore, token.ClassNewline, preblock.StartOfLine, preblock.ActPurge},
		{preblock.Ignore, token.ClassEOF, preblock.StartOfLine, preblock.ActPurge},
		{preblock.Ignore, token.ClassOther, preblock.Ignore, preblock.ActPass},
	}
	for i, tc := range testcases {
		next, act := preblock.Transition(tc.state, tc.class)
		if next != tc.expNext || act != tc.expAct {
			t.Errorf("%d: Transition(%v, %v) expected (%v, %v), got (%v, %v)",
				i, tc.state, tc.class, tc.expNext, tc.expAct, next, act)
		}
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		src string
		exp string
	}{
		{
			" hello",
			`<pre 0-1> T("hello") </pre 6-6> EOF`,
		},
		{
			// One leading space is the block marker; the rest stays content.
			"  x",
			`<pre 0-1> T(" x") </pre 3-3> EOF`,
		},
		{
			"\n  preformatted\n",
			`NL <pre 1-2> T(" preformatted") </pre 16-16> NL EOF`,
		},
		{
			// A whitespace-only line is no literal block.
			" \nx",
			`T(" ") NL T("x") EOF`,
		},
		{
			// An indented continuation line joins the block.
			" a\n b",
			`<pre 0-1> T("a") NL T("b") </pre 5-5> EOF`,
		},
		{
			// A blank line ends the block.
			" a\n\nb",
			`<pre 0-1> T("a") </pre 3-3> NL NL T("b") EOF`,
		},
		{
			"plain line",
			`T("plain line") EOF`,
		},
		{
			// Markup inside the indented line stays tokenized.
			" a ''b''",
			`<pre 0-1> T("a ") <quote 3-5/> T("b") <quote 6-8/> </pre 8-8> EOF`,
		},
	}
	for i, tc := range testcases {
		got := sig(preblock.Apply(testLogger(), tokenizer.Tokenize(tc.src)))
		if got != tc.exp {
			t.Errorf("%d: %q expected\n%s\ngot\n%s", i, tc.src, tc.exp, got)
		}
	}
}

func TestApplyBlockTagCancels(t *testing.T) {
	t.Parallel()
	toks := []*token.Token{
		token.MakeText(" ").WithTSR(0, 1),
		token.MakeOpen("table").WithTSR(1, 3),
		token.MakeEOF().WithTSR(3, 3),
	}
	got := sig(preblock.Apply(testLogger(), toks))
	if exp := `T(" ") <table 1-3> EOF`; got != exp {
		t.Errorf("expected %s, got %s", exp, got)
	}
}

func TestApplySolTransparent(t *testing.T) {
	t.Parallel()
	toks := []*token.Token{
		token.MakeComment("c").WithTSR(0, 8),
		token.MakeText(" x").WithTSR(8, 10),
		token.MakeNewline().WithTSR(10, 11),
		token.MakeEOF().WithTSR(11, 11),
	}
	got := sig(preblock.Apply(testLogger(), toks))
	if exp := `<pre 8-9> C("c") T("x") </pre 11-11> NL EOF`; got != exp {
		t.Errorf("expected %s, got %s", exp, got)
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	t.Parallel()
	const src = " a\n b\nplain\n  deep\n"
	first := sig(preblock.Apply(testLogger(), tokenizer.Tokenize(src)))
	for range 5 {
		if again := sig(preblock.Apply(testLogger(), tokenizer.Tokenize(src))); again != first {
			t.Fatalf("output changed between runs: %s vs %s", first, again)
		}
	}
}

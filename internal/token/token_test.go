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

package token_test

import (
	"testing"

	"wikiround.de/w/internal/token"
)

func TestAttrLastWins(t *testing.T) {
	t.Parallel()
	tok := token.MakeOpen("td",
		token.Attribute{Key: "style", Value: "a"},
		token.Attribute{Key: "class", Value: "x"},
		token.Attribute{Key: "style", Value: "b"},
	)
	if got, found := tok.Attr("style"); !found || got != "b" {
		t.Errorf("expected last style value %q, got %q (found=%v)", "b", got, found)
	}
	if _, found := tok.Attr("id"); found {
		t.Error("unexpected id attribute")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		tok *token.Token
		exp token.Class
	}{
		{token.MakeNewline(), token.ClassNewline},
		{token.MakeEOF(), token.ClassEOF},
		{token.MakeText(" lead"), token.ClassLeadingWS},
		{token.MakeText("word"), token.ClassOther},
		{token.MakeComment("c"), token.ClassSolTransparent},
		{token.MakeSelfClosing("behavior-switch"), token.ClassSolTransparent},
		{token.MakeSelfClosing("quote"), token.ClassOther},
		{token.MakeOpen("table"), token.ClassBlockTag},
		{token.MakeClose("p"), token.ClassBlockTag},
		{token.MakeOpen("b"), token.ClassOther},
	}
	for i, tc := range testcases {
		if got := token.Classify(tc.tok); got != tc.exp {
			t.Errorf("%d: Classify(%v %q) expected %v, got %v",
				i, tc.tok.Kind, tc.tok.Name, tc.exp, got)
		}
	}
}

func TestSz(t *testing.T) {
	t.Parallel()
	tok := token.MakeOpen("td", token.Attribute{Key: "class", Value: "x"}).
		WithTSR(3, 4).WithStx("row")
	if got, exp := tok.Sz().String(), `(TAG-OPEN td (ATTR "class" "x") (TSR 3 4) (STX "row"))`; got != exp {
		t.Errorf("expected %s, got %s", exp, got)
	}
	if got, exp := token.MakeText("a").Sz().String(), `(TEXT "a")`; got != exp {
		t.Errorf("expected %s, got %s", exp, got)
	}
}

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

package dom_test

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiround.de/w/internal/dom"
	"wikiround.de/w/internal/serializer"
	"wikiround.de/w/internal/token"
)

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func tokensOf(t *testing.T, doc string) []*token.Token {
	t.Helper()
	body, err := dom.Prepare(strings.NewReader(doc))
	require.NoError(t, err)
	return dom.Tokens(testLogger(), body)
}

func sig(tokens []*token.Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch tok.Kind {
		case token.KindText:
			fmt.Fprintf(&sb, "T(%q)", tok.Text)
		case token.KindComment:
			fmt.Fprintf(&sb, "C(%q)", tok.Text)
		case token.KindNewline:
			sb.WriteString("NL")
		case token.KindEOF:
			sb.WriteString("EOF")
		case token.KindTagOpen:
			fmt.Fprintf(&sb, "<%s>", tok.Name)
		case token.KindTagClose:
			fmt.Fprintf(&sb, "</%s>", tok.Name)
		case token.KindSelfClosing:
			fmt.Fprintf(&sb, "<%s/>", tok.Name)
		}
	}
	return sb.String()
}

func TestTokensBalanced(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t, "<html><body><p>x<b>y</b></p><br></body></html>")
	assert.Equal(t, `<p> T("x") <b> T("y") </b> </p> <br/> EOF`, sig(toks))
}

func TestTokensSplitsTextOnNewlines(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t, "<body><p>a\nb\n</p></body>")
	assert.Equal(t, `<p> T("a") NL T("b") NL </p> EOF`, sig(toks))
}

func TestTokensSourceInfo(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t,
		`<body><table><tr><td data-wt='{"tsr":[4,9],"stx":"row"}'>x</td></tr></table></body>`)
	require.NotEmpty(t, toks)
	var td *token.Token
	for _, tok := range toks {
		if tok.Kind == token.KindTagOpen && tok.Name == "td" {
			td = tok
		}
	}
	require.NotNil(t, td)
	require.NotNil(t, td.Src.TSR)
	assert.Equal(t, 4, td.Src.TSR.Start)
	assert.Equal(t, 9, td.Src.TSR.End)
	assert.Equal(t, "row", td.Src.Stx)
}

func TestTokensSourceInfoOnParagraph(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t, `<body><p data-wt='{"tsr":[0,5]}'>x</p></body>`)
	require.GreaterOrEqual(t, len(toks), 4)
	open := toks[0]
	assert.Equal(t, token.KindTagOpen, open.Kind)
	require.NotNil(t, open.Src.TSR)
	assert.Equal(t, token.Range{Start: 0, End: 5}, *open.Src.TSR)
	assert.Empty(t, open.Attrs, "reserved attribute must not leak")
}

func TestTokensMalformedSourceInfo(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t, `<body><p data-wt='{broken'>x</p></body>`)
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Nil(t, toks[0].Src.TSR)
}

func TestTokensTransclusionMarker(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t,
		`<body><span data-wt='{"extra":{"wt":"{{echo|x}}","name":"template"}}'>expanded</span></body>`)
	assert.Equal(t, `<template/> EOF`, sig(toks))
	assert.Equal(t, "{{echo|x}}", toks[0].Extra("wt"))
}

func TestPrepareUnwrapsSections(t *testing.T) {
	t.Parallel()
	toks := tokensOf(t,
		"<body><section><p>a</p><section><p>b</p></section></section><section></section></body>")
	assert.Equal(t, `<p> T("a") </p> <p> T("b") </p> EOF`, sig(toks))
}

func TestPrepareNoBody(t *testing.T) {
	t.Parallel()
	// An empty input still yields a body node via the HTML5 algorithm, so
	// Prepare only fails on a reader error; exercise the happy path.
	body, err := dom.Prepare(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, `EOF`, sig(dom.Tokens(testLogger(), body)))
}

func TestLinkAnalysis(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		name string
		doc  string
		exp  map[string]string
	}{
		{
			"authored content matches normalized target",
			`<body><a href="./Foo_Bar">foo bar</a></body>`,
			map[string]string{"target": "Foo Bar", "contentMatches": "1"},
		},
		{
			"piped content",
			`<body><a href="./Help:Contents">the help</a></body>`,
			map[string]string{"target": "Help:Contents", "contentMatches": ""},
		},
		{
			"link tail",
			`<body><a href="./Bus" data-wt='{"extra":{"tail":"es"}}'>buses</a></body>`,
			map[string]string{"target": "Bus", "contentMatches": "1", "tail": "es"},
		},
		{
			"external",
			`<body><a href="https://example.com/x">label</a></body>`,
			map[string]string{"target": "https://example.com/x", "external": "1"},
		},
		{
			"autonumbered external",
			`<body><a href="https://example.com/x" class="external autonumber">[1]</a></body>`,
			map[string]string{"target": "https://example.com/x", "autonumber": "1"},
		},
		{
			"percent-encoded target",
			`<body><a href="./Caf%C3%A9">café</a></body>`,
			map[string]string{"target": "Café", "contentMatches": "1"},
		},
	}
	for _, tc := range testcases {
		toks := tokensOf(t, tc.doc)
		require.NotEmpty(t, toks, tc.name)
		open := toks[0]
		require.Equal(t, token.KindTagOpen, open.Kind, tc.name)
		for key, val := range tc.exp {
			assert.Equal(t, val, open.Extra(key), "%s: extra %q", tc.name, key)
		}
	}
}

func TestPrepareTokensSerializeEndToEnd(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		doc string
		exp string
	}{
		{"<body><ul><li>a</li><li>b</li></ul></body>", "* a\n* b"},
		{"<body><p>x</p><p>y</p></body>", "x\n\ny"},
		{`<body><p>see <a href="./Foo_Bar">foo bar</a></p></body>`, "see [[foo bar]]"},
		{"<body><h2>Title</h2><p>text</p></body>", "==Title==\ntext"},
		{"<body><pre>a\nb</pre></body>", " a\n b"},
		{"<body><ul><li>first\nsecond</li></ul></body>", "* first second"},
		{
			`<body><p><span data-wt='{"extra":{"wt":"<ref>x</ref>","name":"ref"}}'>[1]</span></p></body>`,
			"<ref>x</ref>",
		},
	}
	for i, tc := range testcases {
		got, err := serializer.Serialize(testLogger(), tokensOf(t, tc.doc))
		require.NoError(t, err)
		assert.Equal(t, tc.exp, got, "case %d", i)
	}
}

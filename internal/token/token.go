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

// Package token defines the token alphabet shared by the wikitext tokenizer
// and the wikitext serializer.
package token

// Kind discriminates the token variants.
type Kind uint8

// Values for Kind.
const (
	KindText        Kind = iota // literal character data
	KindTagOpen                 // start of an element
	KindTagClose                // end of an element
	KindSelfClosing             // open+close collapsed into one token
	KindComment                 // inner content of a comment
	KindNewline                 // a single explicit line break
	KindEOF                     // sentinel terminating a stream
)

var kindNames = [...]string{"text", "tag-open", "tag-close", "self-closing", "comment", "newline", "eof"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Attribute is one key/value pair of an element. Keys need not be unique in
// source; lookup treats them as last-wins.
type Attribute struct {
	Key   string
	Value string
}

// Range is a byte-offset span into the original wikitext.
type Range struct {
	Start int
	End   int
}

// SourceInfo records where a token comes from and which concrete syntax
// variant produced it.
type SourceInfo struct {
	TSR      *Range            // token source range, nil if unknown
	Stx      string            // concrete syntax variant, e.g. "row" for a || table cell
	Fostered bool              // content relocated out of a table
	Extra    map[string]string // free-form round-trip data
}

// Token is one element of the token alphabet. The Kind field selects which
// of the other fields carry a payload.
type Token struct {
	Kind  Kind
	Name  string // element name for tag tokens
	Text  string // payload for text and comment tokens
	Attrs []Attribute
	Src   SourceInfo
	Rank  float64 // highest pipeline rank that already processed this token
}

// MakeText creates a text token.
func MakeText(text string) *Token { return &Token{Kind: KindText, Text: text} }

// MakeComment creates a comment token with the given inner content.
func MakeComment(text string) *Token { return &Token{Kind: KindComment, Text: text} }

// MakeNewline creates a newline token.
func MakeNewline() *Token { return &Token{Kind: KindNewline} }

// MakeEOF creates the end-of-input sentinel.
func MakeEOF() *Token { return &Token{Kind: KindEOF} }

// MakeOpen creates a tag-open token.
func MakeOpen(name string, attrs ...Attribute) *Token {
	return &Token{Kind: KindTagOpen, Name: name, Attrs: attrs}
}

// MakeClose creates a tag-close token.
func MakeClose(name string) *Token { return &Token{Kind: KindTagClose, Name: name} }

// MakeSelfClosing creates a collapsed open+close token.
func MakeSelfClosing(name string, attrs ...Attribute) *Token {
	return &Token{Kind: KindSelfClosing, Name: name, Attrs: attrs}
}

// WithTSR attaches a source range and returns the token.
func (t *Token) WithTSR(start, end int) *Token {
	t.Src.TSR = &Range{Start: start, End: end}
	return t
}

// WithStx attaches a concrete syntax marker and returns the token.
func (t *Token) WithStx(stx string) *Token {
	t.Src.Stx = stx
	return t
}

// IsTag returns true for open, close, and self-closing tokens.
func (t *Token) IsTag() bool {
	return t.Kind == KindTagOpen || t.Kind == KindTagClose || t.Kind == KindSelfClosing
}

// Attr returns the value of the last attribute with the given key.
func (t *Token) Attr(key string) (string, bool) {
	for i := len(t.Attrs) - 1; i >= 0; i-- {
		if t.Attrs[i].Key == key {
			return t.Attrs[i].Value, true
		}
	}
	return "", false
}

// SetExtra stores a free-form round-trip value on the token.
func (t *Token) SetExtra(key, value string) {
	if t.Src.Extra == nil {
		t.Src.Extra = make(map[string]string, 2)
	}
	t.Src.Extra[key] = value
}

// Extra returns a free-form round-trip value, or "" if absent.
func (t *Token) Extra(key string) string {
	return t.Src.Extra[key]
}

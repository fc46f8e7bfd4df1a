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

package serializer

// The registry maps element names to emission descriptors. Elements without
// an explicit entry serialize as generic markup tags, verbatim. Tokens whose
// syntax marker says they were authored as literal tags also take the
// generic route, preserving the author's explicit choice.

import (
	"strings"

	"wikiround.de/w/internal/escape"
	"wikiround.de/w/internal/token"
)

// Occurrence distinguishes how an element name occurs in the token stream.
type Occurrence uint8

// Values for Occurrence.
const (
	OccurOpen Occurrence = iota
	OccurClose
	OccurSelf
)

func occurrenceOf(t *token.Token) Occurrence {
	switch t.Kind {
	case token.KindTagClose:
		return OccurClose
	case token.KindSelfClosing:
		return OccurSelf
	}
	return OccurOpen
}

// EmitFunc produces the literal text for one token occurrence. It may mutate
// the pass state, e.g. push the list stack or toggle content dropping.
type EmitFunc func(st *State, t *token.Token) string

// Descriptor is the emission policy for one element occurrence.
type Descriptor struct {
	StartsNewline      bool // force a newline before, if not at start of line
	EndsLine           bool // the next token must be preceded by a newline
	PairNewlines       int  // owed newlines when following a close of the same name
	NewlineTransparent bool // output does not clear start-of-line status
	SingleLineDelta    int  // adjustment of the single-line mode counter
	Ignore             bool // consume with no state update and no output
	Emit               EmitFunc
}

// ElementKind classifies element names for descriptor lookup.
type ElementKind uint8

// Values for ElementKind.
const (
	kindGeneric ElementKind = iota
	kindIgnored
	kindParagraph
	kindHeading
	kindBulletList
	kindOrderedList
	kindDefList
	kindListItem
	kindDefTerm
	kindDefData
	kindTable
	kindTableRow
	kindTableCell
	kindTableHeader
	kindCaption
	kindPre
	kindNowiki
	kindLink
	kindBold
	kindItalic
	kindHorizRule
	kindLineBreak
	kindQuoteMark
	kindTransclusion
	kindSignature
	kindBehaviorSwitch
)

var mapNameKind = map[string]ElementKind{
	"p":  kindParagraph,
	"h1": kindHeading, "h2": kindHeading, "h3": kindHeading,
	"h4": kindHeading, "h5": kindHeading, "h6": kindHeading,
	"ul":              kindBulletList,
	"ol":              kindOrderedList,
	"dl":              kindDefList,
	"li":              kindListItem,
	"dt":              kindDefTerm,
	"dd":              kindDefData,
	"table":           kindTable,
	"tr":              kindTableRow,
	"td":              kindTableCell,
	"th":              kindTableHeader,
	"caption":         kindCaption,
	"pre":             kindPre,
	"nowiki":          kindNowiki,
	"a":               kindLink,
	"b":               kindBold,
	"strong":          kindBold,
	"i":               kindItalic,
	"em":              kindItalic,
	"hr":              kindHorizRule,
	"br":              kindLineBreak,
	"quote":           kindQuoteMark,
	"template":        kindTransclusion,
	"templatearg":     kindTransclusion,
	"wikilink":        kindTransclusion,
	"extlink":         kindTransclusion,
	"signature":       kindSignature,
	"behavior-switch": kindBehaviorSwitch,
	"tbody":           kindIgnored, "thead": kindIgnored, "tfoot": kindIgnored,
	"colgroup": kindIgnored, "meta": kindIgnored,
}

func kindOf(name string) ElementKind {
	if k, found := mapNameKind[name]; found {
		return k
	}
	return kindGeneric
}

// descriptorOf resolves the emission descriptor for a token. Text, comment,
// and newline tokens have fixed descriptors; tag tokens go through the
// registry.
func descriptorOf(t *token.Token) Descriptor {
	switch t.Kind {
	case token.KindText:
		return Descriptor{Emit: emitText}
	case token.KindComment:
		return Descriptor{NewlineTransparent: true, Emit: emitComment}
	case token.KindNewline:
		return Descriptor{Emit: emitNewlineToken}
	}
	kind := kindOf(t.Name)
	if t.Src.Stx == "html" && kind != kindNowiki {
		kind = kindGeneric
	}
	if kind == kindGeneric && t.Kind == token.KindSelfClosing && t.Extra("wt") != "" {
		// Extension output with recorded source, e.g. a ref marker: there is
		// no normal form, only the original markup.
		return Descriptor{Emit: emitRoundTrip}
	}
	d := descriptorFor(kind, occurrenceOf(t))
	if t.Src.Stx == "row" {
		// A "||" style cell continues the current line.
		d.StartsNewline = false
	}
	return d
}

// descriptorFor is the registry proper: a pure mapping from element kind and
// occurrence to the emission policy.
func descriptorFor(kind ElementKind, occ Occurrence) Descriptor {
	switch kind {
	case kindIgnored:
		return Descriptor{Ignore: true}
	case kindParagraph:
		if occ == OccurOpen {
			return Descriptor{StartsNewline: true, PairNewlines: 2, Emit: emitNothing}
		}
		return Descriptor{EndsLine: true, Emit: emitNothing}
	case kindHeading:
		if occ == OccurOpen {
			return Descriptor{StartsNewline: true, SingleLineDelta: 1, Emit: emitHeadingMarks}
		}
		return Descriptor{EndsLine: true, SingleLineDelta: -1, Emit: emitHeadingMarks}
	case kindBulletList:
		return listDescriptor(occ, '*')
	case kindOrderedList:
		return listDescriptor(occ, '#')
	case kindDefList:
		return listDescriptor(occ, ';')
	case kindListItem:
		return itemDescriptor(occ, 0)
	case kindDefTerm:
		return itemDescriptor(occ, ';')
	case kindDefData:
		return itemDescriptor(occ, ':')
	case kindTable:
		if occ == OccurOpen {
			return Descriptor{StartsNewline: true, EndsLine: true, Emit: emitTableOpen}
		}
		return Descriptor{StartsNewline: true, EndsLine: true, Emit: emitTableClose}
	case kindTableRow:
		if occ == OccurClose {
			return Descriptor{EndsLine: true, Emit: emitNothing}
		}
		return Descriptor{StartsNewline: true, EndsLine: true, Emit: emitTableRow}
	case kindTableCell:
		if occ == OccurClose {
			return Descriptor{Emit: emitNothing}
		}
		return Descriptor{StartsNewline: true, Emit: emitTableCell}
	case kindTableHeader:
		if occ == OccurClose {
			return Descriptor{Emit: emitNothing}
		}
		return Descriptor{StartsNewline: true, Emit: emitTableHeader}
	case kindCaption:
		if occ == OccurClose {
			return Descriptor{EndsLine: true, Emit: emitNothing}
		}
		return Descriptor{StartsNewline: true, Emit: emitCaption}
	case kindPre:
		if occ == OccurOpen {
			return Descriptor{StartsNewline: true, Emit: emitPreOpen}
		}
		return Descriptor{EndsLine: true, Emit: emitPreClose}
	case kindNowiki:
		if occ == OccurClose {
			return Descriptor{Emit: emitNowikiClose}
		}
		return Descriptor{Emit: emitNowikiOpen}
	case kindLink:
		if occ == OccurClose {
			return Descriptor{Emit: emitLinkClose}
		}
		return Descriptor{Emit: emitLinkOpen}
	case kindBold:
		return Descriptor{Emit: emitBoldMarks}
	case kindItalic:
		return Descriptor{Emit: emitItalicMarks}
	case kindHorizRule:
		return Descriptor{StartsNewline: true, EndsLine: true, Emit: emitHorizRule}
	case kindLineBreak:
		return Descriptor{Emit: emitLineBreak}
	case kindQuoteMark:
		return Descriptor{Emit: emitQuoteMark}
	case kindTransclusion:
		return Descriptor{Emit: emitRoundTrip}
	case kindSignature:
		return Descriptor{Emit: emitSignature}
	case kindBehaviorSwitch:
		return Descriptor{NewlineTransparent: true, Emit: emitBehaviorSwitch}
	}
	switch occ {
	case OccurClose:
		return Descriptor{Emit: emitGenericClose}
	case OccurSelf:
		return Descriptor{Emit: emitGenericSelf}
	}
	return Descriptor{Emit: emitGenericOpen}
}

func listDescriptor(occ Occurrence, bullet byte) Descriptor {
	if occ == OccurClose {
		return Descriptor{EndsLine: true, Emit: emitListClose}
	}
	return Descriptor{StartsNewline: true, PairNewlines: 2,
		Emit: func(st *State, _ *token.Token) string { st.pushList(bullet); return "" }}
}

func itemDescriptor(occ Occurrence, bullet byte) Descriptor {
	switch occ {
	case OccurClose:
		return Descriptor{EndsLine: true, SingleLineDelta: -1, Emit: emitNothing}
	case OccurSelf:
		// A marker-only item from the tokenizer; no closing half follows.
		return Descriptor{StartsNewline: true,
			Emit: func(st *State, t *token.Token) string { return emitListItem(st, t, bullet) }}
	}
	return Descriptor{StartsNewline: true, SingleLineDelta: 1,
		Emit: func(st *State, t *token.Token) string { return emitListItem(st, t, bullet) }}
}

func emitNothing(*State, *token.Token) string { return "" }

func emitText(st *State, t *token.Token) string {
	if st.dropContent {
		return ""
	}
	if st.inPre || st.noEscape > 0 {
		return t.Text
	}
	sol := st.onStartOfLine || st.availableNewlines > 0 || st.forceNewline
	return escape.Escape(st.log, t.Text, escape.Context{StartOfLine: sol})
}

func emitComment(_ *State, t *token.Token) string { return "<!--" + t.Text + "-->" }

func emitNewlineToken(*State, *token.Token) string { return "\n" }

func emitHeadingMarks(_ *State, t *token.Token) string {
	lvl := 1
	if len(t.Name) == 2 && t.Name[1] >= '1' && t.Name[1] <= '6' {
		lvl = int(t.Name[1] - '0')
	}
	return strings.Repeat("=", lvl)
}

func emitListClose(st *State, _ *token.Token) string {
	st.popList()
	return ""
}

// emitListItem writes the bullet prefix for one list item. A non-zero bullet
// overrides the list's own bullet character, which is how definition terms
// and data share one list level.
func emitListItem(st *State, t *token.Token, bullet byte) string {
	e := st.topList()
	if e == nil {
		// Marker-only item outside a list container: reuse the authored
		// bullet run if the token carries one.
		if stx := t.Src.Stx; stx != "" {
			return stx + " "
		}
		st.log.Warn("list item outside a list", "name", t.Name)
		return ""
	}
	if bullet != 0 {
		e.bullet = bullet
	}
	e.items++
	st.breakLine()
	return e.fullPrefix() + " "
}

func emitTableOpen(_ *State, t *token.Token) string { return "{|" + attrText(t) }
func emitTableClose(*State, *token.Token) string    { return "|}" }
func emitTableRow(_ *State, t *token.Token) string  { return "|-" + attrText(t) }
func emitHorizRule(*State, *token.Token) string     { return "----" }
func emitLineBreak(*State, *token.Token) string     { return "<br/>" }

func emitTableCell(_ *State, t *token.Token) string {
	if t.Src.Stx == "row" {
		return "||"
	}
	return "|"
}

func emitTableHeader(_ *State, t *token.Token) string {
	if t.Src.Stx == "row" {
		return "!!"
	}
	return "!"
}

func emitCaption(*State, *token.Token) string { return "|+" }

func emitPreOpen(st *State, _ *token.Token) string {
	st.inPre = true
	return " "
}

func emitPreClose(st *State, _ *token.Token) string {
	st.inPre = false
	return ""
}

func emitNowikiOpen(st *State, _ *token.Token) string {
	st.noEscape++
	return "<nowiki>"
}

func emitNowikiClose(st *State, _ *token.Token) string {
	if st.noEscape > 0 {
		st.noEscape--
	}
	return "</nowiki>"
}

func emitBoldMarks(*State, *token.Token) string   { return "'''" }
func emitItalicMarks(*State, *token.Token) string { return "''" }

func emitQuoteMark(_ *State, t *token.Token) string {
	switch t.Src.Stx {
	case "bold":
		return "'''"
	case "bold-italic":
		return "'''''"
	}
	return "''"
}

// emitRoundTrip reproduces markup that has no normal form, e.g. a
// transclusion, from the round-trip data recorded on the token.
func emitRoundTrip(st *State, t *token.Token) string {
	if wt := t.Extra("wt"); wt != "" {
		return wt
	}
	st.log.Warn("no round-trip data, skipping", "name", t.Name)
	return ""
}

func emitSignature(_ *State, t *token.Token) string {
	if wt := t.Extra("wt"); wt != "" {
		return wt
	}
	return "~~~~"
}

func emitBehaviorSwitch(_ *State, t *token.Token) string {
	if wt := t.Extra("wt"); wt != "" {
		return wt
	}
	if name, found := t.Attr("name"); found {
		return "__" + strings.ToUpper(name) + "__"
	}
	return ""
}

// emitLinkOpen starts a wiki or external link. The walker records on the
// token how the link was authored: the decoded target, whether the element
// content equals the target, a link tail, and external/autonumber markers.
func emitLinkOpen(st *State, t *token.Token) string {
	if t.Extra("autonumber") != "" {
		st.dropContent = true
		return "[" + t.Extra("target")
	}
	if t.Extra("external") != "" {
		return "[" + t.Extra("target") + " "
	}
	st.dropTail = t.Extra("tail")
	if t.Extra("contentMatches") != "" {
		// The authored content doubles as the target; let it flow through
		// so the original capitalization and spacing survive.
		return "[["
	}
	target := t.Extra("target")
	if target == "" {
		if href, found := t.Attr("href"); found {
			target = href
		}
	}
	return "[[" + target + "|"
}

func emitLinkClose(st *State, t *token.Token) string {
	st.dropContent = false
	tail := st.dropTail
	st.dropTail = ""
	if t.Extra("autonumber") != "" || t.Extra("external") != "" {
		return "]"
	}
	return "]]" + tail
}

func emitGenericOpen(_ *State, t *token.Token) string {
	return "<" + t.Name + attrText(t) + ">"
}

func emitGenericClose(_ *State, t *token.Token) string {
	return "</" + t.Name + ">"
}

func emitGenericSelf(_ *State, t *token.Token) string {
	return "<" + t.Name + attrText(t) + "/>"
}

func attrText(t *token.Token) string {
	var sb strings.Builder
	for _, a := range t.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		if a.Value != "" {
			sb.WriteString(`="`)
			sb.WriteString(a.Value)
			sb.WriteByte('"')
		}
	}
	return sb.String()
}

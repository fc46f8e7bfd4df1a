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

package token

import "t73f.de/r/zero/set"

// Class groups tokens for start-of-line sensitive transforms.
type Class uint8

// Values for Class.
const (
	ClassNewline        Class = iota // explicit line break
	ClassEOF                         // end-of-input sentinel
	ClassLeadingWS                   // text starting with a space at start of line
	ClassSolTransparent              // does not disqualify start-of-line status
	ClassBlockTag                    // block-level or table-structural tag
	ClassOther                       // everything else
)

var classNames = [...]string{"newline", "eof", "leading-ws", "sol-transparent", "block-tag", "other"}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// blockNames are element names that end indentation-pre candidacy.
var blockNames = set.New(
	"blockquote", "caption", "center", "dd", "div", "dl", "dt", "figure",
	"h1", "h2", "h3", "h4", "h5", "h6", "hr", "li", "ol", "p", "pre",
	"section", "table", "tbody", "td", "tfoot", "th", "thead", "tr", "ul",
)

// solTransparentNames are self-closing marker elements that carry no visual
// content, so they keep start-of-line status.
var solTransparentNames = set.New("behavior-switch", "include", "link", "meta")

// IsBlockName reports whether name is a block-level or table-structural
// element name.
func IsBlockName(name string) bool { return blockNames.Contains(name) }

// Classify assigns the token its start-of-line token class.
func Classify(t *Token) Class {
	switch t.Kind {
	case KindNewline:
		return ClassNewline
	case KindEOF:
		return ClassEOF
	case KindText:
		if len(t.Text) > 0 && t.Text[0] == ' ' {
			return ClassLeadingWS
		}
		return ClassOther
	case KindComment:
		return ClassSolTransparent
	case KindSelfClosing:
		if solTransparentNames.Contains(t.Name) {
			return ClassSolTransparent
		}
		if blockNames.Contains(t.Name) {
			return ClassBlockTag
		}
		return ClassOther
	case KindTagOpen, KindTagClose:
		if blockNames.Contains(t.Name) {
			return ClassBlockTag
		}
		return ClassOther
	}
	return ClassOther
}

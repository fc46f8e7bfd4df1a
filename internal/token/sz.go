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

// sz encodes tokens as s-expressions for diagnostic output.

import "t73f.de/r/sx"

// Symbols for the s-expression representation of tokens.
var (
	symText        = sx.MakeSymbol("TEXT")
	symTagOpen     = sx.MakeSymbol("TAG-OPEN")
	symTagClose    = sx.MakeSymbol("TAG-CLOSE")
	symSelfClosing = sx.MakeSymbol("SELF-CLOSING")
	symComment     = sx.MakeSymbol("COMMENT")
	symNewline     = sx.MakeSymbol("NEWLINE")
	symEOF         = sx.MakeSymbol("EOF")
	symTSR         = sx.MakeSymbol("TSR")
	symStx         = sx.MakeSymbol("STX")
	symAttr        = sx.MakeSymbol("ATTR")
	symUnknown     = sx.MakeSymbol("UNKNOWN")
)

var mapKindSym = map[Kind]*sx.Symbol{
	KindText:        symText,
	KindTagOpen:     symTagOpen,
	KindTagClose:    symTagClose,
	KindSelfClosing: symSelfClosing,
	KindComment:     symComment,
	KindNewline:     symNewline,
	KindEOF:         symEOF,
}

// Sz transforms the token into an s-expression.
func (t *Token) Sz() *sx.Pair {
	sym, found := mapKindSym[t.Kind]
	if !found {
		sym = symUnknown
	}
	var lb sx.ListBuilder
	lb.Add(sym)
	switch t.Kind {
	case KindText, KindComment:
		lb.Add(sx.MakeString(t.Text))
	case KindTagOpen, KindTagClose, KindSelfClosing:
		lb.Add(sx.MakeSymbol(t.Name))
		for _, attr := range t.Attrs {
			lb.Add(sx.MakeList(symAttr, sx.MakeString(attr.Key), sx.MakeString(attr.Value)))
		}
	}
	if tsr := t.Src.TSR; tsr != nil {
		lb.Add(sx.MakeList(symTSR, sx.Int64(int64(tsr.Start)), sx.Int64(int64(tsr.End))))
	}
	if stx := t.Src.Stx; stx != "" {
		lb.Add(sx.MakeList(symStx, sx.MakeString(stx)))
	}
	return lb.List()
}

// Sz transforms a token sequence into one s-expression list.
func Sz(tokens []*Token) *sx.Pair {
	var lb sx.ListBuilder
	for _, t := range tokens {
		lb.Add(t.Sz())
	}
	return lb.List()
}

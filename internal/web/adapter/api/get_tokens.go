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

package api

import (
	"net/http"

	"wikiround.de/w/internal/preblock"
	"wikiround.de/w/internal/token"
	"wikiround.de/w/internal/tokenizer"
	"wikiround.de/w/internal/web/adapter"
)

// MakeGetTokensHandler creates a new HTTP handler that returns the token
// stream of a page, after literal-block detection, as s-expressions.
func (a *API) MakeGetTokensHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.PathValue("title")
		content, _, err := a.store.Get(title)
		if err != nil {
			a.reportError(w, err)
			return
		}
		toks := preblock.Apply(a.log, tokenizer.Tokenize(string(content)))
		data := token.Sz(toks).String()
		if err = adapter.WriteData(w, []byte(data), adapter.ContentText); err != nil {
			a.log.Debug("unable to write token stream", "title", title, "err", err)
		}
	})
}

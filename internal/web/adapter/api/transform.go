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
	"io"
	"net/http"

	"wikiround.de/w/internal/dom"
	"wikiround.de/w/internal/logging"
	"wikiround.de/w/internal/markdown"
	"wikiround.de/w/internal/serializer"
	"wikiround.de/w/internal/web/adapter"
)

// MakeTransformHTMLHandler creates a new HTTP handler that serializes an
// annotated HTML document into wikitext. Output is streamed chunk by chunk;
// each request gets its own serialization state.
func (a *API) MakeTransformHTMLHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := dom.Prepare(r.Body)
		if err != nil {
			a.reportError(w, adapter.NewErrBadRequest(err.Error()))
			return
		}
		adapter.PrepareHeader(w, adapter.ContentText)
		w.WriteHeader(http.StatusOK)
		if err = serializer.SerializeToWriter(a.log, dom.Tokens(a.log, body), w); err != nil {
			// Chunks already sent stay sent; the pass just did not finish.
			a.log.Error("serialization did not complete", logging.Err(err))
		}
	})
}

// MakeTransformMarkdownHandler creates a new HTTP handler that imports a
// markdown document as wikitext.
func (a *API) MakeTransformMarkdownHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src, err := io.ReadAll(r.Body)
		if err != nil {
			a.reportError(w, adapter.NewErrBadRequest(err.Error()))
			return
		}
		text, err := markdown.Convert(a.log, src)
		if err != nil {
			a.reportError(w, err)
			return
		}
		if err = adapter.WriteData(w, []byte(text), adapter.ContentText); err != nil {
			a.log.Debug("unable to write wikitext", "err", err)
		}
	})
}

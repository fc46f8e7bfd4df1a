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

	"wikiround.de/w/internal/web/adapter"
)

// MakeUpdatePageHandler creates a new HTTP handler to store the wikitext of
// a page.
func (a *API) MakeUpdatePageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.PathValue("title")
		content, err := io.ReadAll(r.Body)
		if err != nil {
			a.reportError(w, adapter.NewErrBadRequest(err.Error()))
			return
		}
		digest, err := a.store.Put(title, content)
		if err != nil {
			a.reportError(w, err)
			return
		}
		w.Header().Set("ETag", `"`+digest+`"`)
		w.WriteHeader(http.StatusNoContent)
	})
}

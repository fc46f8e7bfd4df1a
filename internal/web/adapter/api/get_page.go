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
	"strings"

	"wikiround.de/w/internal/web/adapter"
)

// MakeGetPageHandler creates a new HTTP handler to return the wikitext of a
// page. The content digest doubles as the ETag.
func (a *API) MakeGetPageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.PathValue("title")
		if match := r.Header.Get("If-None-Match"); match != "" {
			// The index already knows the digest; a match skips the file read.
			if digest, found := a.store.Digest(title); found && strings.Contains(match, `"`+digest+`"`) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		content, digest, err := a.store.Get(title)
		if err != nil {
			a.reportError(w, err)
			return
		}
		w.Header().Set("ETag", `"`+digest+`"`)
		if err = adapter.WriteData(w, content, adapter.ContentText); err != nil {
			a.log.Debug("unable to write page content", "title", title, "err", err)
		}
	})
}

// MakeListPagesHandler creates a new HTTP handler that lists all page
// titles, one per line.
func (a *API) MakeListPagesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		titles := a.store.List()
		var sb strings.Builder
		for _, title := range titles {
			sb.WriteString(title)
			sb.WriteByte('\n')
		}
		if err := adapter.WriteData(w, []byte(sb.String()), adapter.ContentText); err != nil {
			a.log.Debug("unable to write page list", "err", err)
		}
	})
}

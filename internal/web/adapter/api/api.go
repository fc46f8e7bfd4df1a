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

// Package api provides the HTTP handlers of the Wikiround web service.
package api

import (
	"log/slog"
	"net/http"

	"wikiround.de/w/internal/logging"
	"wikiround.de/w/internal/store"
	"wikiround.de/w/internal/web/adapter"
)

// API holds the dependencies of the web handlers.
type API struct {
	log   *slog.Logger
	store *store.Store
}

// New creates the API object.
func New(log *slog.Logger, st *store.Store) *API {
	return &API{log: log, store: st}
}

func (a *API) reportError(w http.ResponseWriter, err error) {
	code, msg := adapter.CodeMessageFromError(err)
	if code == http.StatusInternalServerError {
		a.log.Error(msg, "code", code, logging.Err(err))
	} else {
		a.log.Debug(msg, "code", code, logging.Err(err))
	}
	http.Error(w, msg, code)
}

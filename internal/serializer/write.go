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

import (
	"io"
	"log/slog"

	"wikiround.de/w/internal/token"
)

// chunkWriter is a specialized writer for emitting wikitext chunks.
type chunkWriter struct {
	w   io.Writer // The io.Writer to write to
	err error     // Collect error
}

// WriteString writes the content of s.
func (w *chunkWriter) WriteString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// SerializeToWriter writes the wikitext rendition of the token sequence to w.
// The first write error stops further writes and is returned after the pass.
func SerializeToWriter(log *slog.Logger, tokens []*token.Token, w io.Writer) error {
	cw := chunkWriter{w: w}
	if err := SerializeTo(log, tokens, cw.WriteString); err != nil {
		return err
	}
	return cw.err
}

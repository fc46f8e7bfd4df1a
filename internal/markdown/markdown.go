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

// Package markdown imports markdown by rendering it to HTML and serializing
// the resulting tree as wikitext.
package markdown

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"

	"wikiround.de/w/internal/dom"
	"wikiround.de/w/internal/serializer"
)

// Convert renders markdown source into wikitext.
func Convert(log *slog.Logger, src []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", err
	}
	body, err := dom.Prepare(&buf)
	if err != nil {
		return "", err
	}
	text, err := serializer.Serialize(log, dom.Tokens(log, body))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, "\n"), nil
}

// ConvertTo renders markdown source into wikitext chunks on the sink.
func ConvertTo(log *slog.Logger, src []byte, sink serializer.Sink) error {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return err
	}
	body, err := dom.Prepare(&buf)
	if err != nil {
		return err
	}
	return serializer.SerializeTo(log, dom.Tokens(log, body), sink)
}

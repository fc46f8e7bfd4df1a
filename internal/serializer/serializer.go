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

// Package serializer emits wikitext for a token stream.
//
// Tokens are consumed one at a time, in a single pass. Newlines are never
// written immediately: they are counted as owed, so that the token that
// finally produces visible output decides how many separating newlines the
// wikitext grammar actually needs at that point. This makes separator
// decisions lazy without any lookahead.
package serializer

import (
	"fmt"
	"log/slog"
	"strings"

	"wikiround.de/w/internal/token"
)

// Serialize converts a token stream into one wikitext string.
func Serialize(log *slog.Logger, tokens []*token.Token) (string, error) {
	var sb strings.Builder
	err := SerializeTo(log, tokens, func(chunk string) { sb.WriteString(chunk) })
	return sb.String(), err
}

// SerializeTo converts a token stream into wikitext, delivering the output
// as ordered chunks to the sink. Chunks already delivered stay delivered; if
// a handler fails, the error reports an incomplete pass.
func SerializeTo(log *slog.Logger, tokens []*token.Token, sink Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialization pass aborted: %v", r)
		}
	}()
	st := newState(log, sink)
	for _, t := range tokens {
		st.step(t)
	}
	return nil
}

// step processes one token.
func (st *State) step(t *token.Token) {
	if t.Kind == token.KindEOF {
		st.flushNewlines()
		return
	}
	desc := descriptorOf(t)
	if desc.Ignore || desc.Emit == nil {
		if desc.Emit == nil {
			st.log.Warn("token without emission handler, skipping", "kind", t.Kind, "name", t.Name)
		}
		st.remember(t, true)
		return
	}
	raw := desc.Emit(st, t)

	// Newline runs at the edges of the raw text are not emitted: leading
	// ones join the owed count, trailing ones become owed for whatever
	// comes next.
	lead := 0
	for lead < len(raw) && raw[lead] == '\n' {
		lead++
	}
	body := raw[lead:]
	trail := 0
	for trail < len(body) && body[len(body)-1-trail] == '\n' {
		trail++
	}
	body = body[:len(body)-trail]
	st.availableNewlines += lead

	// Two adjacent structures of the same element name may need a minimum
	// separation, e.g. one blank line between two paragraphs.
	if desc.PairNewlines > 0 && t.Kind == token.KindTagOpen &&
		st.prevTag != nil && st.prevTag.Kind == token.KindTagClose &&
		st.prevTag.Name == t.Name && st.availableNewlines < desc.PairNewlines {
		st.availableNewlines = desc.PairNewlines
	}

	if body == "" {
		st.availableNewlines += trail
		if desc.StartsNewline && !st.onStartOfLine {
			st.forceNewline = true
		}
	} else {
		if st.singleLineMode == 0 &&
			(st.forceNewline || (desc.StartsNewline && !st.onStartOfLine)) &&
			st.availableNewlines < 1 {
			st.availableNewlines = 1
		}
		st.flushNewlines()
		st.availableNewlines = trail
		st.forceNewline = false
		if st.dropTail != "" && strings.HasSuffix(body, st.dropTail) {
			body = body[:len(body)-len(st.dropTail)]
		}
		if st.inPre {
			// Every line of a literal block carries the indentation marker.
			body = strings.ReplaceAll(body, "\n", "\n ")
		} else if st.singleLineMode > 0 {
			body = strings.ReplaceAll(body, "\n", " ")
		}
		if body != "" {
			st.write(body)
			st.onNewline = false
			if !desc.NewlineTransparent {
				st.onStartOfLine = false
			}
		}
	}

	if desc.EndsLine {
		st.forceNewline = true
	}
	st.singleLineMode += desc.SingleLineDelta
	if st.singleLineMode < 0 {
		st.singleLineMode = 0
	}
	st.remember(t, false)
}

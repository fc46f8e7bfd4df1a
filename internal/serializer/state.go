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
	"log/slog"
	"strings"

	"wikiround.de/w/internal/token"
)

// Sink consumes the ordered output chunks of one serialization pass. Chunks
// are final: none is revised after it was handed over.
type Sink func(chunk string)

// listEntry is one level of active list nesting.
type listEntry struct {
	parentPrefix string // cumulative bullet prefix of the enclosing levels
	bullet       byte   // bullet character of this level
	items        int    // items emitted so far on this level
}

func (e *listEntry) fullPrefix() string { return e.parentPrefix + string(e.bullet) }

// State is the mutable context of one serialization pass. It is created
// fresh per pass and never shared between concurrent passes.
type State struct {
	log  *slog.Logger
	sink Sink

	listStack []listEntry

	onNewline     bool // the most recently emitted character was a newline
	onStartOfLine bool // the cursor is logically at column 0
	forceNewline  bool // the next emitting token must be preceded by a newline
	wrote         bool // some chunk was already delivered

	// Newlines are owed, not emitted: adjacent handlers may still raise or
	// coalesce the count before anything visible follows.
	availableNewlines int

	singleLineMode int // >0 collapses newlines in emitted text to spaces
	noEscape       int // >0 passes text through without escaping
	inPre          bool
	dropContent    bool
	dropTail       string

	prevToken *token.Token
	prevTag   *token.Token // preceding non-ignored tag token
}

func newState(log *slog.Logger, sink Sink) *State {
	return &State{log: log, sink: sink, onNewline: true, onStartOfLine: true}
}

func (st *State) write(s string) {
	if s != "" {
		st.sink(s)
		st.wrote = true
	}
}

func (st *State) flushNewlines() {
	if st.availableNewlines == 0 {
		return
	}
	count := st.availableNewlines
	st.availableNewlines = 0
	// Owed newlines before the first visible output would only produce
	// leading blank lines; they are dropped.
	if !st.wrote {
		st.onNewline = true
		st.onStartOfLine = true
		return
	}
	switch {
	case st.inPre:
		// Every continuation line of a literal block needs the indentation
		// marker, or the line falls out of the block on re-parse.
		st.write(strings.Repeat("\n ", count))
		st.onNewline = false
		st.onStartOfLine = false
	case st.singleLineMode > 0:
		// Inside a single-line element a line break degrades to one space.
		st.write(" ")
		st.onNewline = false
		st.onStartOfLine = false
	default:
		st.write(strings.Repeat("\n", count))
		st.onNewline = true
		st.onStartOfLine = true
	}
}

// breakLine puts the cursor at column 0, writing the owed newlines as real
// newlines. List bullets use it: a bullet counts only at the very start of a
// line, even inside a single-line element.
func (st *State) breakLine() {
	if st.availableNewlines == 0 && !st.onStartOfLine {
		st.availableNewlines = 1
	}
	if st.availableNewlines > 0 && st.wrote {
		st.write(strings.Repeat("\n", st.availableNewlines))
	}
	st.availableNewlines = 0
	st.forceNewline = false
	st.onNewline = true
	st.onStartOfLine = true
}

func (st *State) pushList(bullet byte) {
	parent := ""
	if e := st.topList(); e != nil {
		parent = e.fullPrefix()
	}
	st.listStack = append(st.listStack, listEntry{parentPrefix: parent, bullet: bullet})
}

func (st *State) popList() {
	if n := len(st.listStack); n > 0 {
		st.listStack = st.listStack[:n-1]
	}
}

func (st *State) topList() *listEntry {
	if n := len(st.listStack); n > 0 {
		return &st.listStack[n-1]
	}
	return nil
}

func (st *State) remember(t *token.Token, ignored bool) {
	st.prevToken = t
	if !ignored && t.IsTag() {
		st.prevTag = t
	}
}

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

// Package preblock decides which leading-whitespace runs of a wikitext token
// stream become literal pre blocks.
//
// The decision is made by a five-state automaton with multi-token lookback.
// A line that starts with a space and carries real content becomes a literal
// block: the automaton wraps the affected tokens in a synthesized pre tag
// pair and consumes the one indentation space. Lines where the whitespace
// turns out not to mark a literal block are released unchanged.
package preblock

import (
	"log/slog"

	"wikiround.de/w/internal/token"
	"wikiround.de/w/internal/tokenizer"
)

// State enumerates the automaton states.
type State uint8

// Values for State.
const (
	StartOfLine  State = iota // watching for an indented line
	Pre                       // saw the indentation space, no content yet
	PreCollect                // accumulating literal-block content
	MultilinePre              // at a line break, block may continue
	Ignore                    // rest of line cannot start a literal block
)

var stateNames = [...]string{"start-of-line", "pre", "pre-collect", "multiline-pre", "ignore"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Action enumerates what the automaton does on a transition.
type Action uint8

// Values for Action.
const (
	ActPurge          Action = iota // release buffered tokens unchanged
	ActHold                         // consume the indentation space, start candidacy
	ActBuffer                       // keep a sol-transparent token pending
	ActAccumulate                   // add token to the block content
	ActHoldNewline                  // keep the newline back, block may continue
	ActReleaseNewline               // newline was a continuation, put it into the block
	ActCloseBlock                   // wrap accumulated content in a pre tag pair
	ActPass                         // token flows through untouched
	ActReset                        // internal-logic fault, force reset
)

// Transition is the transition function of the automaton. It is pure, so the
// transition table can be tested in isolation.
func Transition(st State, cl token.Class) (State, Action) {
	switch st {
	case StartOfLine:
		switch cl {
		case token.ClassNewline, token.ClassEOF:
			return StartOfLine, ActPurge
		case token.ClassLeadingWS:
			return Pre, ActHold
		case token.ClassSolTransparent:
			return StartOfLine, ActBuffer
		default:
			return Ignore, ActPurge
		}
	case Pre:
		switch cl {
		case token.ClassSolTransparent:
			return Pre, ActBuffer
		case token.ClassBlockTag:
			return Ignore, ActPurge
		case token.ClassNewline, token.ClassEOF:
			// A line of only whitespace is not enough for a literal block.
			return StartOfLine, ActPurge
		default:
			return PreCollect, ActAccumulate
		}
	case PreCollect:
		switch cl {
		case token.ClassNewline:
			return MultilinePre, ActHoldNewline
		case token.ClassEOF:
			return StartOfLine, ActCloseBlock
		case token.ClassBlockTag:
			return Ignore, ActCloseBlock
		default:
			return PreCollect, ActAccumulate
		}
	case MultilinePre:
		switch cl {
		case token.ClassLeadingWS:
			return PreCollect, ActReleaseNewline
		case token.ClassSolTransparent:
			return MultilinePre, ActBuffer
		case token.ClassNewline, token.ClassEOF:
			return StartOfLine, ActCloseBlock
		default:
			return Ignore, ActCloseBlock
		}
	case Ignore:
		switch cl {
		case token.ClassNewline, token.ClassEOF:
			return StartOfLine, ActPurge
		default:
			return Ignore, ActPass
		}
	}
	return StartOfLine, ActReset
}

// Ranks of the two pipeline hooks. The newline hook must run before the
// any-token hook at the same logical position.
const (
	newlineRank = 2.0
	anyRank     = 2.1
)

// Machine runs the automaton over one token stream. It is not safe for
// concurrent use; every pipeline run needs its own instance.
type Machine struct {
	log            *slog.Logger
	state          State
	tokens         []*token.Token // pending tokens tentatively inside the block
	solTransparent []*token.Token // buffered tokens that keep start-of-line status
	heldSpace      *token.Token   // the consumed indentation space, restorable on purge
	lastNewline    *token.Token   // held-back newline, emitted if the block does not continue
	preTSR         int            // source offset for the synthesized open tag, -1 if unknown
}

// New creates a machine in its initial state.
func New(log *slog.Logger) *Machine {
	return &Machine{log: log, state: StartOfLine, preTSR: -1}
}

// Register installs the machine into a tokenizer pipeline as its two hooked
// transforms.
func (m *Machine) Register(p *tokenizer.Pipeline) {
	p.AddTransform(tokenizer.HookNewline, newlineRank, m.Step)
	p.AddTransform(tokenizer.HookAny, anyRank, m.Step)
}

// Apply runs a fresh machine over the given token stream.
func Apply(log *slog.Logger, tokens []*token.Token) []*token.Token {
	var p tokenizer.Pipeline
	New(log).Register(&p)
	return p.Run(tokens)
}

// Step feeds one token into the machine and returns the tokens to emit
// downstream. Returned tokens are ranked so they are not processed again.
func (m *Machine) Step(tok *token.Token) []*token.Token {
	cl := token.Classify(tok)
	next, act := Transition(m.state, cl)
	var out []*token.Token
	switch act {
	case ActPass:
		out = []*token.Token{tok}
	case ActPurge:
		out = m.purge(tok)
	case ActHold:
		m.preTSR = -1
		if tsr := tok.Src.TSR; tsr != nil {
			m.preTSR = tsr.Start
		}
		space, rest := splitIndent(tok)
		m.heldSpace = space
		m.state = next
		if rest != nil {
			return m.Step(rest)
		}
		return nil
	case ActBuffer:
		m.solTransparent = append(m.solTransparent, tok)
	case ActAccumulate:
		// Buffered sol-transparent tokens become part of the block when
		// content follows them.
		m.tokens = append(m.tokens, m.solTransparent...)
		m.solTransparent = nil
		m.tokens = append(m.tokens, tok)
	case ActHoldNewline:
		m.lastNewline = tok
	case ActReleaseNewline:
		m.tokens = append(m.tokens, m.solTransparent...)
		m.solTransparent = nil
		m.tokens = append(m.tokens, m.lastNewline)
		m.lastNewline = nil
		_, rest := splitIndent(tok) // continuation indent is consumed for good
		m.state = next
		if rest != nil {
			return m.Step(rest)
		}
		return nil
	case ActCloseBlock:
		out = m.closeBlock(tok)
	case ActReset:
		m.log.Error("unexpected automaton input, forcing reset",
			"state", m.state, "class", cl, "kind", tok.Kind)
		out = m.purge(tok)
	}
	m.state = next
	mark(out)
	return out
}

// purge releases everything buffered, unchanged and in order: the restored
// indentation space, accumulated content, pending sol-transparent tokens,
// then the triggering token.
func (m *Machine) purge(trigger *token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(m.tokens)+len(m.solTransparent)+3)
	if m.heldSpace != nil {
		out = append(out, m.heldSpace)
	}
	out = append(out, m.tokens...)
	out = append(out, m.solTransparent...)
	if m.lastNewline != nil {
		out = append(out, m.lastNewline)
	}
	out = append(out, trigger)
	m.reset()
	return out
}

// closeBlock wraps the accumulated tokens in a synthesized pre tag pair. The
// open tag reports the offset of the consumed indentation space.
func (m *Machine) closeBlock(trigger *token.Token) []*token.Token {
	open := token.MakeOpen("pre")
	if m.preTSR >= 0 {
		open.WithTSR(m.preTSR, m.preTSR+1)
	} else {
		m.log.Warn("literal block without source offset", "tokens", len(m.tokens))
	}
	closing := token.MakeClose("pre")
	if tsr := trigger.Src.TSR; tsr != nil {
		closing.WithTSR(tsr.Start, tsr.Start)
	}
	out := make([]*token.Token, 0, len(m.tokens)+len(m.solTransparent)+4)
	out = append(out, open)
	out = append(out, m.tokens...)
	out = append(out, closing)
	out = append(out, m.solTransparent...)
	if m.lastNewline != nil {
		out = append(out, m.lastNewline)
	}
	out = append(out, trigger)
	m.reset()
	return out
}

func (m *Machine) reset() {
	m.tokens = nil
	m.solTransparent = nil
	m.heldSpace = nil
	m.lastNewline = nil
	m.preTSR = -1
}

// splitIndent takes the one indentation space off a leading-whitespace text
// token. The remainder, if any, is re-fed into the machine as a fresh token.
func splitIndent(tok *token.Token) (space, rest *token.Token) {
	space = token.MakeText(" ")
	if tsr := tok.Src.TSR; tsr != nil {
		space.WithTSR(tsr.Start, tsr.Start+1)
		if len(tok.Text) > 1 {
			rest = token.MakeText(tok.Text[1:]).WithTSR(tsr.Start+1, tsr.End)
		}
	} else if len(tok.Text) > 1 {
		rest = token.MakeText(tok.Text[1:])
	}
	return space, rest
}

func mark(tokens []*token.Token) {
	for _, t := range tokens {
		if t.Rank < anyRank {
			t.Rank = anyRank
		}
	}
}

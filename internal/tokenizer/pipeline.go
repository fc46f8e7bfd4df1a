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

package tokenizer

// pipeline runs hooked token transforms over the raw token stream.

import (
	"sort"

	"wikiround.de/w/internal/token"
)

// TransformFunc rewrites one token into zero or more replacement tokens.
type TransformFunc func(*token.Token) []*token.Token

// HookKind selects which tokens a transform fires on.
type HookKind uint8

// Values for HookKind.
const (
	HookNewline HookKind = iota // fires on every newline token
	HookAny                     // fires on every other token
)

type hook struct {
	kind HookKind
	rank float64
	fn   TransformFunc
}

// Pipeline applies registered transforms to a token stream, in rank order
// per token. Tokens whose rank is at least a hook's rank skip that hook, so
// a transform can emit tokens that are not processed again.
type Pipeline struct {
	hooks []hook
}

// AddTransform registers a transform with the given rank.
func (p *Pipeline) AddTransform(kind HookKind, rank float64, fn TransformFunc) {
	p.hooks = append(p.hooks, hook{kind: kind, rank: rank, fn: fn})
	sort.SliceStable(p.hooks, func(i, j int) bool { return p.hooks[i].rank < p.hooks[j].rank })
}

func (h *hook) matches(t *token.Token) bool {
	if t.Rank >= h.rank {
		return false
	}
	if h.kind == HookNewline {
		return t.Kind == token.KindNewline
	}
	return t.Kind != token.KindNewline
}

// Run feeds every token through the registered transforms and returns the
// rewritten stream.
func (p *Pipeline) Run(tokens []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(tokens))
	for _, t := range tokens {
		cur := []*token.Token{t}
		for i := range p.hooks {
			h := &p.hooks[i]
			var next []*token.Token
			for _, c := range cur {
				if h.matches(c) {
					next = append(next, h.fn(c)...)
				} else {
					next = append(next, c)
				}
			}
			cur = next
		}
		out = append(out, cur...)
	}
	return out
}

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

package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"wikiround.de/w/internal/dom"
	"wikiround.de/w/internal/markdown"
	"wikiround.de/w/internal/preblock"
	"wikiround.de/w/internal/serializer"
	"wikiround.de/w/internal/token"
	"wikiround.de/w/internal/tokenizer"
)

// ---------- Subcommand: file -----------------------------------------------

// cmdFile converts a single document. Annotated HTML and markdown become
// wikitext; wikitext input is analyzed into its token stream.
func cmdFile(fs *flag.FlagSet) (int, error) {
	syntax := fs.Lookup("s").Value.String()
	src, err := getInput(fs.Args())
	if err != nil {
		return 2, err
	}
	cfg := getConfig(fs)
	log := newLogger(cfg)

	switch syntax {
	case "html":
		body, errPrep := dom.Prepare(bytes.NewReader(src))
		if errPrep != nil {
			return 2, errPrep
		}
		if err = serializer.SerializeToWriter(log, dom.Tokens(log, body), os.Stdout); err != nil {
			return 2, err
		}
		fmt.Println()
	case "markdown":
		// Streamed untrimmed: the output keeps its own final newline.
		err = markdown.ConvertTo(log, src,
			func(chunk string) { _, _ = io.WriteString(os.Stdout, chunk) })
		if err != nil {
			return 2, err
		}
	case "wikitext":
		toks := preblock.Apply(log, tokenizer.Tokenize(string(src)))
		fmt.Println(token.Sz(toks).String())
	default:
		fmt.Fprintf(os.Stderr, "Unknown input syntax %q\n", syntax)
		return 2, nil
	}
	return 0, nil
}

func getInput(args []string) ([]byte, error) {
	if len(args) < 1 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

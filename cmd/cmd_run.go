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
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"wikiround.de/w/internal/logging"
	"wikiround.de/w/internal/store"
	"wikiround.de/w/internal/web/adapter/api"
	"wikiround.de/w/internal/web/server"
)

// ---------- Subcommand: run ------------------------------------------------

func flgRun(fs *flag.FlagSet) {
	fs.Uint("p", 23123, "port number web service")
	fs.String("d", "./pages", "page directory")
	fs.Bool("debug", false, "debug mode")
}

func runFunc(fs *flag.FlagSet) (int, error) {
	cfg := getConfig(fs)
	log := newLogger(cfg)

	pageDir := cfg.GetDefault(keyPageDir, "./pages")
	if err := os.MkdirAll(pageDir, 0750); err != nil {
		return 1, err
	}
	st, err := store.Open(log.With("system", "store"), pageDir)
	if err != nil {
		return 1, err
	}
	defer st.Close()

	maxRequestSize := int64(0)
	if val := cfg.GetDefault(keyMaxRequestSize, ""); val != "" {
		if size, errParse := strconv.ParseInt(val, 10, 64); errParse == nil {
			maxRequestSize = size
		} else {
			log.Warn("ignoring invalid max-request-size", "value", val)
		}
	}

	webLog := log.With("system", "web")
	srv := server.New(server.Config{
		Log:            webLog,
		ListenAddr:     cfg.GetDefault(keyListenAddr, "127.0.0.1:23123"),
		MaxRequestSize: maxRequestSize,
	})
	setupRouting(srv, api.New(webLog, st))

	if err = srv.Run(); err != nil {
		return 1, err
	}
	logging.LogMandatory(log, "start server", "addr", cfg.GetDefault(keyListenAddr, "127.0.0.1:23123"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logging.LogMandatory(log, "shut down server", "signal", sig.String())
	srv.Stop()
	return 0, nil
}

func setupRouting(srv *server.Server, a *api.API) {
	srv.Handle("GET /pages", a.MakeListPagesHandler())
	srv.Handle("GET /page/{title}", a.MakeGetPageHandler())
	srv.Handle("PUT /page/{title}", a.MakeUpdatePageHandler())
	srv.Handle("GET /page/{title}/tokens", a.MakeGetTokensHandler())
	srv.Handle("POST /transform/html", a.MakeTransformHTMLHandler())
	srv.Handle("POST /transform/markdown", a.MakeTransformMarkdownHandler())
}

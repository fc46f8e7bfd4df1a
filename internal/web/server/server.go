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

// Package server provides the Wikiround web service.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"t73f.de/r/webs/middleware"
	"t73f.de/r/webs/middleware/logging"
	"t73f.de/r/webs/middleware/reqid"
)

// Config contains the data needed to configure a server.
type Config struct {
	Log            *slog.Logger
	ListenAddr     string
	MaxRequestSize int64
}

// Server is the web server for accessing Wikiround via HTTP.
type Server struct {
	log        *slog.Logger
	mux        *http.ServeMux
	httpServer http.Server
}

// New creates a new web server.
func New(cfg Config) *Server {
	srv := Server{log: cfg.Log, mux: http.NewServeMux()}

	mwReqID := reqid.Config{WithContext: true}
	mwLogReq := logging.ReqConfig{
		Logger: cfg.Log, Level: slog.LevelDebug,
		Message: "ServeHTTP", WithRequestID: true, WithRemote: true}
	mwLogResp := logging.RespConfig{Logger: cfg.Log, Level: slog.LevelDebug,
		Message: "/ServeHTTP", WithRequestID: true}
	mw := middleware.NewChain(mwReqID.Build(), mwLogReq.Build(), mwLogResp.Build())

	var handler http.Handler = srv.mux
	if cfg.MaxRequestSize > 0 {
		handler = limitRequestSize(cfg.MaxRequestSize, handler)
	}

	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":http"
	}
	srv.httpServer = http.Server{
		Addr:    addr,
		Handler: middleware.Apply(mw, handler),
	}
	return &srv
}

// Handle registers a handler for the given pattern.
func (srv *Server) Handle(pattern string, handler http.Handler) {
	srv.mux.Handle(pattern, handler)
}

// Run starts the web server, but does not wait for its completion.
func (srv *Server) Run() error {
	ln, err := net.Listen("tcp", srv.httpServer.Addr)
	if err != nil {
		return err
	}
	go func() { _ = srv.httpServer.Serve(ln) }()
	return nil
}

const shutdownTimeout = 5 * time.Second

// Stop the web server.
func (srv *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.httpServer.Shutdown(ctx)
}

func limitRequestSize(maxSize int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		next.ServeHTTP(w, r)
	})
}

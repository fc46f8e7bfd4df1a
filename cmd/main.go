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

// Package cmd provides the commands to call Wikiround from the command line.
package cmd

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/term"

	"wikiround.de/w/internal/logging"
)

func init() {
	RegisterCommand(Command{
		Name: "help",
		Func: func(*flag.FlagSet) (int, error) {
			fmt.Println("Available commands:")
			for _, name := range List() {
				fmt.Printf("- %q\n", name)
			}
			return 0, nil
		},
	})
	RegisterCommand(Command{
		Name:   "version",
		Func:   func(*flag.FlagSet) (int, error) { return 0, nil },
		Header: true,
	})
	RegisterCommand(Command{
		Name:     "run",
		Func:     runFunc,
		Header:   true,
		SetFlags: flgRun,
	})
	RegisterCommand(Command{
		Name: "file",
		Func: cmdFile,
		SetFlags: func(fs *flag.FlagSet) {
			fs.String("s", "html", "input syntax (html, markdown, wikitext)")
		},
	})
}

// Config keys, as they appear in the configuration file.
const (
	keyListenAddr     = "listen-addr"
	keyLogLevel       = "log-level"
	keyMaxRequestSize = "max-request-size"
	keyPageDir        = "page-dir"
)

type configuration map[string]string

func (cfg configuration) GetDefault(key, def string) string {
	if val, ok := cfg[key]; ok {
		return val
	}
	return def
}

func fetchStartupConfiguration(fs *flag.FlagSet) configuration {
	if configFlag := fs.Lookup("c"); configFlag != nil {
		if filename := configFlag.Value.String(); filename != "" {
			content, err := os.ReadFile(filename)
			return createConfiguration(content, err)
		}
	}
	for _, filename := range []string{"wikiround.cfg", "wrconfig.txt", ".wrcfg"} {
		if content, err := os.ReadFile(filename); err == nil {
			return createConfiguration(content, nil)
		}
	}
	return configuration{}
}

// createConfiguration parses lines of the form "key: value". Unknown keys are
// kept, lines without a colon and comment lines are skipped.
func createConfiguration(content []byte, err error) configuration {
	cfg := configuration{}
	if err != nil {
		return cfg
	}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		key, val, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		cfg[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return cfg
}

func getConfig(fs *flag.FlagSet) configuration {
	cfg := fetchStartupConfiguration(fs)
	fs.Visit(func(flg *flag.Flag) {
		switch flg.Name {
		case "p":
			cfg[keyListenAddr] = net.JoinHostPort("127.0.0.1", flg.Value.String())
		case "d":
			cfg[keyPageDir] = flg.Value.String()
		case "l":
			cfg[keyLogLevel] = flg.Value.String()
		case "debug":
			cfg[keyLogLevel] = logging.LevelString(slog.LevelDebug)
		}
	})
	return cfg
}

// newLogger builds the program logger. Terminals get the text handler,
// everything else structured JSON.
func newLogger(cfg configuration) *slog.Logger {
	level := slog.LevelInfo
	if val := cfg.GetDefault(keyLogLevel, ""); val != "" {
		if parsed := logging.ParseLevel(val); parsed != logging.LevelMissing {
			level = parsed
		} else {
			fmt.Fprintf(os.Stderr, "Unknown log level %q, using %q\n",
				val, logging.LevelString(level))
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		// Aligned level names, and proper names for the extra levels.
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(logging.LevelStringPad(lvl))
				}
			}
			return a
		}
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func executeCommand(name string, args ...string) int {
	command, ok := Get(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", name)
		return 1
	}
	fs := command.GetFlags()
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to parse flags: %v %v\n", name, args, err)
		return 1
	}
	if command.Header {
		printHeader()
	}
	exitCode, err := command.Func(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
	}
	return exitCode
}

func printHeader() {
	fmt.Printf("%s %s\n", progName, fullVersion)
	fmt.Printf("%s, compiled with %s\n",
		runtime.GOOS+"/"+runtime.GOARCH, runtime.Version())
}

var (
	progName    string
	fullVersion string
)

// Main is the real entrypoint of Wikiround.
func Main(name, buildVersion string) int {
	info := retrieveVCSInfo(buildVersion)
	progName = name
	fullVersion = info.revision
	if info.dirty {
		fullVersion += "-dirty"
	}
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		return executeCommand("run")
	}
	return executeCommand(args[0], args[1:]...)
}

type vcsInfo struct {
	revision string
	dirty    bool
	time     time.Time
}

func retrieveVCSInfo(version string) vcsInfo {
	buildTime := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return vcsInfo{revision: version, dirty: false, time: buildTime}
	}
	result := vcsInfo{revision: version, time: buildTime}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			revision := "+" + kv.Value
			if len(revision) > 11 {
				revision = revision[:11]
			}
			result.revision = version + revision
		case "vcs.modified":
			if kv.Value == "true" {
				result.dirty = true
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, kv.Value); err == nil {
				result.time = t
			}
		}
	}
	return result
}

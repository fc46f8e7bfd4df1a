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

// Package store keeps wiki pages as files in one directory.
//
// The store maintains an in-memory index of page titles and content digests.
// A file system watcher keeps the index fresh when files change behind the
// store's back; writes through the store are atomic.
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/renameio"
	"golang.org/x/crypto/blake2b"

	"wikiround.de/w/internal/logging"
)

// Extension of page files.
const Extension = ".wiki"

// ErrNotFound is returned when a page does not exist.
var ErrNotFound = errors.New("page not found")

// ErrInvalidTitle is returned for titles that cannot name a page file.
var ErrInvalidTitle = errors.New("invalid page title")

// Store is a directory-backed page store. It is safe for concurrent use.
type Store struct {
	log     *slog.Logger
	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}

	mx    sync.RWMutex
	index map[string]string // title -> content digest, hex encoded
}

// Open creates a store for the given directory and starts watching it.
func Open(log *slog.Logger, dir string) (*Store, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(absDir, 0750); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = watcher.Add(absDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	s := &Store{
		log:     log,
		dir:     absDir,
		watcher: watcher,
		done:    make(chan struct{}),
		index:   make(map[string]string),
	}
	if err = s.Rescan(); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	go s.eventLoop()
	return s, nil
}

// Close stops the watcher.
func (s *Store) Close() {
	close(s.done)
	_ = s.watcher.Close()
}

// Rescan rebuilds the index from the directory content.
func (s *Store) Rescan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	index := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		title := strings.TrimSuffix(entry.Name(), Extension)
		digest, err := digestFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.log.Warn("unable to digest page file", "name", entry.Name(), logging.Err(err))
			continue
		}
		index[title] = digest
	}
	s.mx.Lock()
	s.index = index
	s.mx.Unlock()
	return nil
}

// List returns all page titles, sorted.
func (s *Store) List() []string {
	s.mx.RLock()
	titles := make([]string, 0, len(s.index))
	for title := range s.index {
		titles = append(titles, title)
	}
	s.mx.RUnlock()
	slices.Sort(titles)
	return titles
}

// Get returns the content of a page together with its digest.
func (s *Store) Get(title string) ([]byte, string, error) {
	path, err := s.pagePath(title)
	if err != nil {
		return nil, "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, title)
		}
		return nil, "", err
	}
	return content, digest(content), nil
}

// Digest returns the indexed content digest of a page, usable as an ETag.
func (s *Store) Digest(title string) (string, bool) {
	s.mx.RLock()
	d, found := s.index[title]
	s.mx.RUnlock()
	return d, found
}

// Put stores the content of a page atomically and returns its new digest.
func (s *Store) Put(title string, content []byte) (string, error) {
	path, err := s.pagePath(title)
	if err != nil {
		return "", err
	}
	if err = renameio.WriteFile(path, content, 0640); err != nil {
		return "", err
	}
	d := digest(content)
	s.mx.Lock()
	s.index[title] = d
	s.mx.Unlock()
	return d, nil
}

func (s *Store) pagePath(title string) (string, error) {
	if title == "" || title == "." || title == ".." ||
		strings.ContainsAny(title, "/\\") || strings.HasPrefix(title, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidTitle, title)
	}
	return filepath.Join(s.dir, title+Extension), nil
}

func digest(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func digestFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return digest(content), nil
}

func (s *Store) eventLoop() {
	for s.readAndProcessEvent() {
	}
}

func (s *Store) readAndProcessEvent() bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case <-s.done:
		return false
	case err, ok := <-s.watcher.Errors:
		if !ok {
			return false
		}
		s.log.Warn("watcher error", logging.Err(err))
	case ev, ok := <-s.watcher.Events:
		if !ok {
			return false
		}
		s.processEvent(&ev)
	}
	return true
}

func (s *Store) processEvent(ev *fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, Extension) {
		logging.LogTrace(s.log, "event does not match", "name", ev.Name, "op", ev.Op)
		return
	}
	title := strings.TrimSuffix(name, Extension)
	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		if fi, err := os.Lstat(ev.Name); err != nil || !fi.Mode().IsRegular() {
			logging.LogTrace(s.log, "not a regular file", "name", ev.Name, "op", ev.Op)
			return
		}
		d, err := digestFile(ev.Name)
		if err != nil {
			s.log.Warn("unable to digest page file", "name", ev.Name, logging.Err(err))
			return
		}
		logging.LogTrace(s.log, "page updated", "title", title, "op", ev.Op)
		s.mx.Lock()
		s.index[title] = d
		s.mx.Unlock()
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		logging.LogTrace(s.log, "page removed", "title", title, "op", ev.Op)
		s.mx.Lock()
		delete(s.index, title)
		s.mx.Unlock()
	default:
		logging.LogTrace(s.log, "event ignored", "name", ev.Name, "op", ev.Op)
	}
}

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

package dom

import (
	"errors"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoBody is returned when a document has no body element.
var ErrNoBody = errors.New("document without body")

// Prepare parses an HTML document and returns its body element, ready for
// the walker. Section containers are structural only and are unwrapped, so
// the serializer sees their content directly.
func Prepare(r io.Reader) (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, ErrNoBody
	}
	for body.Find("section").Length() > 0 {
		body.Find("section").Each(func(_ int, s *goquery.Selection) {
			if c := s.Contents(); c.Length() > 0 {
				c.Unwrap()
			} else {
				s.Remove()
			}
		})
	}
	return body.Nodes[0], nil
}

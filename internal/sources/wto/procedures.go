// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package wto

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// parseProcedures extracts procedure rows from the first table of a member
// page. Rows with fewer than five cells are skipped.
func parseProcedures(r io.Reader) ([]Procedure, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, nil
	}

	var procedures []Procedure
	for _, row := range findElements(table, "tr") {
		var cells []string
		for _, cell := range findElements(row, "td") {
			cells = append(cells, nodeText(cell))
		}
		if len(cells) < 5 {
			continue
		}
		procedures = append(procedures, Procedure{
			ID:             cells[0],
			DateInfo:       cells[1],
			Type:           cells[2],
			Status:         cells[3],
			Certifications: cells[4],
		})
	}
	return procedures, nil
}

// findElement returns the first element with the given tag, depth-first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// findElements returns all elements with the given tag below n, depth-first.
func findElements(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			nodes = append(nodes, child)
			continue
		}
		nodes = append(nodes, findElements(child, tag)...)
	}
	return nodes
}

// nodeText concatenates the text content below n, whitespace-collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

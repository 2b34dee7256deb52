// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package cache

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Pattern is a keyword with associated data.
type Pattern struct {
	Text string
	Data any
}

// Match is one occurrence of a pattern in a searched text.
type Match struct {
	Pattern  string
	Data     any
	Index    int // registration index of the pattern
	Position int // byte offset of the match in the lower-cased text
}

// AhoCorasick finds every occurrence of a fixed keyword set in one pass,
// O(n + m + z) for text length n, total pattern length m and z matches.
// Matching is case-insensitive.
type AhoCorasick struct {
	root     *acNode
	patterns []Pattern
	lengths  []int
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// NewAhoCorasick builds an automaton over patterns. Empty pattern texts are
// skipped but keep their registration index.
func NewAhoCorasick(patterns []Pattern) *AhoCorasick {
	ac := &AhoCorasick{
		root:     newACNode(),
		patterns: patterns,
		lengths:  make([]int, len(patterns)),
	}
	for i, p := range patterns {
		if p.Text == "" {
			continue
		}
		ac.insert(i, strings.ToLower(p.Text))
	}
	ac.buildFailureLinks()
	return ac
}

// NewAhoCorasickFromStrings builds an automaton where every keyword carries
// the same data value.
func NewAhoCorasickFromStrings(keywords []string, data any) *AhoCorasick {
	patterns := make([]Pattern, len(keywords))
	for i, k := range keywords {
		patterns[i] = Pattern{Text: k, Data: data}
	}
	return NewAhoCorasick(patterns)
}

func (ac *AhoCorasick) insert(index int, text string) {
	node := ac.root
	for _, ch := range text {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, index)
	ac.lengths[index] = len(text)
}

// buildFailureLinks walks the trie breadth-first so each node's failure
// link points at its longest proper suffix that is also a trie path.
func (ac *AhoCorasick) buildFailureLinks() {
	queue := make([]*acNode, 0, len(ac.root.children))
	for _, child := range ac.root.children {
		child.failure = ac.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = ac.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// Search returns every match in text, ordered by end position.
func (ac *AhoCorasick) Search(text string) []Match {
	var matches []Match
	ac.scan(text, func(m Match) bool {
		matches = append(matches, m)
		return true
	})
	return matches
}

// First returns the match with the lowest registration index. Table order,
// not position in the text, decides between several matching keywords.
func (ac *AhoCorasick) First(text string) (Match, bool) {
	var (
		best  Match
		found bool
	)
	ac.scan(text, func(m Match) bool {
		if !found || m.Index < best.Index {
			best, found = m, true
		}
		return best.Index != 0
	})
	return best, found
}

// Contains reports whether any keyword occurs in text.
func (ac *AhoCorasick) Contains(text string) bool {
	found := false
	ac.scan(text, func(Match) bool {
		found = true
		return false
	})
	return found
}

// Matched returns the distinct registration indexes that matched, ascending.
func (ac *AhoCorasick) Matched(text string) []int {
	seen := make(map[int]bool)
	ac.scan(text, func(m Match) bool {
		seen[m.Index] = true
		return true
	})
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// PatternCount returns the number of registered patterns.
func (ac *AhoCorasick) PatternCount() int {
	return len(ac.patterns)
}

// scan feeds matches to yield until it returns false.
func (ac *AhoCorasick) scan(text string, yield func(Match) bool) {
	if len(ac.patterns) == 0 || text == "" {
		return
	}
	text = strings.ToLower(text)

	node := ac.root
	for i, ch := range text {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = ac.root
			continue
		}
		node = node.children[ch]

		end := i + utf8.RuneLen(ch)
		for _, idx := range node.output {
			m := Match{
				Pattern:  ac.patterns[idx].Text,
				Data:     ac.patterns[idx].Data,
				Index:    idx,
				Position: end - ac.lengths[idx],
			}
			if !yield(m) {
				return
			}
		}
	}
}

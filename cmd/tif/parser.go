package main

import (
	"strings"

	"github.com/jedharris/text-game-sub000/internal/protocol"
	"github.com/jedharris/text-game-sub000/internal/types"
)

// parser turns a typed line into a command message using the engine's
// merged vocabulary. This is deliberately simple: verb [adjective] object
// [preposition [indirect]]. The engine accepts structured commands from any
// external parser; this one just has to be good enough for terminal play.
type parser struct {
	verbs        map[string]string // surface word -> canonical verb
	articles     map[string]bool
	prepositions map[string]bool
	adjectives   map[string]bool
	directions   map[string]bool
}

func newParser(vocab map[string]any) *parser {
	p := &parser{
		verbs:        map[string]string{},
		articles:     map[string]bool{},
		prepositions: map[string]bool{},
		adjectives:   map[string]bool{},
		directions:   map[string]bool{},
	}
	if verbs, ok := vocab["verbs"].([]map[string]any); ok {
		for _, v := range verbs {
			word, _ := v["word"].(string)
			if word == "" {
				continue
			}
			p.verbs[word] = word
			if syns, ok := v["synonyms"].([]string); ok {
				for _, s := range syns {
					p.verbs[s] = word
				}
			}
		}
	}
	fill := func(set map[string]bool, key string) {
		if list, ok := vocab[key].([]string); ok {
			for _, w := range list {
				set[w] = true
			}
		}
	}
	fill(p.articles, "articles")
	fill(p.prepositions, "prepositions")
	fill(p.adjectives, "adjectives")
	fill(p.directions, "directions")
	return p
}

// parse returns nil when the line is empty.
func (p *parser) parse(line string) *protocol.Message {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	var tokens []string
	for _, f := range fields {
		if !p.articles[f] {
			tokens = append(tokens, f)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	action := &types.Action{}

	// A bare direction is implicit movement.
	if len(tokens) == 1 && p.directions[tokens[0]] {
		action.Verb = "go"
		action.Object = &types.Word{Word: tokens[0]}
		return &protocol.Message{Type: "command", Action: action}
	}

	verb, known := p.verbs[tokens[0]]
	if !known {
		verb = tokens[0] // let the engine report the unknown verb
	}
	action.Verb = verb
	rest := tokens[1:]

	// "look at sword" drops the preposition before the object.
	if len(rest) > 0 && p.prepositions[rest[0]] {
		action.Preposition = rest[0]
		rest = rest[1:]
	}

	// Split at the next preposition: direct phrase, then indirect phrase.
	var direct, indirect []string
	direct = rest
	for i, tok := range rest {
		if p.prepositions[tok] {
			action.Preposition = tok
			direct = rest[:i]
			indirect = rest[i+1:]
			action.RawAfterPreposition = strings.Join(indirect, " ")
			break
		}
	}

	action.Adjective, action.Object = p.phrase(direct)
	if len(indirect) > 0 {
		_, action.IndirectObject = p.phrase(indirect)
	}
	return &protocol.Message{Type: "command", Action: action}
}

// phrase splits a noun phrase into an optional adjective and the head noun.
func (p *parser) phrase(tokens []string) (string, *types.Word) {
	if len(tokens) == 0 {
		return "", nil
	}
	noun := tokens[len(tokens)-1]
	adjective := ""
	if len(tokens) > 1 {
		adjective = tokens[len(tokens)-2]
	}
	return adjective, &types.Word{Word: noun}
}

package behavior

import "sort"

// BaseVocabulary is the engine-default contribution merged under every
// module: articles, the prepositions the core handlers understand, and the
// compass words.
func BaseVocabulary() Vocabulary {
	return Vocabulary{
		Articles:     []string{"a", "an", "the"},
		Prepositions: []string{"in", "on", "into", "onto", "under", "with", "to", "from", "at"},
		Directions: []string{
			"north", "south", "east", "west",
			"northeast", "northwest", "southeast", "southwest",
			"up", "down",
		},
	}
}

// MergedVocabulary combines the base vocabulary with every registered
// module's, in load order. Verb entries are merged by word with later
// modules winning on synonyms and object_required; noun, adjective,
// preposition, direction and article lists are deduplicated preserving
// first-seen order.
func (r *Registry) MergedVocabulary(base Vocabulary) Vocabulary {
	out := Vocabulary{}

	verbIndex := map[string]int{}
	mergeVerbs := func(verbs []VerbDef) {
		for _, v := range verbs {
			if idx, seen := verbIndex[v.Word]; seen {
				out.Verbs[idx] = v // later module wins
				continue
			}
			verbIndex[v.Word] = len(out.Verbs)
			out.Verbs = append(out.Verbs, v)
		}
	}
	mergeVerbs(base.Verbs)
	out.Nouns = dedupe(nil, base.Nouns)
	out.Adjectives = dedupe(nil, base.Adjectives)
	out.Prepositions = dedupe(nil, base.Prepositions)
	out.Directions = dedupe(nil, base.Directions)
	out.Articles = dedupe(nil, base.Articles)

	for _, m := range r.modules {
		mergeVerbs(m.Vocabulary.Verbs)
		out.Nouns = dedupe(out.Nouns, m.Vocabulary.Nouns)
		out.Adjectives = dedupe(out.Adjectives, m.Vocabulary.Adjectives)
		out.Prepositions = dedupe(out.Prepositions, m.Vocabulary.Prepositions)
		out.Directions = dedupe(out.Directions, m.Vocabulary.Directions)
		out.Articles = dedupe(out.Articles, m.Vocabulary.Articles)
	}
	return out
}

// VocabularyDocument renders the merged vocabulary as the JSON-shaped map
// handed to the external parser.
func (r *Registry) VocabularyDocument(base Vocabulary) map[string]any {
	v := r.MergedVocabulary(base)
	verbs := make([]map[string]any, 0, len(v.Verbs))
	for _, vd := range v.Verbs {
		rec := map[string]any{"word": vd.Word}
		if len(vd.Synonyms) > 0 {
			syns := append([]string(nil), vd.Synonyms...)
			sort.Strings(syns)
			rec["synonyms"] = syns
		}
		if vd.ObjectRequired {
			rec["object_required"] = true
		}
		verbs = append(verbs, rec)
	}
	return map[string]any{
		"verbs":        verbs,
		"nouns":        emptyAsList(v.Nouns),
		"adjectives":   emptyAsList(v.Adjectives),
		"prepositions": emptyAsList(v.Prepositions),
		"directions":   emptyAsList(v.Directions),
		"articles":     emptyAsList(v.Articles),
	}
}

func dedupe(dst, src []string) []string {
	seen := map[string]bool{}
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}

func emptyAsList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

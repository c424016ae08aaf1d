package types

import (
	"encoding/json"
	"fmt"
)

// Word is a surface token from the parser, with any synonyms the parser's
// vocabulary attached to it. Command messages may also carry a bare string
// where a word is expected; UnmarshalJSON promotes those.
type Word struct {
	Word     string   `json:"word"`
	WordType string   `json:"word_type,omitempty"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// UnmarshalJSON accepts either a full word record or a bare string.
func (w *Word) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = Word{Word: s}
		return nil
	}
	type raw Word
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("word record: %w", err)
	}
	*w = Word(r)
	return nil
}

// Action is the structured command the external parser produces. ActorID
// defaults to "player" when the protocol handler fills it in.
type Action struct {
	Verb                string `json:"verb"`
	Object              *Word  `json:"object,omitempty"`
	Adjective           string `json:"adjective,omitempty"`
	IndirectObject      *Word  `json:"indirect_object,omitempty"`
	Preposition         string `json:"preposition,omitempty"`
	ActorID             string `json:"actor_id,omitempty"`
	RawAfterPreposition string `json:"raw_after_preposition,omitempty"`
}

// ObjectWord returns the surface form of the direct object, or "".
func (a *Action) ObjectWord() string {
	if a.Object == nil {
		return ""
	}
	return a.Object.Word
}

// IndirectWord returns the surface form of the indirect object, or "".
func (a *Action) IndirectWord() string {
	if a.IndirectObject == nil {
		return ""
	}
	return a.IndirectObject.Word
}

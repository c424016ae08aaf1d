package behavior

import (
	"fmt"
	"sort"
)

// Load registers modules in deterministic order: core before library before
// game, id-sorted within a source. Later sources override earlier ones on
// verb collisions, which is exactly the registration order Register
// implements.
func Load(reg *Registry, modules ...*Module) error {
	ordered := append([]*Module(nil), modules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Source != ordered[j].Source {
			return ordered[i].Source < ordered[j].Source
		}
		return ordered[i].ID < ordered[j].ID
	})
	for _, m := range ordered {
		if err := reg.Register(m); err != nil {
			return fmt.Errorf("load behavior modules: %w", err)
		}
	}
	return nil
}

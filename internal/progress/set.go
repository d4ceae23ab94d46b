package progress

import (
	"encoding/json"
	"slices"
)

// Set holds the identifiers of completed agenda entries.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(id string) {
	s[id] = struct{}{}
}

func (s Set) Remove(id string) {
	delete(s, id)
}

func (s Set) Len() int {
	return len(s)
}

// Slice returns the members in sorted order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Union adds every member of other to s and reports how many were new.
func (s Set) Union(other Set) int {
	added := 0
	for id := range other {
		if !s.Has(id) {
			s[id] = struct{}{}
			added++
		}
	}
	return added
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}

// Package tags provides the ordered, duplicate-free tag set carried by
// bibles and songs.
package tags

import "strings"

// Set is an ordered set of tags. Tags compare exactly after trimming
// surrounding whitespace; insertion order is preserved.
type Set []string

// Add inserts tag unless it is blank or already present. It reports whether
// the set changed.
func (s *Set) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.Contains(tag) {
		return false
	}
	*s = append(*s, tag)
	return true
}

// Contains reports whether tag is in the set.
func (s Set) Contains(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Remove deletes tag and reports whether it was present.
func (s *Set) Remove(tag string) bool {
	tag = strings.TrimSpace(tag)
	for i, t := range *s {
		if t == tag {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

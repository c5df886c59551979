package model

// NameSet is an insertion-ordered set of schema names. The zero value is
// ready to use.
type NameSet struct {
	order []string
	index map[string]struct{}
}

func NewNameSet(names ...string) *NameSet {
	s := &NameSet{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s *NameSet) Add(name string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.order = append(s.order, name)
}

func (s *NameSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

func (s *NameSet) Remove(name string) {
	if !s.Has(name) {
		return
	}
	delete(s.index, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Union adds every name of other, keeping first-seen order.
func (s *NameSet) Union(other *NameSet) {
	if other == nil {
		return
	}
	for _, n := range other.order {
		s.Add(n)
	}
}

func (s *NameSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Names returns a copy of the names in insertion order.
func (s *NameSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

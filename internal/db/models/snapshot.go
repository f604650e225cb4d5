package models

// Snapshot holds the four persisted collections as one unit. The reconciler
// consumes a current snapshot and produces the next one; the store reads and
// replaces the collections it contains.
type Snapshot struct {
	Users    []AppUser `json:"users"`
	Students []Student `json:"students"`
	Access   []Access  `json:"access"`
	Schools  []School  `json:"schools"`
}

// Clone returns a deep value copy of all four collections.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Users:    make([]AppUser, len(s.Users)),
		Students: make([]Student, len(s.Students)),
		Access:   make([]Access, len(s.Access)),
		Schools:  make([]School, len(s.Schools)),
	}

	for i, u := range s.Users {
		out.Users[i] = u.Clone()
	}

	for i, st := range s.Students {
		out.Students[i] = st.Clone()
	}

	for i, a := range s.Access {
		out.Access[i] = a.Clone()
	}

	for i, sc := range s.Schools {
		out.Schools[i] = sc.Clone()
	}

	return out
}

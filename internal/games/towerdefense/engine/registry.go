package engine

// Registry owns the towers and minions of one session. Both collections are
// kept in ascending ID order, which is also creation order.
type Registry struct {
	towers  []Tower
	minions []Minion
	nextID  EntityID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nextID: 1}
}

// NextID allocates a fresh entity ID.
func (r *Registry) NextID() EntityID {
	id := r.nextID
	r.nextID++
	return id
}

// AddTower inserts a tower. Its ID must come from NextID.
func (r *Registry) AddTower(t Tower) {
	r.towers = append(r.towers, t)
}

// RemoveTower deletes a tower by ID.
func (r *Registry) RemoveTower(id EntityID) (Tower, bool) {
	for i, t := range r.towers {
		if t.ID == id {
			r.towers = append(r.towers[:i], r.towers[i+1:]...)
			return t, true
		}
	}
	return Tower{}, false
}

// Tower returns a pointer to the stored tower for in-place updates.
func (r *Registry) Tower(id EntityID) (*Tower, bool) {
	for i := range r.towers {
		if r.towers[i].ID == id {
			return &r.towers[i], true
		}
	}
	return nil, false
}

// TowerAt returns the tower standing on c.
func (r *Registry) TowerAt(c Coord) (*Tower, bool) {
	for i := range r.towers {
		if r.towers[i].Pos == c {
			return &r.towers[i], true
		}
	}
	return nil, false
}

// Towers returns a copy of all towers in ID order.
func (r *Registry) Towers() []Tower {
	out := make([]Tower, len(r.towers))
	copy(out, r.towers)
	return out
}

// TowerCount returns the number of towers.
func (r *Registry) TowerCount() int {
	return len(r.towers)
}

// AddMinion inserts a minion. Its ID must come from NextID.
func (r *Registry) AddMinion(m Minion) {
	r.minions = append(r.minions, m)
}

// Minion returns a pointer to the stored minion for in-place updates.
func (r *Registry) Minion(id EntityID) (*Minion, bool) {
	for i := range r.minions {
		if r.minions[i].ID == id {
			return &r.minions[i], true
		}
	}
	return nil, false
}

// Minions returns a copy of every minion, corpses included.
func (r *Registry) Minions() []Minion {
	out := make([]Minion, len(r.minions))
	for i, m := range r.minions {
		out[i] = cloneMinion(m)
	}
	return out
}

// AliveMinions returns a copy of the minions that are not dead.
func (r *Registry) AliveMinions() []Minion {
	out := make([]Minion, 0, len(r.minions))
	for _, m := range r.minions {
		if !m.Dead {
			out = append(out, cloneMinion(m))
		}
	}
	return out
}

// AliveCount returns the number of living minions.
func (r *Registry) AliveCount() int {
	n := 0
	for _, m := range r.minions {
		if !m.Dead {
			n++
		}
	}
	return n
}

// AgeCorpses advances the time-since-death of dead minions.
func (r *Registry) AgeCorpses(dt float64) {
	for i := range r.minions {
		if r.minions[i].Dead {
			r.minions[i].DeadFor += dt
		}
	}
}

// PruneDead removes dead minions that have been dead for at least linger
// seconds and returns how many were removed.
func (r *Registry) PruneDead(linger float64) int {
	kept := r.minions[:0]
	removed := 0
	for _, m := range r.minions {
		if m.Dead && m.DeadFor >= linger {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	// clear the tail so removed effect slices can be collected
	for i := len(kept); i < len(r.minions); i++ {
		r.minions[i] = Minion{}
	}
	r.minions = kept
	return removed
}

// Clone returns a deep copy. The tick works on a clone and swaps it in only
// once the whole step has succeeded.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		towers:  make([]Tower, len(r.towers)),
		minions: make([]Minion, len(r.minions)),
		nextID:  r.nextID,
	}
	copy(out.towers, r.towers)
	for i, m := range r.minions {
		out.minions[i] = cloneMinion(m)
	}
	return out
}

func cloneMinion(m Minion) Minion {
	if m.Effects != nil {
		effects := make([]Effect, len(m.Effects))
		copy(effects, m.Effects)
		m.Effects = effects
	}
	return m
}

package engine

// InRange reports whether the minion's cell is within the tower's reach.
// RangeCells is the fast path; the Manhattan fallback gives the same answer.
func InRange(t Tower, m Minion) bool {
	cell := m.Pos.Floor()
	if t.RangeCells != nil {
		return t.RangeCells.Contains(cell)
	}
	return float64(t.Pos.Manhattan(cell)) <= t.Range
}

// Candidates returns the living minions within the tower's range, in the
// order given.
func Candidates(t Tower, minions []Minion) []Minion {
	var out []Minion
	for _, m := range minions {
		if m.Dead || !InRange(t, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SelectTarget picks the candidate furthest along the path. Equal progress
// goes to the lowest ID, i.e. the earliest spawned. A tower still cooling
// down selects nothing.
func SelectTarget(t Tower, minions []Minion) (Minion, bool) {
	if t.CurrentCooldown > 0 {
		return Minion{}, false
	}
	var best Minion
	found := false
	for _, m := range Candidates(t, minions) {
		if !found || m.PathIndex > best.PathIndex || (m.PathIndex == best.PathIndex && m.ID < best.ID) {
			best = m
			found = true
		}
	}
	return best, found
}

// TargetsFor returns the IDs the tower attacks this tick: every candidate
// for area towers, otherwise the selected target alone.
func TargetsFor(t Tower, minions []Minion) []EntityID {
	primary, ok := SelectTarget(t, minions)
	if !ok {
		return nil
	}
	if !t.Area {
		return []EntityID{primary.ID}
	}
	cands := Candidates(t, minions)
	ids := make([]EntityID, 0, len(cands))
	for _, m := range cands {
		ids = append(ids, m.ID)
	}
	return ids
}

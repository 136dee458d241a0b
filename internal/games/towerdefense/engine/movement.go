package engine

import "math"

// moveMinions walks every living minion toward its next waypoint by
// speed*dt. Reaching or passing the waypoint snaps onto it; leftover
// distance is dropped. A minion already on the exit escapes instead: it is
// marked dead without a reward and its ID is returned.
func moveMinions(reg *Registry, path Path, dt float64) []EntityID {
	var escaped []EntityID
	last := len(path) - 1

	for i := range reg.minions {
		m := &reg.minions[i]
		if m.Dead {
			continue
		}
		if m.PathIndex >= last {
			m.Dead = true
			m.Escaped = true
			escaped = append(escaped, m.ID)
			continue
		}

		next := path[m.PathIndex+1].Vec()
		dx := next.X - m.Pos.X
		dy := next.Y - m.Pos.Y
		dist := math.Hypot(dx, dy)
		step := m.Speed * dt

		if step >= dist {
			m.Pos = next
			m.PathIndex++
			continue
		}
		m.Pos.X += dx / dist * step
		m.Pos.Y += dy / dist * step
	}
	return escaped
}

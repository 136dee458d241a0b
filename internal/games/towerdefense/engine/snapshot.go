package engine

// WaveProgress is the spawn progress of the active wave.
type WaveProgress struct {
	Number  int
	Total   int // waves in the table
	Spawned int
	Count   int
}

// Snapshot is a read-only view of a session for renderers and tests.
type Snapshot struct {
	Tick     uint64
	Elapsed  float64
	Status   Status
	Money    int
	Lives    int
	Score    int
	Kills    int
	Selected TowerType
	Wave     WaveProgress
	Towers   []Tower
	Minions  []Minion // living and lingering corpses
	Stats    GridStats
}

// Snapshot captures the committed state.
func (s *Session) Snapshot() Snapshot {
	st := s.state
	return Snapshot{
		Tick:     st.Tick,
		Elapsed:  st.Elapsed,
		Status:   st.Status,
		Money:    st.Money,
		Lives:    st.Lives,
		Score:    st.Score,
		Kills:    st.Kills,
		Selected: s.selected,
		Wave: WaveProgress{
			Number:  st.Wave.Number,
			Total:   s.sim.director.Count(),
			Spawned: st.Wave.SpawnedCount,
			Count:   st.Wave.TotalCount,
		},
		Towers:  st.Registry.Towers(),
		Minions: st.Registry.Minions(),
		Stats:   ComputeGridStats(st.Grid),
	}
}

// Stats returns the cell counts of the board.
func (s *Session) Stats() GridStats {
	return ComputeGridStats(s.state.Grid)
}

package registry

import (
	"testing"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register(GameInfo{ID: "zz_stub", Description: "test board"}, func() Game {
		return &stubGame{id: "zz_stub"}
	})

	info, ok := Lookup("zz_stub")
	if !ok {
		t.Fatal("Lookup failed after Register")
	}
	if info.Title != "zz_stub" {
		t.Errorf("empty title should default to the ID, got %q", info.Title)
	}

	g, err := Create("zz_stub")
	if err != nil {
		t.Fatal(err)
	}
	if g.ID() != "zz_stub" {
		t.Errorf("created %q", g.ID())
	}

	if _, err := Create("zz_missing"); err == nil {
		t.Error("expected error for unknown id")
	}
	if Exists("zz_missing") {
		t.Error("Exists reported an unknown id")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(GameInfo{ID: "zz_dup"}, func() Game { return &stubGame{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register(GameInfo{ID: "zz_dup"}, func() Game { return &stubGame{id: "zz_dup"} })
}

func TestListSorted(t *testing.T) {
	Register(GameInfo{ID: "zz_b"}, func() Game { return &stubGame{id: "zz_b"} })
	Register(GameInfo{ID: "zz_a"}, func() Game { return &stubGame{id: "zz_a"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("List not sorted: %v", list)
		}
	}
}

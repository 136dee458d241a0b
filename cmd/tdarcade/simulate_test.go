package main

import (
	"testing"

	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense/engine"
)

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in      string
		want    placement
		wantErr bool
	}{
		{"Gunner@3,7", placement{engine.TowerGunner, 3, 7}, false},
		{"tesla@ 10 , 2", placement{engine.TowerTesla, 10, 2}, false},
		{"Flamethrower@0,0", placement{engine.TowerFlamethrower, 0, 0}, false},
		{"Gunner", placement{}, true},
		{"Gunner@3", placement{}, true},
		{"Cannon@1,1", placement{}, true},
		{"None@1,1", placement{}, true},
		{"Frost@a,1", placement{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePlacement(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePlacement(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePlacement(%q) = %+v, expected %+v", tt.in, got, tt.want)
			}
		})
	}
}

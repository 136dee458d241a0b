package core

// Action is a semantic input, decoupled from the physical key that
// produced it.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // cursor up
	ActionDown           // cursor down
	ActionLeft           // cursor left
	ActionRight          // cursor right
	ActionPlace          // build the selected tower under the cursor
	ActionUpgrade        // upgrade the tower under the cursor
	ActionSell           // sell the tower under the cursor
	ActionSelect1        // tower hotkeys, in tower order
	ActionSelect2
	ActionSelect3
	ActionSelect4
	ActionDeselect
	ActionStart // start the first wave
	ActionPause // toggle pause
	ActionRestart
	ActionQuit
	ActionBack
	ActionConfirm
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActionUp:       "Up",
	ActionDown:     "Down",
	ActionLeft:     "Left",
	ActionRight:    "Right",
	ActionPlace:    "Place",
	ActionUpgrade:  "Upgrade",
	ActionSell:     "Sell",
	ActionSelect1:  "Select1",
	ActionSelect2:  "Select2",
	ActionSelect3:  "Select3",
	ActionSelect4:  "Select4",
	ActionDeselect: "Deselect",
	ActionStart:    "Start",
	ActionPause:    "Pause",
	ActionRestart:  "Restart",
	ActionQuit:     "Quit",
	ActionBack:     "Back",
	ActionConfirm:  "Confirm",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// SelectActions lists the tower hotkey actions in order.
var SelectActions = []Action{ActionSelect1, ActionSelect2, ActionSelect3, ActionSelect4}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone returns an independent copy.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

package conversation

import (
	"testing"

	"github.com/hammamikhairi/recipeplus/internal/logger"
)

func TestParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewParser(log)

	tests := []struct {
		input    string
		wantType CommandType
		wantStep int
	}{
		// Next variants
		{"next", CmdNext, 0},
		{"N", CmdNext, 0},
		{"done", CmdNext, 0},
		{"", CmdNext, 0},
		{"   ", CmdNext, 0},

		// Back
		{"back", CmdBack, 0},
		{"prev", CmdBack, 0},
		{"b", CmdBack, 0},

		// Goto
		{"goto 3", CmdGoto, 3},
		{"go to 12", CmdGoto, 12},
		{"step 2", CmdGoto, 2},
		{"g4", CmdGoto, 4},
		{"7", CmdGoto, 7},

		// Others
		{"repeat", CmdRepeat, 0},
		{"what?", CmdRepeat, 0},
		{"timers", CmdTimers, 0},
		{"t", CmdTimers, 0},
		{"help", CmdHelp, 0},
		{"?", CmdHelp, 0},
		{"quit", CmdQuit, 0},
		{"q", CmdQuit, 0},

		// Unknown
		{"flambé the cat", CmdUnknown, 0},
		{"goto", CmdUnknown, 0},
		{"goto three", CmdUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := parser.Parse(tt.input)
			if cmd.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, cmd.Type, tt.wantType)
			}
			if cmd.Step != tt.wantStep {
				t.Errorf("input=%q: got step %d, want %d", tt.input, cmd.Step, tt.wantStep)
			}
		})
	}
}

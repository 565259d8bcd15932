package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genetics"
)

// CommandKind identifies a presentation request.
type CommandKind uint8

const (
	CmdTogglePause CommandKind = iota
	CmdSetSunLevel
	CmdSetTickDuration
	CmdAddTree
	CmdStep
)

// Command is a write request from the presentation layer. Only the fields
// for its Kind are read.
type Command struct {
	Kind     CommandKind
	Sun      int
	Duration time.Duration
	Genome   *genetics.Genome     // nil draws a random genome
	Position *components.Position // nil picks a random free ground column
}

// CommandQueue carries commands from input handling to the tick loop.
// Enqueue never blocks; a full queue drops the command.
type CommandQueue struct {
	ch chan Command
}

// NewCommandQueue creates a queue holding up to size commands.
func NewCommandQueue(size int) *CommandQueue {
	if size < 1 {
		size = 64
	}
	return &CommandQueue{ch: make(chan Command, size)}
}

// Enqueue adds cmd, dropping it if the queue is full.
func (q *CommandQueue) Enqueue(cmd Command) bool {
	if q == nil {
		return false
	}
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// Dequeue returns the next command, if any.
func (q *CommandQueue) Dequeue() (Command, bool) {
	if q == nil {
		return Command{}, false
	}
	select {
	case cmd := <-q.ch:
		return cmd, true
	default:
		return Command{}, false
	}
}

// Len returns the number of pending commands.
func (q *CommandQueue) Len() int {
	return len(q.ch)
}

// Commands returns the queue presentation code writes to.
func (g *Game) Commands() *CommandQueue {
	return g.commands
}

// drainCommands applies every pending command. Returns how many ticks were
// requested with CmdStep.
func (g *Game) drainCommands() int {
	steps := 0
	for {
		cmd, ok := g.commands.Dequeue()
		if !ok {
			return steps
		}
		switch cmd.Kind {
		case CmdTogglePause:
			g.paused = !g.paused
		case CmdSetSunLevel:
			g.SetSunLevel(cmd.Sun)
		case CmdSetTickDuration:
			g.SetTickDuration(cmd.Duration)
		case CmdAddTree:
			if _, err := g.AddTree(cmd.Genome, cmd.Position); err != nil {
				slog.Warn("add tree rejected", "error", err)
			}
		case CmdStep:
			steps++
		}
	}
}

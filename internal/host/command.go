package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-via/tally"
)

// Op is a command a user can type into a host shell.
type Op string

const (
	OpIncrement Op = "inc"
	OpDecrement Op = "dec"
	OpAdd       Op = "add"
	OpReset     Op = "reset"
	OpToggle    Op = "toggle"
	OpPause     Op = "pause"
	OpResume    Op = "resume"
	OpInterval  Op = "interval"
	OpShow      Op = "show"
	OpQuit      Op = "quit"
)

var aliases = map[string]Op{
	"+":     OpIncrement,
	"-":     OpDecrement,
	"r":     OpReset,
	"t":     OpToggle,
	"p":     OpPause,
	"s":     OpShow,
	"q":     OpQuit,
	"exit":  OpQuit,
	"start": OpResume,
	"stop":  OpPause,
}

var ErrEmptyCommand = errors.New("empty command")

// Command is a parsed input line.
type Command struct {
	Op    Op
	ID    string
	Delta int
	Every time.Duration
}

func (cmd Command) String() string {
	switch cmd.Op {
	case OpAdd:
		return fmt.Sprintf("%s %s %d", cmd.Op, cmd.ID, cmd.Delta)
	case OpInterval:
		return fmt.Sprintf("%s %s", cmd.Op, cmd.Every)
	}
	if cmd.ID != "" {
		return fmt.Sprintf("%s %s", cmd.Op, cmd.ID)
	}
	return string(cmd.Op)
}

// ParseCommand parses lines such as "inc A", "+", "add B -3", "reset",
// "interval 500ms" or "quit".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	name := strings.ToLower(fields[0])
	op, ok := aliases[name]
	if !ok {
		op = Op(name)
	}
	args := fields[1:]

	switch op {
	case OpIncrement, OpDecrement, OpReset:
		if len(args) > 1 {
			return Command{}, fmt.Errorf("%s takes at most one counter id", op)
		}
		cmd := Command{Op: op}
		if len(args) == 1 {
			cmd.ID = args[0]
		}
		return cmd, nil
	case OpAdd:
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: add ID N")
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, fmt.Errorf("add: invalid amount '%s'", args[1])
		}
		return Command{Op: op, ID: args[0], Delta: delta}, nil
	case OpInterval:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: interval DURATION")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			return Command{}, fmt.Errorf("interval: invalid duration '%s'", args[0])
		}
		return Command{Op: op, Every: d}, nil
	case OpToggle, OpPause, OpResume, OpShow, OpQuit:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", op)
		}
		return Command{Op: op}, nil
	default:
		return Command{}, fmt.Errorf("unknown command '%s'", fields[0])
	}
}

// Apply runs cmd against c. Increment and decrement without an id target the
// first declared counter; reset without an id resets every counter.
func Apply(c *tally.Counter, cmd Command) error {
	id := cmd.ID
	if id == "" {
		id = c.IDs()[0]
	}
	switch cmd.Op {
	case OpIncrement:
		return c.Increment(id)
	case OpDecrement:
		return c.Decrement(id)
	case OpAdd:
		return c.Add(id, cmd.Delta)
	case OpReset:
		if cmd.ID == "" {
			c.ResetAll()
			return nil
		}
		return c.Reset(cmd.ID)
	case OpToggle:
		c.ToggleActive()
	case OpPause:
		c.SetActive(false)
	case OpResume:
		c.SetActive(true)
	case OpInterval:
		c.SetInterval(cmd.Every)
	case OpShow, OpQuit:
	default:
		return fmt.Errorf("unknown command '%s'", cmd.Op)
	}
	return nil
}

// Package host runs tally counters behind a line-oriented shell: commands come
// in on a reader, rendered snapshots go out on a writer.
package host

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-via/tally"
	"golang.org/x/sync/errgroup"
)

// Shell binds a counter to an input and an output.
type Shell struct {
	Counter  *tally.Counter
	Renderer Renderer
	In       io.Reader
	Out      io.Writer
	Logger   *log.Logger
	LogLvl   tally.LogLevel
}

func (sh *Shell) logWarn(format string, a ...any) {
	if sh.LogLvl >= tally.LogLevelWarn {
		sh.Logger.Printf("[warn] msg=%q", fmt.Sprintf(format, a...))
	}
}

func (sh *Shell) logDebug(format string, a ...any) {
	if sh.LogLvl == tally.LogLevelDebug {
		sh.Logger.Printf("[debug] msg=%q", fmt.Sprintf(format, a...))
	}
}

// Run renders the current snapshot, then applies commands read from In until
// "quit", the end of In or the cancellation of ctx. Every change of the counter,
// ticks included, is rendered to Out in order.
func (sh *Shell) Run(ctx context.Context) error {
	if sh.Logger == nil {
		sh.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	snaps := make(chan tally.Snapshot, 16)
	unsubscribe := sh.Counter.OnChange(func(s tally.Snapshot) {
		select {
		case snaps <- s:
		case <-gctx.Done():
		}
	})
	defer unsubscribe()

	lines := make(chan string)
	readErr := make(chan error, 1)
	// the reader is left out of the group: a blocked Read cannot be interrupted
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(sh.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-gctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	if err := sh.Renderer.Render(sh.Out, sh.Counter.Snapshot()); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	g.Go(func() error {
		for {
			select {
			case s := <-snaps:
				if err := sh.Renderer.Render(sh.Out, s); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			case <-gctx.Done():
				return sh.drain(snaps)
			}
		}
	})
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					select {
					case err := <-readErr:
						if err != nil {
							return fmt.Errorf("read commands: %w", err)
						}
					default:
					}
					return nil
				}
				if quit := sh.handle(gctx, line, snaps); quit {
					return nil
				}
			}
		}
	})
	return g.Wait()
}

// handle applies one input line and reports whether the shell should quit.
func (sh *Shell) handle(ctx context.Context, line string, snaps chan<- tally.Snapshot) bool {
	cmd, err := ParseCommand(line)
	if errors.Is(err, ErrEmptyCommand) {
		return false
	}
	if err != nil {
		sh.logWarn("%v", err)
		return false
	}
	sh.logDebug("command %s", cmd)
	switch cmd.Op {
	case OpQuit:
		return true
	case OpShow:
		select {
		case snaps <- sh.Counter.Snapshot():
		case <-ctx.Done():
		}
		return false
	}
	if err := Apply(sh.Counter, cmd); err != nil {
		sh.logWarn("%s failed: %v", cmd, err)
	}
	return false
}

// drain renders the snapshots published before the shell stopped.
func (sh *Shell) drain(snaps <-chan tally.Snapshot) error {
	for {
		select {
		case s := <-snaps:
			if err := sh.Renderer.Render(sh.Out, s); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		default:
			return nil
		}
	}
}

// Main is the entry point of the example hosts. It loads the config named by
// the -config flag over defaults and runs a shell on stdin and stdout until
// quit, end of input, SIGINT or SIGTERM.
func Main(defaults Config, view View) {
	configPath := flag.String("config", "", "path to a YAML config file")
	format := flag.String("format", "", "output format: text, html or json")
	flag.Parse()

	cfg := defaults
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath, defaults); err != nil {
			log.Fatalf("[fatal] %v", err)
		}
	}
	if *format != "" {
		cfg.Format = *format
	}

	c, err := cfg.NewCounter()
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}
	defer c.Close()

	r, err := NewRenderer(cfg, view)
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}
	lvl, _ := parseLogLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := &Shell{Counter: c, Renderer: r, In: os.Stdin, Out: os.Stdout, Logger: log.Default(), LogLvl: lvl}
	if err := sh.Run(ctx); err != nil {
		log.Printf("[error] msg=%q", err.Error())
	}
}

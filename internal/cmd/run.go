package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"boxmux/internal/boxerr"
	"boxmux/internal/config"
	"boxmux/internal/coordinator"
	"boxmux/internal/eventlog"
	"boxmux/internal/input"
	"boxmux/internal/msg"
	"boxmux/internal/socket"
	"boxmux/internal/style"
)

const defaultSocketPath = "/tmp/boxmux.sock"

// addRunFlags attaches the dashboard's flags and RunE to cmd, which is
// the root command itself: the CLI surface is `boxmux <config-path>
// [--frame-delay ms] [--socket path] [--read-only]`, not a `run`
// subcommand (Section 10.B).
func addRunFlags(cmd *cobra.Command) {
	var frameDelayMs int
	var socketPath string
	var readOnly bool
	var logPath string

	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := runDashboard(args[0], frameDelayMs, socketPath, readOnly, logPath)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		if err != nil {
			fmt.Fprintln(os.Stderr, "boxmux:", err)
		}
		os.Exit(boxerr.ExitCode(err))
		return nil
	}

	cmd.Flags().IntVar(&frameDelayMs, "frame-delay", 33, "milliseconds between render passes")
	cmd.Flags().StringVar(&socketPath, "socket", defaultSocketPath, "control socket path")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "do not start the control socket listener")
	cmd.Flags().StringVar(&logPath, "log", "", "path to a JSONL event log (disabled if empty)")
}

// runDashboard implements Section 4.O's init -> run -> teardown ordering:
// load config, acquire the startup lock, enter raw mode, start the
// Coordinator, pump terminal input, and restore the terminal on exit.
func runDashboard(configPath string, frameDelayMs int, socketPath string, readOnly bool, logPath string) error {
	app, err := config.Load(configPath)
	if err != nil {
		return boxerr.New(boxerr.KindConfig, configPath, err)
	}

	lock := flock.New(socketPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return boxerr.New(boxerr.KindIO, "startup-lock", err)
	}
	if !locked {
		return boxerr.Newf(boxerr.KindIO, "startup-lock", "another boxmux instance holds %s", socketPath)
	}
	defer lock.Unlock()

	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return boxerr.Newf(boxerr.KindFatal, "tty", "stdin is not a terminal")
	}

	rows, cols, err := terminalSize(fd)
	if err != nil {
		return boxerr.New(boxerr.KindIO, "tty", err)
	}

	logger := eventlog.Nop()
	if logPath != "" {
		logger = eventlog.New(true, logPath)
	}
	defer logger.Close()

	coord := coordinator.New(coordinator.Config{
		App:        app,
		Output:     os.Stdout,
		Logger:     logger,
		FrameDelay: time.Duration(frameDelayMs) * time.Millisecond,
		Rows:       rows,
		Cols:       cols,
	}, style.DetectResolver())

	var sockServer *socket.Server
	if !readOnly {
		sockServer = socket.New(socketPath, coord.Queue())
		if err := sockServer.Listen(); err != nil {
			return boxerr.New(boxerr.KindIO, "socket", err)
		}
		defer sockServer.Close()
		go sockServer.Serve()
	}

	restore, err := enterRawMode(fd)
	if err != nil {
		return boxerr.New(boxerr.KindIO, "tty", err)
	}
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go watchResize(winch, fd, coord)

	go pumpInput(ctx, fd, coord)

	return coord.Run(ctx)
}

func pumpInput(ctx context.Context, fd int, coord *coordinator.Coordinator) {
	dec := &input.Decoder{}
	router := input.NewRouter()
	buf := make([]byte, 4096)
	f := os.NewFile(uintptr(fd), "/dev/stdin")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		for _, ev := range dec.Feed(buf[:n]) {
			snap := coord.Snapshot()
			for _, m := range router.Route(ev, snap) {
				coord.Queue() <- m
				if ic, ok := m.(msg.InputCmd); ok && ic.Kind == msg.InputShutdown {
					return
				}
			}
		}
	}
}

func terminalSize(fd int) (rows, cols int, err error) {
	cols, rows, err = term.GetSize(fd)
	return rows, cols, err
}

// enterRawMode puts the terminal into raw mode and hides the cursor,
// returning a restore func to run on teardown (Section 4.O: "restore
// terminal (show cursor, leave raw mode, restore screen)"), grounded on
// the teacher's client/overlay.go raw-mode enter/defer-restore pair.
func enterRawMode(fd int) (func(), error) {
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	os.Stdout.Write([]byte("\x1b[?1000h\x1b[?1006h\x1b[?25l"))
	return func() {
		os.Stdout.Write([]byte("\x1b[?1000l\x1b[?1006l\x1b[?25h\x1b[0m\r\n"))
		term.Restore(fd, prev)
	}, nil
}

func watchResize(ch <-chan os.Signal, fd int, coord *coordinator.Coordinator) {
	for range ch {
		rows, cols, err := terminalSize(fd)
		if err != nil {
			continue
		}
		coord.Queue() <- msg.Resize{Rows: rows, Cols: cols}
	}
}

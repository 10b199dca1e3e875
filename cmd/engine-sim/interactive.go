package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ceramic-editor/editor-sync/internal/enginesim"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

type shell struct {
	hub *hub
	rl  *readline.Instance
	out io.Writer
}

func newShell(h *hub) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "engine> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{hub: h, rl: rl, out: rl.Stdout()}, nil
}

func (s *shell) run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			cancel()
			return
		}

		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

func (s *shell) exec(line string) (bool, error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false, nil
	}
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "set", "s":
		if len(args) < 2 {
			return false, errors.New("usage: set <keypath> <json>")
		}
		rest := strings.TrimSpace(input[len(parts[0]):])
		raw := strings.TrimSpace(rest[len(args[0]):])
		v, err := wire.DecodeJSONValue([]byte(raw))
		if err != nil {
			v = raw
		}
		return false, s.push(func(e *enginesim.Engine) error { return e.SendPatch(args[0], v) })
	case "delete", "del":
		if len(args) != 1 {
			return false, errors.New("usage: delete <name>")
		}
		return false, s.push(func(e *enginesim.Engine) error { return e.DeleteItem(args[0]) })
	case "ready":
		return false, s.push(func(e *enginesim.Engine) error { return e.Ready() })
	case "clients":
		addrs := s.hub.clients()
		if len(addrs) == 0 {
			fmt.Fprintln(s.out, "No editors connected")
		}
		for _, a := range addrs {
			fmt.Fprintf(s.out, "  %s\n", a)
		}
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
	return false, nil
}

func (s *shell) push(fn func(e *enginesim.Engine) error) error {
	n, err := s.hub.each(fn)
	fmt.Fprintf(s.out, "Sent to %d editor(s)\n", n)
	return err
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `
Engine Simulator Commands:
    set <keypath> <json>  - Send set/<keypath>, e.g. set scene.item.hero {"x": 10}
    delete <name>         - Send scene-item/delete
    ready                 - Send engine/ready again
    clients               - List connected editors
    help                  - Show this help
    quit                  - Exit`)
}

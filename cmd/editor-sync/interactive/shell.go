// Package interactive provides the interactive command-line interface
// for editor-sync.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ceramic-editor/editor-sync/pkg/keypath"
	"github.com/ceramic-editor/editor-sync/pkg/model"
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/ceramic-editor/editor-sync/pkg/service"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Runner runs fn on the goroutine that owns the model.
// Implemented by *eventloop.Loop.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// Status reports connection details the model does not hold.
type Status interface {
	SessionID() string
	Pending() int
}

// Config wires a Shell.
type Config struct {
	Runner Runner
	Sync   *service.Synchronizer
	Status Status

	// Save writes the project snapshot and returns a short description.
	Save func() (string, error)
}

// Shell executes editor commands against the synchronized project.
type Shell struct {
	config Config
	out    io.Writer
	rl     *readline.Instance
}

// New creates a shell writing to out. Use NewReadline for a terminal.
func New(cfg Config, out io.Writer) *Shell {
	return &Shell{config: cfg, out: out}
}

// NewReadline creates a shell reading commands from the terminal.
func NewReadline(cfg Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "editor> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{config: cfg, out: rl.Stdout(), rl: rl}, nil
}

// Bind attaches the synchronizer once it exists. The synchronizer takes the
// shell as its DirectoryChooser, so it is created after the shell.
func (s *Shell) Bind(sync *service.Synchronizer) {
	s.config.Sync = sync
}

// Stdout returns a writer that coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// ChooseDirectory prompts for a directory on the terminal. It implements
// service.DirectoryChooser.
func (s *Shell) ChooseDirectory() (string, bool) {
	if s.rl == nil {
		return "", false
	}
	s.rl.SetPrompt("assets directory> ")
	defer s.rl.SetPrompt("editor> ")

	line, err := s.rl.Readline()
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
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
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if err := s.Exec(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				fmt.Fprintln(s.out, "Exiting...")
				cancel()
				return
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// Exec runs one command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	input := strings.TrimSpace(line)
	if input == "" {
		return nil
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	case "save":
		return s.cmdSave()
	case "choose":
		return s.cmdChoose(ctx)
	}

	var err error
	doErr := s.config.Runner.Do(ctx, func() {
		switch cmd {
		case "status", "st":
			s.cmdStatus()
		case "name":
			err = s.cmdName(args)
		case "path":
			err = s.cmdPath(args)
		case "assets", "a":
			err = s.cmdAssets(args)
		case "items", "ls":
			s.cmdItems()
		case "add":
			err = s.cmdAdd(args)
		case "remove", "rm":
			err = s.cmdRemove(args)
		case "select", "sel":
			err = s.cmdSelect(args)
		case "get", "g":
			err = s.cmdGet(args)
		case "set", "s":
			err = s.cmdSet(input, args)
		default:
			err = fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Editor Commands:
  Project:
    status                 - Show project, engine and asset status
    name [new-name]        - Show or rename the project
    save                   - Write the project snapshot

  Assets:
    path [dir]             - Show or set the assets directory
    choose                 - Pick the assets directory interactively
    assets [kind]          - List assets (images, texts, sounds, fonts, all, dirs)

  Scene:
    items                  - List scene items
    add <name> [entity]    - Add a scene item
    remove <name>          - Remove a scene item
    select <name>          - Select a scene item ("-" clears)

  Keypaths:
    get <keypath>          - Read a value, e.g. scene.items.hero.x
    set <keypath> <json>   - Write a value, e.g. set ui.zoom 2

  General:
    help                   - Show this help
    quit                   - Exit`)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("status"),
		readline.PcItem("name"),
		readline.PcItem("save"),
		readline.PcItem("path"),
		readline.PcItem("choose"),
		readline.PcItem("assets",
			readline.PcItem("images"),
			readline.PcItem("texts"),
			readline.PcItem("sounds"),
			readline.PcItem("fonts"),
			readline.PcItem("all"),
			readline.PcItem("dirs"),
		),
		readline.PcItem("items"),
		readline.PcItem("add"),
		readline.PcItem("remove"),
		readline.PcItem("select"),
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func (s *Shell) project() *model.Project {
	return s.config.Sync.Project()
}

func (s *Shell) cmdStatus() {
	p := s.project()
	ready := s.config.Sync.Context().EngineReady()

	fmt.Fprintf(s.out, "Project:  %s\n", p.Name())
	fmt.Fprintf(s.out, "Assets:   %s (%s)\n", orNone(p.AssetsPath()), p.AssetsStatus())
	fmt.Fprintf(s.out, "Engine:   %s\n", readyLabel(ready))
	if scene := p.Scene(); scene != nil {
		fmt.Fprintf(s.out, "Scene:    %s %dx%d, %d item(s)\n", scene.Name(), scene.Width(), scene.Height(), len(scene.Items()))
	}
	if ui := p.UI(); ui != nil && ui.SelectedItemName() != "" {
		fmt.Fprintf(s.out, "Selected: %s\n", ui.SelectedItemName())
	}
	if msg := p.ErrorMessage(); msg != "" {
		fmt.Fprintf(s.out, "Error:    %s\n", msg)
	}
	fmt.Fprintf(s.out, "Requests: %d sent", s.config.Sync.Requests())
	if s.config.Status != nil {
		fmt.Fprintf(s.out, ", %d pending\nSession:  %s", s.config.Status.Pending(), s.config.Status.SessionID())
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) cmdName(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, s.project().Name())
		return nil
	}
	s.project().SetName(strings.Join(args, " "))
	return nil
}

func (s *Shell) cmdPath(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, orNone(s.project().AssetsPath()))
		return nil
	}
	if len(args) > 1 {
		return errors.New("usage: path <dir>")
	}
	s.project().SetAssetsPath(args[0])
	fmt.Fprintf(s.out, "Assets path: %s (%s)\n", args[0], s.project().AssetsStatus())
	return nil
}

func (s *Shell) cmdChoose(ctx context.Context) error {
	// The loop waits while the chooser prompts.
	var (
		path string
		ok   bool
	)
	if err := s.config.Runner.Do(ctx, func() { path, ok = s.config.Sync.ChooseAssetsPath() }); err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "No directory chosen")
		return nil
	}
	fmt.Fprintf(s.out, "Assets path: %s\n", path)
	return nil
}

func (s *Shell) cmdAssets(args []string) error {
	p := s.project()
	kind := "all"
	if len(args) > 0 {
		kind = strings.ToLower(args[0])
	}

	var infos []model.AssetInfo
	switch kind {
	case "images":
		infos = p.ImageAssets()
	case "texts":
		infos = p.TextAssets()
	case "sounds":
		infos = p.SoundAssets()
	case "fonts":
		infos = p.FontAssets()
	case "all":
		s.printNames(p.AllAssets(), p.AssetsStatus())
		return nil
	case "dirs":
		s.printNames(p.AllAssetDirs(), p.AssetsStatus())
		return nil
	default:
		return fmt.Errorf("unknown asset kind: %s", kind)
	}

	if infos == nil {
		fmt.Fprintf(s.out, "Assets %s\n", p.AssetsStatus())
		return nil
	}
	fmt.Fprintf(s.out, "%d %s:\n", len(infos), kind)
	for _, info := range infos {
		fmt.Fprintf(s.out, "  %-24s %-24s %s\n", info.Name, info.ConstName, strings.Join(info.Paths, ", "))
	}
	return nil
}

func (s *Shell) printNames(names []string, status model.AssetsStatus) {
	if names == nil {
		fmt.Fprintf(s.out, "Assets %s\n", status)
		return
	}
	for _, n := range names {
		fmt.Fprintf(s.out, "  %s\n", n)
	}
	fmt.Fprintf(s.out, "(%d)\n", len(names))
}

func (s *Shell) cmdItems() {
	scene := s.project().Scene()
	if scene == nil || len(scene.Items()) == 0 {
		fmt.Fprintln(s.out, "No scene items")
		return
	}
	selected := ""
	if ui := s.project().UI(); ui != nil {
		selected = ui.SelectedItemName()
	}
	for _, item := range scene.Items() {
		mark := " "
		if item.Name() == selected {
			mark = "*"
		}
		fmt.Fprintf(s.out, "%s %-16s %-12s x=%g y=%g\n", mark, item.Name(), item.Entity(), item.X(), item.Y())
	}
}

func (s *Shell) cmdAdd(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: add <name> [entity]")
	}
	scene := s.project().Scene()
	if scene == nil {
		return errors.New("project has no scene")
	}
	if _, exists := scene.Item(args[0]); exists {
		return fmt.Errorf("item %q already exists", args[0])
	}
	entity := "ceramic.Quad"
	if len(args) == 2 {
		entity = args[1]
	}
	scene.AddItem(args[0], entity)
	return nil
}

func (s *Shell) cmdRemove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <name>")
	}
	scene := s.project().Scene()
	if scene == nil || !scene.RemoveItem(args[0]) {
		return fmt.Errorf("no item %q", args[0])
	}
	if ui := s.project().UI(); ui != nil && ui.SelectedItemName() == args[0] {
		ui.SetSelectedItemName("")
	}
	return nil
}

func (s *Shell) cmdSelect(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: select <name>")
	}
	ui := s.project().UI()
	if ui == nil {
		return errors.New("project has no UI state")
	}
	if args[0] == "-" {
		ui.SetSelectedItemName("")
		return nil
	}
	if scene := s.project().Scene(); scene == nil {
		return fmt.Errorf("no item %q", args[0])
	} else if _, ok := scene.Item(args[0]); !ok {
		return fmt.Errorf("no item %q", args[0])
	}
	ui.SetSelectedItemName(args[0])
	return nil
}

func (s *Shell) cmdGet(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <keypath>")
	}
	v, ok := keypath.Get(s.project(), args[0])
	if !ok {
		return fmt.Errorf("%w: %s", keypath.ErrUnresolved, args[0])
	}
	fmt.Fprintln(s.out, formatValue(v))
	return nil
}

// cmdSet takes the raw input so the JSON value may contain spaces.
func (s *Shell) cmdSet(input string, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set <keypath> <json>")
	}
	rest := strings.TrimSpace(input[len(strings.Fields(input)[0]):])
	raw := strings.TrimSpace(rest[len(args[0]):])
	v, err := wire.DecodeJSONValue([]byte(raw))
	if err != nil {
		// Bare words are strings.
		v = raw
	}
	return keypath.Set(s.project(), args[0], v)
}

func (s *Shell) cmdSave() error {
	if s.config.Save == nil {
		return errors.New("no state file configured")
	}
	msg, err := s.config.Save()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, msg)
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case interface{ ReactiveModel() *reactive.Model }:
		if m := x.ReactiveModel(); m != nil {
			return fmt.Sprintf("<%s %s>", m.Kind(), m.ID())
		}
		return "null"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, formatValue(x[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func readyLabel(ready bool) string {
	if ready {
		return "ready"
	}
	return "not ready"
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/BeatGlow/panel"
)

// shell is the interactive panel console.
type shell struct {
	rl *readline.Instance
	p  panel.Panel
}

func newShell() (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "panel> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("prepare"),
			readline.PcItem("enable"),
			readline.PcItem("disable"),
			readline.PcItem("unprepare"),
			readline.PcItem("brightness"),
			readline.PcItem("state"),
			readline.PcItem("modes"),
			readline.PcItem("models"),
			readline.PcItem("pattern"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{rl: rl}, nil
}

// Stderr returns a writer that coordinates with the prompt.
func (s *shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run the command loop until EOF or quit.
func (s *shell) Run(p panel.Panel) {
	defer s.rl.Close()
	s.p = p

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()
		case "prepare", "p":
			s.result(p.Prepare())
		case "enable", "e":
			s.result(p.Enable())
		case "disable", "d":
			s.result(p.Disable())
		case "unprepare", "u":
			s.result(p.Unprepare())
		case "brightness", "b":
			s.cmdBrightness(args)
		case "state", "s":
			fmt.Fprintln(s.rl.Stdout(), p.State())
		case "modes":
			for _, mode := range p.Modes() {
				fmt.Fprintf(s.rl.Stdout(), "%s clock=%dkHz %dx%dmm\n", mode, mode.Clock, mode.WidthMM, mode.HeightMM)
			}
		case "models":
			for _, name := range panel.Models() {
				m, _ := panel.LookupModel(name)
				fmt.Fprintln(s.rl.Stdout(), m)
			}
		case "pattern":
			name := DefaultFrameBuffer
			if len(args) > 0 {
				name = args[0]
			}
			if info, err := showPattern(name); err != nil {
				s.result(err)
			} else {
				fmt.Fprintf(s.rl.Stdout(), "pattern drawn on %s\n", info)
			}
		case "quit", "exit", "q":
			return
		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) cmdBrightness(args []string) {
	if len(args) == 0 {
		level, err := s.p.Brightness()
		if err != nil {
			s.result(err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "%d/%d\n", level, s.p.MaxBrightness())
		return
	}

	level, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid brightness %q\n", args[0])
		return
	}
	s.result(s.p.SetBrightness(uint16(level)))
}

func (s *shell) result(err error) {
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "ok (%s)\n", s.p.State())
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Panel Commands:
  prepare            - Power the panel and release reset
  enable             - Replay the command table, exit sleep, display on
  disable            - Backlight off, display off, enter sleep
  unprepare          - Enter sleep and remove power
  brightness [level] - Read or set the backlight brightness
  state              - Show the lifecycle state
  modes              - List the display modes
  models             - List the supported models
  pattern [device]   - Draw a test pattern on the frame buffer
  quit               - Exit`)
}

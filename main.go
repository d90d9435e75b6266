package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	log := newLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, log, os.Args[1:], time.Now(), os.Stdout)
	stop()
	if err != nil {
		log.err(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			log.warn(hint)
		}
		os.Exit(1)
	}
}

// options holds the global command-line flags.
type options struct {
	year        int
	day         int
	sessionFile string
	width       int
	overwrite   bool
	inputOnly   bool
	puzzleOnly  bool
	inputFile   string
	puzzleFile  string
	markup      bool
	color       string
	configPath  string
	quiet       bool
	debug       bool
}

// app carries the state of one invocation. now is captured once so every
// date decision in a command agrees.
type app struct {
	log      *logger
	now      time.Time
	out      io.Writer
	sessions sessionLocator
	opts     options

	cfg   appConfig
	pal   palette
	width int
}

func run(ctx context.Context, log *logger, args []string, now time.Time, stdout io.Writer) error {
	a := &app{
		log:      log,
		now:      now,
		out:      stdout,
		sessions: defaultSessionLocator(),
	}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aoc",
		Short:         "Advent of Code command-line client",
		Long:          "Read puzzles, download inputs, submit answers, and follow calendars and private leaderboards.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRead(cmd.Context())
		},
	}

	f := root.PersistentFlags()
	f.IntVarP(&a.opts.day, "day", "d", 0, "puzzle day [default: last unlocked day (during Advent of Code month)]")
	f.IntVarP(&a.opts.year, "year", "y", 0, "puzzle year [default: year of current or last Advent of Code event]")
	f.StringVarP(&a.opts.sessionFile, "session-file", "s", "", "path to session cookie file [default: ~/.adventofcode.session]")
	f.IntVarP(&a.opts.width, "width", "w", 0, "width at which to wrap output [default: terminal width]")
	f.BoolVarP(&a.opts.overwrite, "overwrite", "o", false, "overwrite files if they already exist")
	f.BoolVarP(&a.opts.inputOnly, "input-only", "I", false, "download puzzle input only")
	f.BoolVarP(&a.opts.puzzleOnly, "puzzle-only", "P", false, "download puzzle description only")
	f.StringVarP(&a.opts.inputFile, "input-file", "i", defaultInputFile, "path where to save puzzle input")
	f.StringVarP(&a.opts.puzzleFile, "puzzle-file", "p", defaultPuzzleFile, "path where to save puzzle description")
	f.BoolVarP(&a.opts.markup, "show-html-markup", "m", false, "render puzzle descriptions with markup")
	f.StringVar(&a.opts.color, "color", "", "color output: auto, always or never")
	f.StringVar(&a.opts.configPath, "config", "", "path to config.json")
	f.BoolVarP(&a.opts.quiet, "quiet", "q", false, "restrict log messages to errors only")
	f.BoolVar(&a.opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:     "calendar",
			Aliases: []string{"c"},
			Short:   "Show Advent of Code calendar and stars collected",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runCalendar(cmd.Context())
			},
		},
		&cobra.Command{
			Use:     "download",
			Aliases: []string{"d"},
			Short:   "Save puzzle description and input to files",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runDownload(cmd.Context())
			},
		},
		&cobra.Command{
			Use:     "read",
			Aliases: []string{"r"},
			Short:   "Read puzzle statement (the default command)",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runRead(cmd.Context())
			},
		},
		&cobra.Command{
			Use:     "submit PART ANSWER",
			Aliases: []string{"s"},
			Short:   "Submit puzzle answer",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runSubmit(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:     "private-leaderboard ID",
			Aliases: []string{"p"},
			Short:   "Show the state of a private leaderboard",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runPrivateLeaderboard(cmd.Context(), args[0])
			},
		},
	)
	return root
}

// setup resolves configuration, colors and output width once per run.
func (a *app) setup(cmd *cobra.Command) error {
	if a.opts.quiet && a.opts.debug {
		return errors.New("--quiet and --debug cannot be used together")
	}
	if a.opts.inputOnly && a.opts.puzzleOnly {
		return errors.New("--input-only and --puzzle-only cannot be used together")
	}
	a.log.setVerbosity(a.opts.quiet, a.opts.debug)

	path := a.opts.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("session-file") {
		cfg.SessionFile = a.opts.sessionFile
	}
	if flags.Changed("overwrite") {
		cfg.Overwrite = a.opts.overwrite
	}
	if flags.Changed("input-file") {
		cfg.InputFile = a.opts.inputFile
	}
	if flags.Changed("puzzle-file") {
		cfg.PuzzleFile = a.opts.puzzleFile
	}
	if flags.Changed("color") {
		cfg.Color = a.opts.color
		if err := validateConfig(cfg); err != nil {
			return err
		}
	}
	a.cfg = cfg

	outFile, _ := a.out.(*os.File)
	a.pal = newPalette(colorEnabled(cfg.Color, outFile))

	requested, explicit := cfg.Width, cfg.Width > 0
	if flags.Changed("width") {
		requested, explicit = a.opts.width, true
	}
	a.width, err = resolveOutputWidth(requested, explicit, outFile)
	return err
}

func (a *app) client() (*apiClient, error) {
	session, err := a.sessions.find(a.cfg.SessionFile, a.log)
	if err != nil {
		return nil, err
	}
	return newAPIClient(a.cfg, session, a.log)
}

func (a *app) puzzleDate() (puzzleDate, error) {
	return resolvePuzzleDate(a.opts.year, a.opts.day, a.now)
}

func (a *app) runRead(ctx context.Context) error {
	d, err := a.puzzleDate()
	if err != nil {
		return err
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	fragment, err := c.puzzleHTML(ctx, d)
	if err != nil {
		return err
	}

	text := renderText(fragment, a.width)
	if a.opts.markup {
		if text, err = renderMarkup(fragment, a.width, a.pal); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(a.out, "\n%s\n", text)
	return nil
}

func (a *app) runDownload(ctx context.Context) error {
	d, err := a.puzzleDate()
	if err != nil {
		return err
	}
	c, err := a.client()
	if err != nil {
		return err
	}

	if !a.opts.inputOnly {
		fragment, err := c.puzzleHTML(ctx, d)
		if err != nil {
			return err
		}
		if err := saveFile(a.cfg.PuzzleFile, a.cfg.Overwrite, htmlToMarkdown(fragment)); err != nil {
			return err
		}
		a.log.okf("saved puzzle to '%s'", a.cfg.PuzzleFile)
	}
	if !a.opts.puzzleOnly {
		input, err := c.input(ctx, d)
		if err != nil {
			return err
		}
		if err := saveFile(a.cfg.InputFile, a.cfg.Overwrite, input); err != nil {
			return err
		}
		a.log.okf("saved input to '%s'", a.cfg.InputFile)
	}
	return nil
}

func (a *app) runSubmit(ctx context.Context, partArg, answer string) error {
	part, err := parsePuzzlePart(partArg)
	if err != nil {
		return err
	}
	d, err := a.puzzleDate()
	if err != nil {
		return err
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	fragment, err := c.submitAnswer(ctx, d, part, answer)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "\n%s\n", renderText(fragment, a.width))

	outcome, err := classifyOutcome(fragment)
	if err != nil {
		return err
	}
	switch outcome {
	case outcomeCorrect:
		a.log.okf("part %d of %s: %s", part, d, outcome)
	default:
		a.log.warnf("part %d of %s: %s", part, d, outcome)
	}
	return nil
}

func (a *app) runCalendar(ctx context.Context) error {
	year, err := resolveEventYear(a.opts.year, a.now)
	if err != nil {
		return err
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	page, err := c.calendarPage(ctx, year)
	if err != nil {
		return err
	}
	if looksLoggedOut(page) {
		a.log.warn("it looks like you are not logged in, try logging in again")
	}

	text, err := renderCalendar(page, a.pal, a.width)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "\n%s\n", text)
	return nil
}

func (a *app) runPrivateLeaderboard(ctx context.Context, idArg string) error {
	id, err := strconv.ParseUint(idArg, 10, 32)
	if err != nil {
		return errors.Newf("invalid leaderboard id %q", idArg)
	}
	year, err := resolveEventYear(a.opts.year, a.now)
	if err != nil {
		return err
	}
	lastDay, err := lastUnlockedDay(year, a.now)
	if err != nil {
		return errors.Mark(err, errInvalidEventYear)
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	lb, err := c.privateLeaderboard(ctx, year, id)
	if err != nil {
		return err
	}

	text, err := formatLeaderboard(lb, year, lastDay, a.pal)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(a.out, text)
	return nil
}

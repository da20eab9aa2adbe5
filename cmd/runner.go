package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"autodj/internal/models"
	"autodj/internal/services"
	"autodj/internal/shared"
	"autodj/internal/tasks"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	profile    models.StyleProfile
	sources    []services.Source
	candidates models.CandidateStore
	playlists  models.PlaylistStore
	history    tasks.SearchLogger
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Sources    []services.Source
	Candidates models.CandidateStore
	Playlists  models.PlaylistStore
	History    tasks.SearchLogger
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		profile:    models.NewStyleProfile(opts.Config.Profile),
		sources:    opts.Sources,
		candidates: opts.Candidates,
		playlists:  opts.Playlists,
		history:    opts.History,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		discoverCommand, curateCommand, tracksCommand, statsCommand, exportCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// engine builds a DiscoveryEngine from the runner's wiring.
func (r *Runner) engine() (*tasks.DiscoveryEngine, error) {
	if r.candidates == nil || r.playlists == nil {
		return nil, fmt.Errorf("%w: database not initialized, run 'autodj setup database' first", shared.ErrMissingConfig)
	}

	e := tasks.NewDiscoveryEngine(r.config, r.profile, r.sources, r.candidates, r.playlists)
	if r.history != nil {
		e = e.WithSearchLog(r.history)
	}
	return e, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeTable renders headers and rows as a bordered table.
func (r *Runner) writeTable(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return r.writePlain("%s\n", t.String())
}

package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ferrovax/gamedesk/internal/repositories"
	"github.com/ferrovax/gamedesk/internal/services"
	"github.com/ferrovax/gamedesk/internal/session"
	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/ferrovax/gamedesk/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	backend    services.Backend
	db         *sql.DB
	creds      *repositories.CredentialRepository
	audit      *repositories.AuditRepository
	session    *session.Store
	engine     tasks.Engine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Backend    services.Backend // overrides the HTTP client, for tests
	DB         *sql.DB
	HTTPClient *http.Client
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

	client := services.NewClient(opts.Config.Server, opts.HTTPClient)
	backend := opts.Backend
	if backend == nil {
		backend = client
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     client,
		backend:    backend,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if r.db == nil {
		db, err := shared.OpenDatabase(opts.Config.Database)
		if err != nil {
			opts.Logger.Warn("failed to open state database", "error", err)
		} else {
			r.db = db
		}
	}
	if r.db != nil {
		if err := shared.RunMigrations(r.db); err != nil {
			opts.Logger.Warn("failed to run migrations", "error", err)
		}
		r.creds = repositories.NewCredentialRepository(r.db)
		r.audit = repositories.NewAuditRepository(r.db)
		r.session = session.NewStore(r.creds, backend, opts.Logger)
		client.SetTokenSource(r.session)
		client.SetUnauthorizedHook(r.session.HandleUnauthorized)
	}

	r.engine = tasks.NewCatalogEngine(backend, client.BaseURL(), opts.HTTPClient)
	return r
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// requireSession resolves the persisted session and fails when no usable
// token exists.
func (r *Runner) requireSession() error {
	if r.session == nil {
		return fmt.Errorf("%w: state database unavailable", shared.ErrServiceUnavailable)
	}
	if r.session.Resolve() != session.StateAuthenticated {
		return fmt.Errorf("%w: run 'gamedesk auth login' first", shared.ErrNotLoggedIn)
	}
	return nil
}

// record appends an audit log entry, logging instead of failing when the
// local database is unavailable.
func (r *Runner) record(action, resource, recordID, detail string) {
	if r.audit == nil {
		return
	}
	if err := r.audit.Record(action, resource, recordID, detail); err != nil {
		r.logger.Warn("failed to record audit entry", "error", err)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, gamesCommand, tagsCommand, usersCommand,
		uploadCommand, exportCommand, assetsCommand, auditCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/library"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/state"
	"github.com/urfave/cli/v3"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/text/language"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	session    *session.Session
	client     services.Client
	library    *library.Library
	auth       *spotifyauth.Authenticator
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Session    *session.Session
	Client     services.Client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A nil Config is loaded from the --config flag before the first command runs.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		session:    opts.Session,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, meCommand, playlistsCommand, tracksCommand, searchCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration and builds the session, client, and library from the global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}

	if r.config == nil {
		r.config = r.loadConfig(r.configPath)
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if auth, err := services.NewAuthenticator(r.config.Credentials.Spotify.Map()); err == nil {
		r.auth = auth
	} else {
		r.logger.Debug("token refresh disabled", "reason", err)
	}

	if r.session == nil {
		r.session = r.newSession()
	}

	if token := cmd.String("access-token"); token != "" {
		r.session.SetToken(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	}

	if r.client == nil {
		r.client = services.NewSpotifyClient(r.session, services.ClientOpts{
			BaseURL:           r.config.API.BaseURL,
			HTTPClient:        &http.Client{Timeout: r.config.API.Timeout(), Transport: r.httpClient.Transport},
			RequestsPerSecond: r.config.API.RequestsPerSecond,
			Logger:            r.logger,
		})
	}

	r.library = library.New(r.client, r.session, r.logger)
	return ctx, nil
}

// loadConfig reads path, falling back to defaults when the file is missing or invalid.
func (r *Runner) loadConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig()
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return shared.DefaultConfig()
	}
	return config
}

func (r *Runner) newSession() *session.Session {
	var opts []session.Option
	if r.auth != nil {
		opts = append(opts, session.WithRefresher(r.auth), session.WithRefreshCallback(r.saveToken))
	}

	s := session.New(opts...)
	s.SetToken(r.config.Credentials.Spotify.Token())
	return s
}

// saveToken persists a refreshed token to the config file.
func (r *Runner) saveToken(token *oauth2.Token) {
	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		r.logger.Warn("failed to update token", "error", err)
		return
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		r.logger.Warn("failed to save refreshed token", "path", r.configPath, "error", err)
		return
	}
	r.logger.Debug("refreshed token saved", "path", r.configPath)
}

// newStore creates a store using the configured collation locale.
func (r *Runner) newStore() *state.Store {
	tag, err := language.Parse(r.config.API.Locale)
	if err != nil {
		r.logger.Warn("invalid locale, using English", "locale", r.config.API.Locale)
		tag = language.English
	}
	return state.NewStore(state.StoreOpts{Locale: tag, Logger: r.logger})
}

// SetLogger swaps the logger used by the runner.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/confpub"
	confhttp "github.com/fwojciec/confpub/http"
	"github.com/fwojciec/confpub/sqlite"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GatewayFunc connects to the wiki at baseURL.
type GatewayFunc func(baseURL string, creds confhttp.Credentials, opts ...confhttp.Option) confpub.ContentGateway

// Main represents the program.
type Main struct {
	// Directory relative paths are resolved against. Set before calling Run().
	WorkDir string

	// Filesystem holding config documents and build output.
	FS billy.Filesystem

	// SQLite database backing the publish journal, if one is configured.
	DB *sqlite.DB

	// NewGateway is replaced in end-to-end tests.
	NewGateway GatewayFunc
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Main{
		WorkDir:    wd,
		FS:         osfs.New("/"),
		NewGateway: newHTTPGateway,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:        ctx,
		Stdout:     stdout,
		Stderr:     stderr,
		FS:         m.FS,
		WorkDir:    m.WorkDir,
		NewGateway: m.NewGateway,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("confpub"),
		kong.Description("Publish sphinx documentation to a Confluence wiki"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'confpub --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	if path := cli.journalPath(kongCtx.Command()); path != "" {
		path = deps.path(path)
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CONFPUB_JOURNAL to use a different journal path\n")
			return fmt.Errorf("failed to open journal at %q: %w", path, err)
		}
		defer m.Close()
		deps.Journal = sqlite.NewJournalService(m.DB)
	}

	return kongCtx.Run(deps)
}

// journalPath returns the journal flag of the selected command.
func (c *CLI) journalPath(command string) string {
	switch {
	case strings.HasPrefix(command, "publish"):
		return c.Publish.Journal
	case strings.HasPrefix(command, "history"):
		return c.History.Journal
	}
	return ""
}

// newLogger logs warnings by default; each -v lowers the level one step.
func newLogger(w io.Writer, verbose int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newHTTPGateway(baseURL string, creds confhttp.Credentials, opts ...confhttp.Option) confpub.ContentGateway {
	return confhttp.NewClient(baseURL, creds, opts...)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/fs"
	confhttp "github.com/fwojciec/confpub/http"
	confslog "github.com/fwojciec/confpub/slog"
	"github.com/fwojciec/confpub/yaml"
	"github.com/go-git/go-billy/v5"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	FS      billy.Filesystem
	WorkDir string

	NewGateway GatewayFunc

	// Journal is nil unless a journal path is configured.
	Journal confpub.JournalService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose int `short:"v" type:"counter" help:"Increase log verbosity (repeatable)"`

	Create  CreateCmd  `cmd:"" help:"Create blank wiki pages for config entries without an id"`
	Publish PublishCmd `cmd:"" help:"Publish changed pages and new attachments"`
	Dump    DumpCmd    `cmd:"" help:"Print the storage format body of a wiki page"`
	History HistoryCmd `cmd:"" help:"List recorded publish decisions"`
}

// RemoteFlags select and authenticate against the wiki.
type RemoteFlags struct {
	URL       string        `short:"u" env:"CONFPUB_URL" help:"Wiki base URL, overrides the config"`
	Auth      string        `short:"a" env:"CONFPUB_AUTH" help:"Base64 encoded user:password"`
	User      string        `short:"U" env:"CONFPUB_USER" help:"User name, used when --auth is not set"`
	Password  string        `env:"CONFPUB_PASSWORD" help:"Password for --user"`
	Timeout   time.Duration `help:"Timeout per request (none by default)"`
	RateLimit float64       `help:"Maximum requests per second (0 = unlimited)"`
}

// CreateCmd is the "create" subcommand.
type CreateCmd struct {
	Config   string      `arg:"" help:"Path of the config document"`
	ParentID int         `short:"p" name:"parent-id" help:"Page under which top-level pages are created"`
	Remote   RemoteFlags `embed:""`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	Config          string      `arg:"" help:"Path of the config document"`
	Force           bool        `short:"F" help:"Publish pages even if unchanged"`
	Watermark       string      `short:"w" help:"Watermark override: false, true or a literal text"`
	Link            string      `short:"l" help:"Back-link override: false or a URL"`
	HoldTitles      bool        `help:"Keep the titles of remote pages"`
	Format          string      `short:"f" enum:"fjson,html" default:"fjson" help:"Build output format (fjson, html)"`
	ContentSelector string      `help:"CSS selector of the page content in html output"`
	StrictMacros    bool        `help:"Compare structured macros instead of ignoring them"`
	Journal         string      `env:"CONFPUB_JOURNAL" help:"Path of the publish journal database"`
	Remote          RemoteFlags `embed:""`
}

// DumpCmd is the "dump" subcommand.
type DumpCmd struct {
	PageID int         `arg:"" help:"Page ID"`
	Output string      `short:"o" default:"stdout" help:"Output: stdout, stderr or a file path"`
	Remote RemoteFlags `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Journal string `env:"CONFPUB_JOURNAL" help:"Path of the publish journal database"`
	PageID  int    `help:"Only show records of this page"`
	RunID   string `help:"Only show records of this run"`
	Limit   int    `short:"n" default:"20" help:"Maximum number of records"`
}

// path resolves p against the working directory.
func (d *Dependencies) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.WorkDir, p)
}

// fail reports err on stderr and returns it.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", confpub.ErrorMessage(err))
	return err
}

func (d *Dependencies) loadConfig(path string) (*confpub.Config, error) {
	return yaml.LoadFile(d.FS, d.path(path))
}

// saveConfig rewrites the config document in place.
func (d *Dependencies) saveConfig(path string, cfg *confpub.Config) error {
	err := fs.WriteFile(d.FS, d.path(path), func(w io.Writer) error {
		return yaml.Dump(w, cfg)
	})
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// layout returns the build output layout of cfg.
func (d *Dependencies) layout(cfg *confpub.Config) fs.LayoutConfig {
	return fs.LayoutConfig{
		RootDir:      d.WorkDir,
		BaseDir:      cfg.BaseDir,
		ImagesDir:    cfg.ImagesDir,
		DownloadsDir: cfg.DownloadsDir,
		SourceExt:    cfg.SourceExt,
	}
}

// gateway connects to the wiki at baseURL.
func (d *Dependencies) gateway(flags RemoteFlags, baseURL string) (confpub.ContentGateway, error) {
	if baseURL == "" {
		return nil, confpub.Errorf(confpub.EINVALID, "wiki url is required: use --url or set `url` in the config")
	}
	creds, err := flags.credentials()
	if err != nil {
		return nil, err
	}

	opts := []confhttp.Option{confhttp.WithLogger(d.Logger)}
	if flags.Timeout > 0 {
		opts = append(opts, confhttp.WithTimeout(flags.Timeout))
	}
	if flags.RateLimit > 0 {
		opts = append(opts, confhttp.WithRateLimit(flags.RateLimit))
	}
	return confslog.NewLoggingGateway(d.NewGateway(baseURL, creds, opts...), d.Logger), nil
}

// credentials prefers --auth over --user.
func (f RemoteFlags) credentials() (confhttp.Credentials, error) {
	switch {
	case f.Auth != "":
		return confhttp.ParseAuth(f.Auth)
	case f.User != "" && f.Password == "":
		return confhttp.Credentials{}, confpub.Errorf(confpub.EINVALID, "password is required for user %q: use --password or CONFPUB_PASSWORD", f.User)
	case f.User != "":
		return confhttp.Credentials{User: f.User, Password: f.Password}, nil
	}
	return confhttp.Credentials{}, confpub.Errorf(confpub.EINVALID, "authentication is required: use --auth or --user")
}

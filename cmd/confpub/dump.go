package main

import (
	"io"
	"strings"

	"github.com/fwojciec/confpub/fs"
)

// Run executes the dump command.
func (c *DumpCmd) Run(deps *Dependencies) error {
	gateway, err := deps.gateway(c.Remote, c.Remote.URL)
	if err != nil {
		return deps.fail(err)
	}

	page, err := gateway.LoadPage(deps.Ctx, c.PageID)
	if err != nil {
		return deps.fail(err)
	}

	switch strings.ToLower(c.Output) {
	case "stdout":
		_, err = io.WriteString(deps.Stdout, page.Body)
	case "stderr":
		_, err = io.WriteString(deps.Stderr, page.Body)
	default:
		err = fs.WriteFile(deps.FS, deps.path(c.Output), func(w io.Writer) error {
			_, err := io.WriteString(w, page.Body)
			return err
		})
	}
	if err != nil {
		return deps.fail(err)
	}
	return nil
}

package bake

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"palut/parallel"

	"github.com/alecthomas/kong"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

type CLICmd struct {
	Options `embed:""`
	Out     string `help:"Destination PNG file for the LUT" required:"" type:"path"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if err := c.Check(); err != nil {
		return err
	}
	if ext := filepath.Ext(c.Out); ext != ".png" {
		return fmt.Errorf("unsupported LUT extension %q, want .png", ext)
	}
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	var progress func()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.NewOptions(c.Size,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("baking"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		progress = func() { bar.Add(1) }
	}

	start := time.Now()
	l, _, err := c.Build(pool, progress)
	if err != nil {
		return err
	}

	if err := Save(l, c.Out); err != nil {
		return err
	}
	b := l.Image().Bounds()
	slog.Info("saved LUT", "file", c.Out, "width", b.Dx(), "height", b.Dy(), "elapsed", time.Since(start))
	return nil
}

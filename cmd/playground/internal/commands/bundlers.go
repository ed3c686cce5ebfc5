package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/wolfeidau/playground/internal/bundler"
)

type BundlersCmd struct {
	out io.Writer `kong:"-"`
}

func (cmd *BundlersCmd) Run(globals *Globals) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	for _, name := range bundler.Drivers() {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

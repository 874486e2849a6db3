package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	_ "embed"

	"github.com/macropower/synrule/pkg/document"
	"github.com/macropower/synrule/pkg/log"
)

//go:embed starter.json
var starterJSON []byte

type InitArgs struct {
	Force bool
}

func (ia *InitArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ia.Force, "force", "f", false, "Overwrite an existing file")
}

// NewInitCmd writes the embedded starter ruleset, a minimal PKS
// hierarchy to build from.
func NewInitCmd() *cobra.Command {
	ia := &InitArgs{}

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write a starter ruleset document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], ia)
		},
	}
	ia.AddFlags(cmd)

	return cmd
}

func runInit(cmd *cobra.Command, path string, ia *InitArgs) error {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		case err == nil && !ia.Force:
			return fmt.Errorf("%s: file already exists, use --force to overwrite", path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		err = os.MkdirAll(dir, 0o700)
		if err != nil {
			return fmt.Errorf("create directories: %w", err)
		}
	}

	if isYAMLPath(path) {
		rs, err := document.Unmarshal(starterJSON)
		if err != nil {
			return fmt.Errorf("load starter ruleset: %w", err)
		}

		err = writeRuleset(path, rs)
		if err != nil {
			return err
		}
	} else {
		err = os.WriteFile(path, starterJSON, 0o600)
		if err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	}

	ctx := cmd.Context()
	log.WithContext(ctx).InfoContext(ctx, "wrote starter ruleset",
		slog.String("path", path),
	)

	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/synrule/pkg/document"
	"github.com/macropower/synrule/pkg/lint"
	"github.com/macropower/synrule/pkg/log"
	"github.com/macropower/synrule/pkg/schema"
)

type LintArgs struct {
	Strict bool
}

func (la *LintArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&la.Strict, "strict", false, "Exit non-zero when integrity problems are found")
}

// NewLintCmd checks a ruleset document: schema validity first, then the
// lenient load, then the integrity pass. Integrity problems are
// warnings by default; only a document that cannot load at all fails
// the command.
func NewLintCmd() *cobra.Command {
	la := &LintArgs{}

	cmd := &cobra.Command{
		Use:   "lint <file>",
		Short: "Check a ruleset document for schema and integrity problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args[0], la)
		},
	}
	la.AddFlags(cmd)

	return cmd
}

func runLint(cmd *cobra.Command, path string, la *LintArgs) error {
	ctx := cmd.Context()
	logger := log.WithContext(ctx)

	data, err := readDocument(path)
	if err != nil {
		return err
	}

	// Schema validation gets its own decode so that it sees the raw
	// document, not the normalized in-memory form.
	var raw any
	if err := json.Unmarshal(data, &raw); err == nil {
		validator, err := schema.Default()
		if err != nil {
			return fmt.Errorf("load ruleset schema: %w", err)
		}

		err = validator.Validate(raw)
		if err != nil {
			logger.WarnContext(ctx, "schema validation failed",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}
	}

	rs, err := document.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	problems := lint.Check(rs)
	for _, p := range problems {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}

	if len(problems) == 0 {
		logger.InfoContext(ctx, "ruleset is consistent",
			slog.String("path", path),
			slog.Int("domains", len(rs.Domains)),
			slog.Int("rules", len(rs.Rules)),
		)

		return nil
	}

	if la.Strict {
		return fmt.Errorf("%s: %d integrity problem(s)", path, len(problems))
	}

	return nil
}

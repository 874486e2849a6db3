package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/synrule/pkg/log"
)

// NewConvertCmd converts a ruleset document between the canonical JSON
// format and YAML. The conversion goes through the serialization
// gateway, so the output is always a normalized, loadable document.
func NewConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a ruleset document between JSON and YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1])
		},
	}
}

func runConvert(cmd *cobra.Command, inPath, outPath string) error {
	rs, err := readRuleset(inPath)
	if err != nil {
		return err
	}

	err = writeRuleset(outPath, rs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log.WithContext(ctx).InfoContext(ctx, "converted ruleset",
		slog.String("from", inPath),
		slog.String("to", outPath),
	)

	return nil
}

package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/macropower/synrule/pkg/hierarchy"
	"github.com/macropower/synrule/pkg/log"
	"github.com/macropower/synrule/pkg/ruleset"
)

var (
	ruleNameStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle     = lipgloss.NewStyle().Faint(true)
	orphanHeading   = lipgloss.NewStyle().Bold(true).Underline(true)
	enumeratorStyle = lipgloss.NewStyle().Faint(true).MarginRight(1)
)

type ShowArgs struct {
	Parent  string
	Watch   bool
	Orphans bool
}

func (sa *ShowArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sa.Parent, "parent", "", "Root the forest at the given rule (name or id) instead of the top level")
	cmd.Flags().BoolVarP(&sa.Watch, "watch", "w", false, "Watch the file and re-render on change")
	cmd.Flags().BoolVar(&sa.Orphans, "orphans", false, "List rules that are unreachable from any root")
}

// NewShowCmd renders the rule hierarchy of a ruleset document.
func NewShowCmd() *cobra.Command {
	sa := &ShowArgs{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render the rule hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], sa)
		},
	}
	sa.AddFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, path string, sa *ShowArgs) error {
	err := renderFile(cmd, path, sa)
	if err != nil {
		return err
	}

	if !sa.Watch {
		return nil
	}

	return watchFile(cmd, path, sa)
}

func renderFile(cmd *cobra.Command, path string, sa *ShowArgs) error {
	rs, err := readRuleset(path)
	if err != nil {
		return err
	}

	parentID := ruleset.NoParent
	if sa.Parent != "" {
		r, ok := resolveRule(rs, sa.Parent)
		if !ok {
			return fmt.Errorf("no rule named %q", sa.Parent)
		}

		parentID = r.UUID
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderForest(rs, parentID, path))

	if sa.Orphans {
		orphans := hierarchy.Orphans(rs.Rules)
		if len(orphans) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, orphanHeading.Render("Orphans"))

			for _, r := range orphans {
				fmt.Fprintln(out, ruleLabel(rs, r))
			}
		}
	}

	return nil
}

func renderForest(rs ruleset.Ruleset, parentID, rootLabel string) string {
	t := tree.Root(subtleStyle.Render(rootLabel)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)

	for _, n := range hierarchy.Nest(rs.Rules, parentID) {
		t.Child(buildTree(rs, n))
	}

	return t.String()
}

func buildTree(rs ruleset.Ruleset, n hierarchy.Node) *tree.Tree {
	t := tree.Root(ruleLabel(rs, n.Rule)).
		EnumeratorStyle(enumeratorStyle)

	for _, c := range n.Children {
		t.Child(buildTree(rs, c))
	}

	return t
}

// ruleLabel renders one rule as name, resolved domain slots, and the
// evaluator expression. Dangling domain references render as
// unresolved.
func ruleLabel(rs ruleset.Ruleset, r ruleset.Rule) string {
	name := r.Name
	if name == "" {
		name = "(unnamed)"
	}

	slots := make([]string, len(r.DomainRefs))
	for i, id := range r.DomainRefs {
		if dt, ok := rs.DomainType(id); ok && dt.Name != "" {
			slots[i] = dt.Name
		} else {
			slots[i] = "?"
		}
	}

	label := ruleNameStyle.Render(name)
	if len(slots) > 0 {
		label += " " + subtleStyle.Render("["+strings.Join(slots, " ")+"]")
	}
	if r.Evaluator != "" {
		label += " " + subtleStyle.Render("("+r.Evaluator+")")
	}

	return label
}

// watchFile re-renders whenever the document changes on disk. The
// parent directory is watched rather than the file itself, so editors
// that replace the file on save still trigger events.
func watchFile(cmd *cobra.Command, path string, sa *ShowArgs) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best effort.

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	ctx := cmd.Context()
	logger := log.WithContext(ctx)

	logger.InfoContext(ctx, "watching for changes",
		slog.String("path", path),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != absPath {
				continue
			}

			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}

			err := renderFile(cmd, path, sa)
			if err != nil {
				// Keep watching; a partially written file will settle.
				logger.WarnContext(ctx, "render failed",
					slog.String("path", path),
					slog.Any("error", err),
				)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

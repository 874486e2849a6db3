package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/synrule/pkg/log"
	"github.com/macropower/synrule/pkg/ruleset"
)

// NewDomainCmd groups the domain type editing commands. Edits go
// through the ruleset operations and are written back in one step, so
// the file always holds a consistent snapshot.
func NewDomainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Edit domain types in a ruleset document",
	}

	cmd.AddCommand(
		newDomainAddCmd(),
		newDomainRmCmd(),
	)

	return cmd
}

type DomainAddArgs struct {
	Name     string
	Families []string
}

func (da *DomainAddArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&da.Name, "name", "", "Domain type name, e.g. KS")
	cmd.Flags().StringArrayVar(&da.Families, "family", nil,
		"Acceptable domain family, repeatable; none means any family")

	err := cmd.MarkFlagRequired("name")
	if err != nil {
		panic(fmt.Errorf("mark name flag: %w", err))
	}
}

func newDomainAddCmd() *cobra.Command {
	da := &DomainAddArgs{}

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a domain type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDomainAdd(cmd, args[0], da)
		},
	}
	da.AddFlags(cmd)

	return cmd
}

func runDomainAdd(cmd *cobra.Command, path string, da *DomainAddArgs) error {
	rs, err := readRuleset(path)
	if err != nil {
		return err
	}

	rs = rs.AddDomainType()
	id := rs.Domains[0].UUID
	rs = rs.UpdateDomainType(id, func(dt *ruleset.DomainType) {
		dt.Name = da.Name
		if len(da.Families) > 0 {
			dt.Families = da.Families
		}
	})

	err = writeRuleset(path, rs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log.WithContext(ctx).InfoContext(ctx, "added domain type",
		slog.String("name", da.Name),
		slog.String("uuid", id),
	)

	return nil
}

func newDomainRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file> <name-or-id>",
		Short: "Remove a domain type",
		Long: "Remove a domain type. Rules referencing it are left untouched; " +
			"their dangling references render as unresolved and are reported by lint.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDomainRm(cmd, args[0], args[1])
		},
	}
}

func runDomainRm(cmd *cobra.Command, path, nameOrID string) error {
	rs, err := readRuleset(path)
	if err != nil {
		return err
	}

	dt, ok := resolveDomainType(rs, nameOrID)
	if !ok {
		return fmt.Errorf("no domain type named %q", nameOrID)
	}

	err = writeRuleset(path, rs.RemoveDomainType(dt.UUID))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log.WithContext(ctx).InfoContext(ctx, "removed domain type",
		slog.String("name", dt.Name),
		slog.String("uuid", dt.UUID),
	)

	return nil
}

// NewRuleCmd groups the rule editing commands.
func NewRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Edit rules in a ruleset document",
	}

	cmd.AddCommand(
		newRuleAddCmd(),
		newRuleRmCmd(),
	)

	return cmd
}

type RuleAddArgs struct {
	Name      string
	Domains   []string
	Evaluator string
	Parent    string
}

func (ra *RuleAddArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.Name, "name", "", "Rule name, e.g. HR-PKS")
	cmd.Flags().StringArrayVar(&ra.Domains, "domain", nil,
		"Required domain type (name or id), repeatable; order defines evaluator indices")
	cmd.Flags().StringVar(&ra.Evaluator, "evaluator", "",
		`Boolean expression over domain indices, e.g. "0 and (1 or 2)"`)
	cmd.Flags().StringVar(&ra.Parent, "parent", "",
		"Parent rule (name or id); omit for a root rule")

	err := cmd.MarkFlagRequired("name")
	if err != nil {
		panic(fmt.Errorf("mark name flag: %w", err))
	}
}

func newRuleAddCmd() *cobra.Command {
	ra := &RuleAddArgs{}

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleAdd(cmd, args[0], ra)
		},
	}
	ra.AddFlags(cmd)

	return cmd
}

func runRuleAdd(cmd *cobra.Command, path string, ra *RuleAddArgs) error {
	rs, err := readRuleset(path)
	if err != nil {
		return err
	}

	domainRefs := make([]string, 0, len(ra.Domains))
	for _, nameOrID := range ra.Domains {
		dt, ok := resolveDomainType(rs, nameOrID)
		if !ok {
			return fmt.Errorf("no domain type named %q", nameOrID)
		}

		domainRefs = append(domainRefs, dt.UUID)
	}

	parentID := ruleset.NoParent
	if ra.Parent != "" {
		parent, ok := resolveRule(rs, ra.Parent)
		if !ok {
			return fmt.Errorf("no rule named %q", ra.Parent)
		}

		parentID = parent.UUID
	}

	rs = rs.AddRule()
	id := rs.Rules[0].UUID
	rs = rs.UpdateRule(id, func(r *ruleset.Rule) {
		r.Name = ra.Name
		r.Evaluator = ra.Evaluator
		r.ParentID = parentID
		if len(domainRefs) > 0 {
			r.DomainRefs = domainRefs
		}
	})

	err = writeRuleset(path, rs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log.WithContext(ctx).InfoContext(ctx, "added rule",
		slog.String("name", ra.Name),
		slog.String("uuid", id),
	)

	return nil
}

func newRuleRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file> <name-or-id>",
		Short: "Remove a rule, promoting its children to roots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleRm(cmd, args[0], args[1])
		},
	}
}

func runRuleRm(cmd *cobra.Command, path, nameOrID string) error {
	rs, err := readRuleset(path)
	if err != nil {
		return err
	}

	r, ok := resolveRule(rs, nameOrID)
	if !ok {
		return fmt.Errorf("no rule named %q", nameOrID)
	}

	err = writeRuleset(path, rs.RemoveRule(r.UUID))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log.WithContext(ctx).InfoContext(ctx, "removed rule",
		slog.String("name", r.Name),
		slog.String("uuid", r.UUID),
	)

	return nil
}

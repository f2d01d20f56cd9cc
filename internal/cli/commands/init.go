package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/organic-growth/organic-growth/internal/cli/ui"
	"github.com/organic-growth/organic-growth/internal/contextsync"
	"github.com/organic-growth/organic-growth/internal/templates"
)

type initOptions struct {
	force       bool
	tool        string
	interactive bool
}

// slashCommands are installed with the claude tool set.
var slashCommands = [][2]string{
	{"/seed", "bootstrap project (interview or DNA document)"},
	{"/grow", "plan and start a new feature"},
	{"/next", "implement the next growth stage"},
	{"/replan", "re-evaluate when things change"},
	{"/review", "deep quality review of recent stages"},
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [dna-file.md]",
		Short: "Install the methodology templates into a project",
		Long: `Install agent instructions, slash commands and the project context
document into the project.

Existing files are kept unless you confirm the overwrite (or pass --force).
When stdin is not a terminal existing files are skipped.

An optional product DNA document is copied to docs/product-dna.md.

Examples:
  # Install everything
  organic-growth init

  # Only GitHub Copilot instructions
  organic-growth init --target copilot

  # Install all and copy a DNA document, overwriting existing files
  organic-growth init --force idea.md

  # Choose the tool interactively
  organic-growth init --interactive
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dna := ""
			if len(args) == 1 {
				dna = args[0]
			}
			return runInit(cmd, opts, dna)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing files without prompting")
	cmd.Flags().StringVarP(&opts.tool, "target", "t", "all", "Tool to install: claude, copilot, opencode or all")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Choose the tool interactively")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions, dna string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	installer, err := templates.NewDefaultInstaller(p.logger)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	registry := installer.Registry()

	tool := opts.tool
	if opts.interactive {
		descriptions := make(map[string]string)
		for _, t := range registry.List() {
			descriptions[t.Name] = t.Description
		}
		tool, err = selectTool(registry.Names(), descriptions)
		if err != nil {
			return err
		}
	}
	if tool != contextsync.SelectAll && !registry.Exists(tool) {
		return &contextsync.UnknownTargetError{
			Name:  tool,
			Valid: append(registry.Names(), contextsync.SelectAll),
		}
	}

	installOpts := templates.InstallOptions{
		Root:  p.root,
		Tool:  tool,
		Force: opts.force,
		DNA:   dna,
	}
	if !opts.force && isTerminal(os.Stdin) {
		installOpts.Prompter = surveyPrompter{}
	}

	result, err := installer.Install(installOpts)
	if err != nil {
		return err
	}
	p.logger.Debug("templates installed",
		zap.String("tool", tool),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))

	return printInstall(cmd.OutOrStdout(), installer, result, dna, p.noColor)
}

func printInstall(out io.Writer, installer *templates.Installer, result *templates.InstallResult, dna string, noColor bool) error {
	manifest := installer.Manifest()

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	if noColor {
		green.DisableColor()
		yellow.DisableColor()
		dim.DisableColor()
	}

	if result.DNACopied {
		ui.WriteSuccess(out, fmt.Sprintf("Copied DNA document to %s", manifest.DNATarget), noColor)
	}
	if result.DNAMissing {
		fmt.Fprint(out, ui.Warning(fmt.Sprintf("DNA file not found: %s", dna), nil, noColor))
	}

	fmt.Fprintln(out)
	if len(result.Created) > 0 {
		green.Fprintln(out, "Installed:")
		for _, f := range result.Created {
			dim.Fprintf(out, "  %s\n", f)
		}
	}
	if len(result.Skipped) > 0 {
		yellow.Fprintln(out, "Skipped (already exist):")
		for _, f := range result.Skipped {
			dim.Fprintf(out, "  %s\n", f)
		}
	}

	fmt.Fprintln(out)
	green.Fprint(out, "Done!")
	fmt.Fprintln(out, " Next steps:")

	steps := ui.NewList(out, ui.ListOptions{Indent: 2, NoColor: noColor})
	stepCtx := templates.StepContext{Context: manifest.Context, DNATarget: manifest.DNATarget}
	if result.DNACopied {
		stepCtx.DNA = filepath.ToSlash(dna)
	}
	claude := false
	for _, t := range result.Tools {
		rendered, err := t.RenderNextSteps(stepCtx)
		if err != nil {
			return err
		}
		for _, s := range rendered {
			steps.AddItem(s)
		}
		if t.Name == "claude" {
			claude = true
		}
	}
	steps.Render()

	if claude {
		fmt.Fprintln(out)
		dim.Fprintln(out, "Claude Code commands available after setup:")
		table := ui.NewKeyValueTable(out, noColor)
		for _, c := range slashCommands {
			table.AddRow("  "+c[0], c[1])
		}
		table.Render()
	}
	fmt.Fprintln(out)
	return nil
}

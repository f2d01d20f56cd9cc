package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// surveyPrompter asks overwrite questions on the terminal.
type surveyPrompter struct {
	opts []survey.AskOpt
}

// ConfirmOverwrite asks whether an existing file may be replaced; the
// default answer is no.
func (p surveyPrompter) ConfirmOverwrite(rel string) (bool, error) {
	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", rel),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite, p.opts...); err != nil {
		return false, err
	}
	return overwrite, nil
}

// selectTool asks which tool set to install.
func selectTool(names []string, descriptions map[string]string, opts ...survey.AskOpt) (string, error) {
	options := append([]string{"all"}, names...)

	var selected string
	prompt := &survey.Select{
		Message: "Install templates for:",
		Options: options,
		Default: "all",
		Description: func(value string, index int) string {
			if value == "all" {
				return "every tool below"
			}
			return descriptions[value]
		},
	}
	if err := survey.AskOne(prompt, &selected, opts...); err != nil {
		return "", err
	}
	return selected, nil
}

package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	BashGroup string   // flags with same non-empty BashGroup share a bash case entry
	Section   string   // fish section comment
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Short: "V", Help: "Show version information", Section: "Help and version"},
	{Long: "from", Help: "Start value of the segment", ValueName: "value", Section: "Segment and curve"},
	{Long: "to", Help: "End value of the segment", ValueName: "value", Section: "Segment and curve"},
	{Long: "duration", Help: "Total duration of the curve", Values: []string{"250ms", "500ms", "1s", "2s", "5s"}, ValueName: "duration", BashGroup: "duration", Section: "Segment and curve"},
	{Long: "max-duration", Help: "Hard cap on the resolved duration", Values: []string{"250ms", "500ms", "1s", "2s", "5s"}, ValueName: "duration", BashGroup: "duration", Section: "Segment and curve"},
	{Long: "rate", Help: "Cruise rate in units per millisecond", ValueName: "rate", Section: "Segment and curve"},
	{Long: "accel", Help: "Fraction of the duration spent accelerating", Values: []string{"0", "0.1", "0.25", "0.33", "0.5"}, ValueName: "ratio", BashGroup: "ratio", Section: "Segment and curve"},
	{Long: "decel", Help: "Fraction of the duration spent decelerating", Values: []string{"0", "0.1", "0.25", "0.33", "0.5"}, ValueName: "ratio", BashGroup: "ratio", Section: "Segment and curve"},
	{Long: "accel-coeff", Help: "Explicit acceleration coefficient", ValueName: "coefficient", Section: "Segment and curve"},
	{Long: "decel-coeff", Help: "Explicit deceleration coefficient", ValueName: "coefficient", Section: "Segment and curve"},
	{Long: "reverse", Help: "Play from the end back to the start", Section: "Segment and curve"},
	{Long: "profile", Help: "YAML file with named presets", IsFile: true, ValueName: "file", Section: "Presets"},
	{Long: "preset", Help: "Preset to load from the profile", ValueName: "name", Section: "Presets"},
	{Long: "tui", Help: "Launch the interactive dashboard", Section: "Modes"},
	{Long: "repl", Help: "Start an interactive command prompt", Section: "Modes"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics on this address", Values: []string{":9090", "127.0.0.1:9090"}, ValueName: "address", Section: "Modes"},
	{Long: "metrics-origins", Help: "Origins allowed to read metrics", ValueName: "origins", Section: "Modes"},
	{Long: "timeout", Help: "Maximum run time", Values: []string{"10s", "30s", "1m", "5m"}, ValueName: "duration", Section: "Modes"},
	{Long: "quiet", Short: "q", Help: "Print only the final value", Section: "Output options"},
	{Long: "verbose", Short: "v", Help: "Print curve details and debug logs", Section: "Output options"},
	{Long: "no-color", Help: "Disable colored output", Section: "Output options"},
	{Long: "theme", Help: "Color theme", Values: []string{"dark", "light", "orange", "none"}, ValueName: "theme", Section: "Output options"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level", Section: "Output options"},
	{Long: "log-format", Help: "Log format", Values: []string{"console", "json", "plain"}, ValueName: "format", Section: "Output options"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell", Section: "Completion"},
}

// bashGroupValues defines the completion values used in bash for grouped flags.
var bashGroupValues = map[string][]string{
	"duration": {"250ms", "500ms", "1s", "2s", "5s"},
	"ratio":    {"0", "0.1", "0.25", "0.33", "0.5"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	case "powershell", "ps":
		return generatePowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	type caseEntry struct {
		patterns []string
		body     string
	}
	var cases []caseEntry

	// File flags first, then grouped flags, then the rest with static values.
	var filePatterns []string
	for _, f := range flagRegistry {
		if f.IsFile {
			filePatterns = append(filePatterns, "--"+f.Long)
		}
	}
	if len(filePatterns) > 0 {
		cases = append(cases, caseEntry{
			patterns: filePatterns,
			body:     `COMPREPLY=( $(compgen -f -- "${cur}") )`,
		})
	}

	seenGroups := map[string]bool{}
	for _, f := range flagRegistry {
		if f.BashGroup == "" || seenGroups[f.BashGroup] {
			continue
		}
		seenGroups[f.BashGroup] = true
		var patterns []string
		for _, gf := range flagRegistry {
			if gf.BashGroup == f.BashGroup {
				patterns = append(patterns, "--"+gf.Long)
			}
		}
		cases = append(cases, caseEntry{
			patterns: patterns,
			body:     fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(bashGroupValues[f.BashGroup], " ")),
		})
	}

	for _, f := range flagRegistry {
		if !f.IsFile && f.BashGroup == "" && len(f.Values) > 0 {
			cases = append(cases, caseEntry{
				patterns: []string{"--" + f.Long},
				body:     fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")),
			})
		}
	}

	var caseBody strings.Builder
	for _, c := range cases {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(c.patterns, "|"))
		caseBody.WriteString(")\n")
		caseBody.WriteString("            ")
		caseBody.WriteString(c.body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for easeplay
# Add this to your ~/.bashrc or ~/.bash_completion

_easeplay_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _easeplay_completions easeplay
`, strings.Join(opts, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef easeplay

# Zsh completion script for easeplay
# Add this to your ~/.zshrc or place in $fpath

_easeplay() {
    _arguments -s \
%s
}

_easeplay "$@"
`, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	lines := []string{
		"# Fish completion script for easeplay",
		"# Add this to ~/.config/fish/completions/easeplay.fish",
		"",
		"# Disable file completion by default",
		"complete -c easeplay -f",
	}

	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			section = f.Section
			lines = append(lines, "", "# "+section)
		}
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c easeplay"}
	if f.Short != "" {
		parts = append(parts, fmt.Sprintf("-s %s", f.Short))
	}
	parts = append(parts, fmt.Sprintf("-l %s", f.Long))
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer) error {
	var optionEntries []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		optionEntries = append(optionEntries, fmt.Sprintf(
			"        @{Name = '--%s'; Description = '%s' }", f.Long, f.Help))
	}

	var switchEntries []string
	for _, f := range flagRegistry {
		if f.IsFile || len(f.Values) == 0 {
			continue
		}
		quoted := make([]string, len(f.Values))
		for i, v := range f.Values {
			quoted[i] = fmt.Sprintf("'%s'", v)
		}
		switchEntries = append(switchEntries, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, strings.Join(quoted, ", ")))
	}

	script := fmt.Sprintf(`# PowerShell completion script for easeplay
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'easeplay' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	_, err := fmt.Fprint(out, script)
	return err
}

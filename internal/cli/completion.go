package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes one command-line flag for completion scripts.
type FlagCompletion struct {
	Long       string   // without "--"
	Short      string   // without "-"
	Help       string
	Values     []string // fixed suggestions
	ValueName  string   // non-empty when the flag takes a value
	IsFile     bool
	IsStrategy bool // values come from the strategy registry
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "dim", Short: "d", Help: "Dimension of the random operands", Values: []string{"64", "256", "512", "1024", "2048"}, ValueName: "dim"},
	{Long: "cap", Help: "Element cap of the random operands", Values: []string{"10", "100", "1000"}, ValueName: "cap"},
	{Long: "seed", Help: "Seed for the operand generator", ValueName: "seed"},
	{Long: "strategy", Help: "Multiplication strategy", IsStrategy: true, ValueName: "strategy"},
	{Long: "workers", Help: "Maximum concurrent row tasks", Values: []string{"0", "1", "2", "4", "8", "-1"}, ValueName: "count"},
	{Long: "rows-per-task", Help: "Output rows per parallel task", Values: []string{"0", "1", "4", "16", "64"}, ValueName: "rows"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "lhs", Help: "Left operand file", IsFile: true, ValueName: "file"},
	{Long: "rhs", Help: "Right operand file", IsFile: true, ValueName: "file"},
	{Long: "output", Short: "o", Help: "Write the product to a file", IsFile: true, ValueName: "file"},
	{Long: "show", Short: "c", Help: "Print the product matrix"},
	{Long: "verbose", Short: "v", Help: "Print the full product and debug logs"},
	{Long: "quiet", Short: "q", Help: "Print only the checksum"},
	{Long: "tui", Help: "Run in the interactive dashboard"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "calibrate", Help: "Run calibration mode"},
	{Long: "auto-calibrate", Help: "Calibrate before multiplying"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "memory-limit", Help: "Memory budget", Values: []string{"512MB", "1GB", "4GB"}, ValueName: "size"},
	{Long: "gc-mode", Help: "GC control during multiplication", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Long: "metrics-addr", Help: "Prometheus metrics address", ValueName: "addr"},
	{Long: "log-level", Help: "Log level", Values: []string{"trace", "debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes the completion script for shell. strategies
// are the registered strategy names; "all" is appended.
func GenerateCompletion(out io.Writer, shell string, strategies []string) error {
	choices := strings.Join(append(append([]string(nil), strategies...), "all"), " ")
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(choices)
	case "zsh":
		script = zshCompletion(choices)
	case "fish":
		script = fishCompletion(choices)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// flagNames returns the dash-prefixed spellings of f.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion(strategies string) string {
	var opts []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)
		switch {
		case f.IsFile:
			files = append(files, flagNames(f)...)
		case f.IsStrategy:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"${strategies}\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(flagNames(f), "|"))
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(flagNames(f), "|"), strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for matcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_matcalc_completions() {
    local cur prev opts strategies
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"
    strategies="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _matcalc_completions matcalc
`, strings.Join(opts, " "), strategies, cases.String())
}

func zshCompletion(strategies string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		var value string
		switch {
		case f.IsFile:
			value = fmt.Sprintf(":%s:_files", f.ValueName)
		case f.IsStrategy:
			value = fmt.Sprintf(":%s:($strategies)", f.ValueName)
		case len(f.Values) > 0:
			value = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			value = fmt.Sprintf(":%s:", f.ValueName)
		}
		if f.Short != "" {
			args = append(args, fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, value))
		} else {
			args = append(args, fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, value))
		}
	}

	return fmt.Sprintf(`#compdef matcalc

# Zsh completion script for matcalc
# Place this file in a directory of your $fpath

_matcalc() {
    local -a strategies
    strategies=(%s)

    _arguments -s \
%s
}

_matcalc "$@"
`, strategies, strings.Join(args, " \\\n"))
}

func fishCompletion(strategies string) string {
	lines := []string{
		"# Fish completion script for matcalc",
		"# Add this to ~/.config/fish/completions/matcalc.fish",
		"",
		"complete -c matcalc -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c matcalc"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case f.IsStrategy:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strategies))
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}

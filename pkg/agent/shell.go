package agent

import "strings"

// singleQuote wraps a string in single quotes, escaping any embedded single quotes.
func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// CommandLine renders argv as a copy-pasteable shell command. Arguments that
// need no quoting are left bare.
func CommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\$`*?;&|<>()[]{}!#~") {
			quoted[i] = arg
			continue
		}
		quoted[i] = singleQuote(arg)
	}
	return strings.Join(quoted, " ")
}

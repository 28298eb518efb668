package fsutil

import (
	"regexp"
	"strings"
)

// unsafeShellChar matches any byte that forces POSIX shell quoting;
// everything else (word chars plus a small punctuation allow-list) can
// be passed through unquoted.
var unsafeShellChar = regexp.MustCompile(`[^\w%+,./:=@-]`)

// ShellQuote quotes value so it is safe to embed in a POSIX shell
// command line, e.g. for logging the equivalent command a compression
// subprocess was invoked with. An already-single-quoted value is
// re-wrapped in double quotes rather than double-escaped.
func ShellQuote(value string) string {
	switch {
	case value == "":
		return "''"
	case len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'':
		return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
	case !unsafeShellChar.MatchString(value):
		return value
	default:
		return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
	}
}

package mycnf

import (
	"strconv"
	"strings"
)

// Rule rewrites a single option into zero or more replacement lines.
// An empty slice from Apply drops the option entirely.
type Rule interface {
	Apply(key, value string, hasValue bool) []string
	Reason() string
}

// templateRule substitutes ${key}/${value} into a fixed list of
// replacement option lines, mirroring the original's
// string.Template(...).safe_substitute(key=key, value=value).
type templateRule struct {
	options []string
	reason  string
}

// NewRule builds a plain substitution rule. Pass an empty options slice
// to mean "drop this option with no replacement".
func NewRule(reason string, options ...string) Rule {
	return &templateRule{options: options, reason: reason}
}

func (r *templateRule) Reason() string { return r.reason }

func (r *templateRule) Apply(key, value string, hasValue bool) []string {
	out := make([]string, 0, len(r.options))
	for _, tmpl := range r.options {
		line := strings.ReplaceAll(tmpl, "${key}", key)
		line = strings.ReplaceAll(line, "${value}", value)
		out = append(out, line)
	}
	return out
}

// slowLogRule rewrites the pre-5.1 log-slow-queries option into the
// modern slow-query-log/slow-query-log-file/log-slow-slave-statements
// triple, omitting the file option when no value was given so MySQL
// falls back to its default hostname-slow.log name.
type slowLogRule struct{}

func (slowLogRule) Reason() string { return "Logging options changed in MySQL 5.1" }

func (slowLogRule) Apply(key, value string, hasValue bool) []string {
	out := []string{"slow-query-log = 1"}
	if hasValue && value != "" {
		out = append(out, "slow-query-log-file = "+value)
	}
	out = append(out, "log-slow-slave-statements")
	return out
}

// innodbPluginRule strips ha_innodb_plugin.so references out of a
// plugin-load directive, leaving every other plugin entry untouched,
// since the InnoDB plugin is built in from MySQL 5.5 onward.
type innodbPluginRule struct{}

func (innodbPluginRule) Reason() string { return "InnoDB plugin is now the default in 5.5" }

func (innodbPluginRule) Apply(key, value string, hasValue bool) []string {
	var kept []string
	for _, entry := range strings.Split(value, ";") {
		lib := entry
		if idx := strings.Index(entry, "="); idx >= 0 {
			lib = entry[idx+1:]
		}
		if lib != "ha_innodb_plugin.so" {
			kept = append(kept, entry)
		}
	}
	if len(kept) == 0 {
		return []string{}
	}
	return []string{"plugin-load = " + strings.Join(kept, ";")}
}

// OptionRewriter holds a table of option-name -> Rule for one target
// MySQL version.
type OptionRewriter struct {
	Rules map[string]Rule
}

// Rewrite looks up key in the rule table and, if found, returns its
// replacement lines (possibly none) and true. Absent an entry it
// returns nil, false: the option is left untouched.
func (o *OptionRewriter) Rewrite(key, value string, hasValue bool) ([]string, bool) {
	rule, ok := o.Rules[key]
	if !ok {
		return nil, false
	}
	return rule.Apply(key, value, hasValue), true
}

func cloneRules(src map[string]Rule) map[string]Rule {
	out := make(map[string]Rule, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// MySQL51Rewriter captures options deprecated by MySQL 5.1, most of
// which disappear with no replacement by 5.5.
var MySQL51Rewriter = &OptionRewriter{Rules: map[string]Rule{
	"default-character-set": NewRule(
		"Deprecated in MySQL 5.0 in favor of character-set-server",
		"character-set-server = ${value}"),
	"default-collation": NewRule(
		"Deprecated in MySQL 4.1.3 in favor of collation-server",
		"collation-server = ${value}"),
	"default-table-type": NewRule(
		"Deprecated in MySQL 5.0 in favor of default-storage-engine",
		"default-storage-engine = ${value}"),
	"log-slow-queries": slowLogRule{},
	"table-cache": NewRule(
		"Table cache options changed in MySQL 5.1",
		"table-open-cache = ${value}",
		"table-definition-cache = ${value}"),
	"enable-pstack":          NewRule("Deprecated in MySQL 5.1.54"),
	"log-long-format":        NewRule("Deprecated in MySQL 4.1"),
	"log-short-format":       NewRule("Deprecated in MySQL 4.1. This option now does nothing."),
	"master-connect-retry":   NewRule("Deprecated in MySQL 5.1.17. Removed in 5.5"),
	"master-host":            NewRule("Deprecated in MySQL 5.1.17. Removed in 5.5"),
	"master-password":        NewRule("Deprecated in MySQL 5.1.17. Removed in 5.5"),
	"master-port":            NewRule("Deprecated in MySQL 5.1.17. Removed in 5.5"),
	"master-user":            NewRule("Deprecated in MySQL 5.1.17. Removed in 5.5"),
	"master-ssl":             NewRule("Deprecated in MySQL 5.1.17. Removed in 5.5"),
	"safe-mode":              NewRule("Deprecated in MySQL 5.0"),
	"safe-show-database":     NewRule("Deprecated in MySQL 4.0.2"),
	"skip-locking":           NewRule("Deprecated in MySQL 4.0.3. Removed in 5.5"),
	"skip-external-locking":  NewRule("Default behavior in MySQL 4.1+"),
	"skip-bdb":               NewRule("Removed in MySQL 5.1.11"),
	"skip-innodb":            NewRule("Default storage engine in 5.5"),
	"skip-thread-priority":   NewRule("Deprecated in MySQL 5.1.29"),
}}

// MySQL55Rewriter extends MySQL51Rewriter with the 5.5-era InnoDB
// plugin and thread-handling deprecations.
var MySQL55Rewriter = buildMySQL55Rewriter()

func buildMySQL55Rewriter() *OptionRewriter {
	rules := cloneRules(MySQL51Rewriter.Rules)
	rules["one-thread"] = NewRule(
		"Deprecated and removed in MySQL 5.6", "--thread-handling=no-threads")
	rules["ignore-builtin-innodb"] = NewRule("InnoDB plugin is now the default in 5.5")
	rules["plugin-load"] = innodbPluginRule{}
	return &OptionRewriter{Rules: rules}
}

// MySQL56Rewriter currently carries the same rules as 5.5.
var MySQL56Rewriter = &OptionRewriter{Rules: cloneRules(MySQL55Rewriter.Rules)}

// MySQL57Rewriter currently carries the same rules as 5.5.
var MySQL57Rewriter = &OptionRewriter{Rules: cloneRules(MySQL55Rewriter.Rules)}

// RewriterFor resolves a target version string ("5.1", "5.5", "5.6",
// "5.7") to its rule table.
func RewriterFor(target string) (*OptionRewriter, bool) {
	switch target {
	case "5.1":
		return MySQL51Rewriter, true
	case "5.5":
		return MySQL55Rewriter, true
	case "5.6":
		return MySQL56Rewriter, true
	case "5.7":
		return MySQL57Rewriter, true
	default:
		return nil, false
	}
}

// formatLineNumber renders a 1-based line number the way warning
// messages quote it.
func formatLineNumber(idx int) string {
	return strconv.Itoa(idx + 1)
}

// Package template rewrites project files by applying ordered substitution rules.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one substitution. Literal rules match Search verbatim; pattern rules treat Search
// as a multi-line regular expression. Replace is always inserted literally.
type Rule struct {
	Search  string
	Replace string
	Pattern bool
}

// Literal returns a rule replacing every occurrence of search.
// search is escaped, so user-controlled values never act as metacharacters.
func Literal(search, replace string) Rule {
	return Rule{Search: search, Replace: replace}
}

// Regexp returns a rule replacing every match of pattern. ^ and $ anchor at line boundaries.
func Regexp(pattern, replace string) Rule {
	return Rule{Search: pattern, Replace: replace, Pattern: true}
}

// Line returns a rule replacing the whole `KEY=...` line with `KEY="value"`.
// The match stops before any line terminator, so CRLF endings survive.
func Line(key, value string) Rule {
	return Regexp(`^`+regexp.QuoteMeta(key)+`=[^\r\n]*`, key+`="`+value+`"`)
}

func (r Rule) compile() (*regexp.Regexp, error) {
	if r.Search == "" {
		return nil, fmt.Errorf("substitution rule has an empty search token")
	}
	if r.Pattern {
		re, err := regexp.Compile("(?m)" + r.Search)
		if err != nil {
			return nil, fmt.Errorf("invalid substitution pattern %q: %w", r.Search, err)
		}
		return re, nil
	}
	return regexp.MustCompile(regexp.QuoteMeta(r.Search)), nil
}

func (r Rule) String() string {
	if r.Pattern {
		return "/" + r.Search + "/"
	}
	return fmt.Sprintf("%q", r.Search)
}

// Conflict records a rule whose replacement would be re-matched by a later rule.
type Conflict struct {
	Earlier int
	Later   int
}

// Check reports every pair of rules where an earlier replacement contains a later rule's search token.
func Check(rules []Rule) ([]Conflict, error) {
	compiled, err := compileAll(rules)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for i := range rules {
		for j := i + 1; j < len(rules); j++ {
			if compiled[j].MatchString(rules[i].Replace) {
				conflicts = append(conflicts, Conflict{Earlier: i, Later: j})
			}
		}
	}
	return conflicts, nil
}

// Apply applies rules to text in order, each globally, and returns the result.
// It refuses rule sets where a later rule would re-match an earlier replacement.
func Apply(text string, rules []Rule) (string, error) {
	compiled, err := compileAll(rules)
	if err != nil {
		return "", err
	}

	for i := range rules {
		for j := i + 1; j < len(rules); j++ {
			if compiled[j].MatchString(rules[i].Replace) {
				return "", fmt.Errorf("replacement of rule %s would be re-matched by rule %s", rules[i], rules[j])
			}
		}
	}

	for i, re := range compiled {
		text = re.ReplaceAllLiteralString(text, rules[i].Replace)
	}
	return text, nil
}

// HasLine reports whether text contains a `KEY=` line. It agrees with Line on LF and CRLF text.
func HasLine(text, key string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, key+"=") {
			return true
		}
	}
	return false
}

func compileAll(rules []Rule) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, len(rules))
	for i, r := range rules {
		re, err := r.compile()
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}
	return compiled, nil
}

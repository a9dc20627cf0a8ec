package label

import (
	"regexp"
	"strings"
	"time"
)

// Interpreted is the raw material for one event, before any time is resolved.
type Interpreted struct {
	Rule         string // name of the rule that matched
	Title        string
	StartToken   string
	EndToken     string
	ExplicitDate *time.Time // midnight in UTC of a "<Month> <Day>, <Year>" stamp, if any
	Raw          string
}

// Rule extracts title and time tokens from a label. Rules are tried in order
// and the first match wins.
type Rule interface {
	Name() string
	Match(label string) (title, start, end string, ok bool)
}

type regexRule struct {
	name                       string
	re                         *regexp.Regexp
	titleIdx, startIdx, endIdx int
}

func (r regexRule) Name() string { return r.name }

func (r regexRule) Match(label string) (string, string, string, bool) {
	m := r.re.FindStringSubmatch(label)
	if m == nil {
		return "", "", "", false
	}
	return m[r.titleIdx], m[r.startIdx], m[r.endIdx], true
}

const timeToken = `\d{1,2}(?::\d{2})?\s*(?:am|pm)?`

// RangedFirst matches "1:30pm to 2:30pm, Block, Jane Doe, ...".
var RangedFirst Rule = regexRule{
	name:     "ranged-first",
	re:       regexp.MustCompile(`(?i)^\s*(` + timeToken + `)\s*(?:to|–|—|-)\s*(` + timeToken + `)\s*,\s*([^,]+?)\s*(?:,|$)`),
	startIdx: 1, endIdx: 2, titleIdx: 3,
}

// Dated matches "Design Review, Monday, November 24⋅10:00 – 11:30am, ...".
var Dated Rule = regexRule{
	name:     "dated",
	re:       regexp.MustCompile(`(?i)^(.+?),\s*(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),\s*.+?⋅(.+?)\s*[–—-]\s*(.+?)(?:,|$)`),
	titleIdx: 1, startIdx: 2, endIdx: 3,
}

// DefaultRules is the rule order used when none is given.
var DefaultRules = []Rule{RangedFirst, Dated}

var (
	explicitDate = regexp.MustCompile(`(\w+)\s+(\d+),\s+(\d{4})`)
	clock24Token = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
)

// Options tunes the interpreter and the normalizer.
type Options struct {
	// Allow24Hour keeps labels with an HH:MM token even when they carry no am/pm marker.
	Allow24Hour bool
	// InheritMeridiem lets a bare start token borrow the end token's am/pm,
	// reading "1:00 – 2:30pm" as 13:00-14:30 instead of 01:00-14:30.
	InheritMeridiem bool
}

// Interpreter turns raw labels into Interpreted values.
type Interpreter struct {
	rules []Rule
	opts  Options
}

// Options returns the options the interpreter was built with.
func (in *Interpreter) Options() Options {
	return in.opts
}

// NewInterpreter returns an interpreter over rules, or DefaultRules when rules is empty.
func NewInterpreter(opts Options, rules ...Rule) *Interpreter {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Interpreter{rules: rules, opts: opts}
}

// Interpret applies the exclusion filters, then the rules in order.
// Labels that are filtered or match no rule return a *SkipError.
func (in *Interpreter) Interpret(raw string) (Interpreted, error) {
	if reason, skip := in.exclude(raw); skip {
		return Interpreted{}, &SkipError{Reason: reason, Label: raw}
	}

	for _, rule := range in.rules {
		title, start, end, ok := rule.Match(raw)
		if !ok {
			continue
		}
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		return Interpreted{
			Rule:         rule.Name(),
			Title:        title,
			StartToken:   strings.TrimSpace(start),
			EndToken:     strings.TrimSpace(end),
			ExplicitDate: findDate(raw),
			Raw:          raw,
		}, nil
	}

	return Interpreted{}, &SkipError{Reason: SkipUnmatchedFormat, Label: raw}
}

func (in *Interpreter) exclude(raw string) (SkipReason, bool) {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "working location"):
		return SkipWorkingLocation, true
	case strings.Contains(lower, "all day"):
		return SkipAllDay, true
	case !strings.Contains(lower, "am") && !strings.Contains(lower, "pm"):
		if in.opts.Allow24Hour && clock24Token.MatchString(raw) {
			return "", false
		}
		return SkipNoTimeMarker, true
	}
	return "", false
}

// findDate parses the first "<Month> <Day>, <Year>" stamp in the label.
// Only that stamp is considered; if it is not a real date the label has none.
func findDate(raw string) *time.Time {
	m := explicitDate.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	d, err := time.Parse("January 2 2006", m[1]+" "+m[2]+" "+m[3])
	if err != nil {
		return nil
	}
	return &d
}

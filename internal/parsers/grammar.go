package parsers

import "regexp"

// lineGrammar matches one kind of marker line and exposes its named captures.
type lineGrammar struct {
	re *regexp.Regexp
}

func grammar(pattern string) lineGrammar {
	return lineGrammar{re: regexp.MustCompile(pattern)}
}

// Match returns the named captures of line, or false when it does not match.
func (g lineGrammar) Match(line string) (Fields, bool) {
	return MatchFields(g.re, line)
}

// Diaginfo sub-section grammars.
var (
	historySummaryLine = grammar(`Items:(?P<items>\d+) values:(?P<values>\d+) time:(?P<time>[\d.]+)`)
	valueCacheSummary  = grammar(`Items:(?P<items>\d+) values:(?P<values>\d+) mode:(?P<mode>\d+) time:(?P<time>[\d.]+)`)
	preprocSummaryLine = grammar(`Values:(?P<values>\d+) done:(?P<done>\d+) queued:(?P<queued>\d+) processing:(?P<processing>\d+) pending:(?P<pending>\d+) time:(?P<time>[\d.]+)`)
	lldSummaryLine     = grammar(`Rules:(?P<rules>\d+) values:(?P<values>\d+) time:(?P<time>[\d.]+)`)
	alertingSummary    = grammar(`Alerts:(?P<alerts>\d+) time:(?P<time>[\d.]+)`)
	memorySizeLine     = grammar(`free:(?P<free>\d+) used:(?P<used>\d+)`)
	topValueRow        = grammar(`itemid:(?P<itemid>\d+) values:(?P<values>\d+)`)
	topRequestRow      = grammar(`itemid:(?P<itemid>\d+) values:(?P<values>\d+) request\.values:(?P<requests>\d+)`)
	topStepRow         = grammar(`itemid:(?P<itemid>\d+) values:(?P<values>\d+) steps:(?P<steps>\d+)`)
)

// Scalar-file grammars.
var (
	loadAverageLine = grammar(`load average:\s*(?P<one>[\d.]+),\s*(?P<five>[\d.]+),\s*(?P<fifteen>[\d.]+)`)
	uptimeSpanLine  = grammar(`up\s+(?P<span>.+?),\s+\d+\s+user`)
	nprocLine       = grammar(`^(?P<cores>\d+)$`)
)

// Loose JSON extraction. Greedy so nested objects are kept whole.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// statsFallback lists the fields recovered from zabbix_stats text when it
// does not parse as JSON. Each pattern has exactly one capture.
var statsFallback = []struct {
	key     string
	re      *regexp.Regexp
	numeric bool
}{
	{"hosts", regexp.MustCompile(`"hosts":\s*(\d+)`), true},
	{"items", regexp.MustCompile(`"items":\s*(\d+)`), true},
	{"triggers", regexp.MustCompile(`"triggers":\s*(\d+)`), true},
	{"version", regexp.MustCompile(`"version":\s*"([^"]+)"`), false},
	{"requiredperformance", regexp.MustCompile(`"requiredperformance":\s*([\d.]+)`), true},
	{"item_unsupported", regexp.MustCompile(`"item_unsupported":\s*(\d+)`), true},
	{"preprocessing_queue", regexp.MustCompile(`"preprocessing_queue":\s*(\d+)`), true},
	{"lld_queue", regexp.MustCompile(`"lld_queue":\s*(\d+)`), true},
}

package parsers

import (
	"encoding/json"
	"strconv"
	"strings"
)

// pythonLiterals maps the Python reprs emitted by the collector to JSON.
var pythonLiterals = strings.NewReplacer(
	"'", `"`,
	"True", "true",
	"False", "false",
	"None", "null",
)

// ParseZabbixStats decodes the zabbix_stats member.
//
// The collector writes a Python dict repr, so the outermost {...} is
// rewritten to JSON by swapping every single quote for a double quote and
// Python literals for JSON ones. The rewrite is blind: an apostrophe inside a
// string value corrupts the document, which then goes through the fallback.
//
// When no object is found or it does not decode, a fixed set of counters is
// pulled out with regular expressions and returned as {"data": {...}}.
func ParseZabbixStats(content string, opts Options) map[string]any {
	stats, err := decodeLooseJSON(content)
	if err == nil {
		return stats
	}
	opts.log().Warn("zabbix_stats is not valid JSON, using fallback extraction: %v", err)
	return ParseZabbixStatsFallback(content)
}

type noObjectError struct{}

func (noObjectError) Error() string { return "no JSON object found" }

func decodeLooseJSON(content string) (map[string]any, error) {
	raw := jsonObjectRe.FindString(content)
	if raw == "" {
		return nil, noObjectError{}
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(pythonLiterals.Replace(raw)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseZabbixStatsFallback extracts the known counters from raw text.
// Fields whose pattern does not match are left out. version stays a string;
// every other field is a float64.
func ParseZabbixStatsFallback(content string) map[string]any {
	data := make(map[string]any)
	for _, p := range statsFallback {
		m := p.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if !p.numeric {
			data[p.key] = m[1]
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			v = 0
		}
		data[p.key] = v
	}
	return map[string]any{"data": data}
}

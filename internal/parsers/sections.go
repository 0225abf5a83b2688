package parsers

import (
	"math"
	"strings"
)

// Known diaginfo section titles.
const (
	SectionHistoryCache  = "history cache diagnostic information"
	SectionValueCache    = "value cache diagnostic information"
	SectionPreprocessing = "preprocessing diagnostic information"
	SectionLLD           = "LLD diagnostic information"
	SectionAlerting      = "alerting diagnostic information"
	SectionLocks         = "locks diagnostic information"
)

// Sub-headers recognised inside sections.
const (
	headerMemoryData    = "Memory.data:"
	headerMemoryIndex   = "Memory.index:"
	headerMemory        = "Memory:"
	headerTopValues     = "Top.values:"
	headerTopRequestVal = "Top.request.values:"
)

// MemoryUsage is a `size: free:<n> used:<n>` line.
type MemoryUsage struct {
	Free  int64 `json:"free" yaml:"free"`
	Used  int64 `json:"used" yaml:"used"`
	Total int64 `json:"total" yaml:"total"`
	// UsedPercent is nil when Total is 0.
	UsedPercent *float64 `json:"usedPercent,omitempty" yaml:"usedPercent,omitempty"`
}

// TopValue is an `itemid:<n> values:<n>` row.
type TopValue struct {
	ItemID int64 `json:"itemid" yaml:"itemid"`
	Values int64 `json:"values" yaml:"values"`
}

// TopRequestValue is an `itemid:<n> values:<n> request.values:<n>` row.
type TopRequestValue struct {
	ItemID   int64 `json:"itemid" yaml:"itemid"`
	Values   int64 `json:"values" yaml:"values"`
	Requests int64 `json:"requests" yaml:"requests"`
}

// TopStepValue is an `itemid:<n> values:<n> steps:<n>` row.
type TopStepValue struct {
	ItemID int64 `json:"itemid" yaml:"itemid"`
	Values int64 `json:"values" yaml:"values"`
	Steps  int64 `json:"steps" yaml:"steps"`
}

type HistorySummary struct {
	Items  int64   `json:"items" yaml:"items"`
	Values int64   `json:"values" yaml:"values"`
	Time   float64 `json:"time" yaml:"time"`
}

// HistoryCacheReport is the history cache section.
type HistoryCacheReport struct {
	Summary     *HistorySummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	MemoryData  *MemoryUsage    `json:"memoryData,omitempty" yaml:"memoryData,omitempty"`
	MemoryIndex *MemoryUsage    `json:"memoryIndex,omitempty" yaml:"memoryIndex,omitempty"`
	TopValues   []TopValue      `json:"topValues,omitempty" yaml:"topValues,omitempty"`
}

type ValueCacheSummary struct {
	Items  int64   `json:"items" yaml:"items"`
	Values int64   `json:"values" yaml:"values"`
	Mode   int64   `json:"mode" yaml:"mode"`
	Time   float64 `json:"time" yaml:"time"`
}

// ValueCacheReport is the value cache section.
type ValueCacheReport struct {
	Summary     *ValueCacheSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Memory      *MemoryUsage       `json:"memory,omitempty" yaml:"memory,omitempty"`
	TopValues   []TopRequestValue  `json:"topValues,omitempty" yaml:"topValues,omitempty"`
	TopRequests []TopRequestValue  `json:"topRequests,omitempty" yaml:"topRequests,omitempty"`
}

type PreprocessingSummary struct {
	Values     int64   `json:"values" yaml:"values"`
	Done       int64   `json:"done" yaml:"done"`
	Queued     int64   `json:"queued" yaml:"queued"`
	Processing int64   `json:"processing" yaml:"processing"`
	Pending    int64   `json:"pending" yaml:"pending"`
	Time       float64 `json:"time" yaml:"time"`
}

// PreprocessingReport is the preprocessing section.
type PreprocessingReport struct {
	Summary   *PreprocessingSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	TopValues []TopStepValue        `json:"topValues,omitempty" yaml:"topValues,omitempty"`
}

type LLDSummary struct {
	Rules  int64   `json:"rules" yaml:"rules"`
	Values int64   `json:"values" yaml:"values"`
	Time   float64 `json:"time" yaml:"time"`
}

// LLDReport is the low-level discovery section.
type LLDReport struct {
	Summary   *LLDSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	TopValues []TopValue  `json:"topValues,omitempty" yaml:"topValues,omitempty"`
}

// AlertingReport is the alerting section.
type AlertingReport struct {
	Alerts *int64   `json:"alerts,omitempty" yaml:"alerts,omitempty"`
	Time   *float64 `json:"time,omitempty" yaml:"time,omitempty"`
}

// Lock is one mutex line from the locks section.
type Lock struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
}

// DiaginfoReport holds every recognised section. A nil field means the
// section was not present.
type DiaginfoReport struct {
	HistoryCache  *HistoryCacheReport  `json:"historyCache,omitempty" yaml:"historyCache,omitempty"`
	ValueCache    *ValueCacheReport    `json:"valueCache,omitempty" yaml:"valueCache,omitempty"`
	Preprocessing *PreprocessingReport `json:"preprocessing,omitempty" yaml:"preprocessing,omitempty"`
	LLD           *LLDReport           `json:"lld,omitempty" yaml:"lld,omitempty"`
	Alerting      *AlertingReport      `json:"alerting,omitempty" yaml:"alerting,omitempty"`
	Locks         []Lock               `json:"locks,omitempty" yaml:"locks,omitempty"`
}

// ParseDiaginfoSections runs the matching sub-parser over every known
// section in sections.
func ParseDiaginfoSections(sections map[string][]string) *DiaginfoReport {
	r := &DiaginfoReport{}
	if lines, ok := sections[SectionHistoryCache]; ok {
		r.HistoryCache = ParseHistoryCache(lines)
	}
	if lines, ok := sections[SectionValueCache]; ok {
		r.ValueCache = ParseValueCache(lines)
	}
	if lines, ok := sections[SectionPreprocessing]; ok {
		r.Preprocessing = ParsePreprocessing(lines)
	}
	if lines, ok := sections[SectionLLD]; ok {
		r.LLD = ParseLLD(lines)
	}
	if lines, ok := sections[SectionAlerting]; ok {
		r.Alerting = ParseAlerting(lines)
	}
	if lines, ok := sections[SectionLocks]; ok {
		r.Locks = ParseLocks(lines)
	}
	return r
}

type scanState int

const (
	stateIdle       scanState = iota
	stateMemory               // after a Memory sub-header, waiting for its size line
	stateCollecting           // inside a Top.* list
)

// blockScanner tracks which sub-header a section scan is under.
type blockScanner struct {
	state   scanState
	header  string
	headers map[string]scanState
}

func newBlockScanner(headers map[string]scanState) *blockScanner {
	return &blockScanner{headers: headers}
}

func (s *blockScanner) reset() {
	s.state, s.header = stateIdle, ""
}

// observe consumes structural lines. It returns true when line changed the
// state and carries no data.
func (s *blockScanner) observe(line string) bool {
	if line == "" || strings.HasPrefix(line, "==") {
		s.reset()
		return true
	}
	if next, ok := s.headers[line]; ok {
		s.state, s.header = next, line
		return true
	}
	// Unknown Top.* lists end the current one.
	if strings.HasPrefix(line, "Top.") && strings.HasSuffix(line, ":") {
		s.reset()
		return true
	}
	return false
}

func (s *blockScanner) in(state scanState, header string) bool {
	return s.state == state && s.header == header
}

// parseMemoryUsage reads a `size: free:<n> used:<n>` line.
func parseMemoryUsage(line string) (*MemoryUsage, bool) {
	if !strings.HasPrefix(line, "size:") {
		return nil, false
	}
	f, ok := memorySizeLine.Match(line)
	if !ok {
		return nil, false
	}
	u := &MemoryUsage{Free: f.Int("free"), Used: f.Int("used")}
	u.Total = u.Free + u.Used
	if u.Total > 0 {
		pct := math.Round(float64(u.Used)/float64(u.Total)*100*100) / 100
		u.UsedPercent = &pct
	}
	return u, true
}

// ParseHistoryCache parses the history cache section lines.
func ParseHistoryCache(lines []string) *HistoryCacheReport {
	r := &HistoryCacheReport{}
	s := newBlockScanner(map[string]scanState{
		headerMemoryData:  stateMemory,
		headerMemoryIndex: stateMemory,
		headerTopValues:   stateCollecting,
	})

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if s.observe(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Items:"):
			if f, ok := historySummaryLine.Match(line); ok {
				r.Summary = &HistorySummary{Items: f.Int("items"), Values: f.Int("values"), Time: f.Float("time")}
			}
		case s.state == stateMemory:
			if u, ok := parseMemoryUsage(line); ok {
				if s.header == headerMemoryData {
					r.MemoryData = u
				} else {
					r.MemoryIndex = u
				}
			}
		case s.in(stateCollecting, headerTopValues):
			if f, ok := topValueRow.Match(line); ok {
				r.TopValues = append(r.TopValues, TopValue{ItemID: f.Int("itemid"), Values: f.Int("values")})
			}
		}
	}
	return r
}

// ParseValueCache parses the value cache section lines.
func ParseValueCache(lines []string) *ValueCacheReport {
	r := &ValueCacheReport{}
	s := newBlockScanner(map[string]scanState{
		headerMemory:        stateMemory,
		headerTopValues:     stateCollecting,
		headerTopRequestVal: stateCollecting,
	})

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if s.observe(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Items:"):
			if f, ok := valueCacheSummary.Match(line); ok {
				r.Summary = &ValueCacheSummary{
					Items:  f.Int("items"),
					Values: f.Int("values"),
					Mode:   f.Int("mode"),
					Time:   f.Float("time"),
				}
			}
		case s.in(stateMemory, headerMemory):
			if u, ok := parseMemoryUsage(line); ok {
				r.Memory = u
			}
		case s.state == stateCollecting:
			f, ok := topRequestRow.Match(line)
			if !ok {
				continue
			}
			row := TopRequestValue{ItemID: f.Int("itemid"), Values: f.Int("values"), Requests: f.Int("requests")}
			if s.header == headerTopValues {
				r.TopValues = append(r.TopValues, row)
			} else {
				r.TopRequests = append(r.TopRequests, row)
			}
		}
	}
	return r
}

// ParsePreprocessing parses the preprocessing section lines.
func ParsePreprocessing(lines []string) *PreprocessingReport {
	r := &PreprocessingReport{}
	s := newBlockScanner(map[string]scanState{headerTopValues: stateCollecting})

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if s.observe(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Values:"):
			if f, ok := preprocSummaryLine.Match(line); ok {
				r.Summary = &PreprocessingSummary{
					Values:     f.Int("values"),
					Done:       f.Int("done"),
					Queued:     f.Int("queued"),
					Processing: f.Int("processing"),
					Pending:    f.Int("pending"),
					Time:       f.Float("time"),
				}
			}
		case s.in(stateCollecting, headerTopValues):
			if f, ok := topStepRow.Match(line); ok {
				r.TopValues = append(r.TopValues, TopStepValue{ItemID: f.Int("itemid"), Values: f.Int("values"), Steps: f.Int("steps")})
			}
		}
	}
	return r
}

// ParseLLD parses the LLD section lines.
func ParseLLD(lines []string) *LLDReport {
	r := &LLDReport{}
	s := newBlockScanner(map[string]scanState{headerTopValues: stateCollecting})

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if s.observe(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Rules:"):
			if f, ok := lldSummaryLine.Match(line); ok {
				r.Summary = &LLDSummary{Rules: f.Int("rules"), Values: f.Int("values"), Time: f.Float("time")}
			}
		case s.in(stateCollecting, headerTopValues):
			if f, ok := topValueRow.Match(line); ok {
				r.TopValues = append(r.TopValues, TopValue{ItemID: f.Int("itemid"), Values: f.Int("values")})
			}
		}
	}
	return r
}

// ParseAlerting parses the alerting section lines.
func ParseAlerting(lines []string) *AlertingReport {
	r := &AlertingReport{}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "Alerts:") {
			continue
		}
		if f, ok := alertingSummary.Match(line); ok {
			alerts, t := f.Int("alerts"), f.Float("time")
			r.Alerts, r.Time = &alerts, &t
		}
	}
	return r
}

// ParseLocks parses `<name>:0x<addr>` lines from the locks section.
func ParseLocks(lines []string) []Lock {
	locks := make([]Lock, 0)
	for _, raw := range lines {
		if !strings.Contains(raw, ":0x") {
			continue
		}
		parts := strings.SplitN(raw, ":", 3)
		locks = append(locks, Lock{
			Name:    strings.TrimSpace(parts[0]),
			Address: strings.TrimSpace(parts[1]),
		})
	}
	return locks
}

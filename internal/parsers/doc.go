// Package parsers turns the text members of a Zabbix diagnostic bundle into
// typed records.
//
// Every parser is total: it accepts arbitrary text and returns a best-effort
// result, possibly empty. Malformed rows are dropped, a failing primary
// strategy falls back to a cheaper one, and missing input leaves fields
// unset. Log output is advisory and never changes what is returned.
package parsers

import "github.com/zinspect/zinspect/internal/logger"

// DefaultProcessMarker is the binary name ps_aux lines are filtered on.
const DefaultProcessMarker = "zabbix_server"

// Options carries the collaborators shared by parsers.
type Options struct {
	// ProcessMarker filters ps_aux lines. Empty means DefaultProcessMarker.
	ProcessMarker string
	// Logger receives advisory messages. Nil means logger.Default().
	Logger logger.Logger
}

func (o Options) log() logger.Logger {
	if o.Logger == nil {
		return logger.Default()
	}
	return o.Logger
}

func (o Options) marker() string {
	if o.ProcessMarker == "" {
		return DefaultProcessMarker
	}
	return o.ProcessMarker
}

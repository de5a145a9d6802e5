package models

import "strings"

// SourceID identifies an upstream exchange endpoint.
type SourceID string

const (
	SourceTWSE   SourceID = "twse"
	SourceTPEX   SourceID = "tpex"
	SourceTAIFEX SourceID = "taifex"
)

// Market presets map a market name to the sources that publish it.
var Markets = map[string][]SourceID{
	"stock":   {SourceTWSE, SourceTPEX},
	"futures": {SourceTAIFEX},
}

// ParseSourceIDs splits a comma separated list like "twse,tpex".
func ParseSourceIDs(s string) []SourceID {
	var out []SourceID
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		out = append(out, SourceID(part))
	}
	return out
}

// FetchTask is one (date, source) unit of work.
type FetchTask struct {
	Date   string   `json:"date"`
	Source SourceID `json:"data_source"`
}

func (t FetchTask) String() string {
	return string(t.Source) + "@" + t.Date
}

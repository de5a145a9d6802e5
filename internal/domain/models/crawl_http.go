package models

// CrawlRequest starts a background crawl. Sources, when given, override Market.
type CrawlRequest struct {
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Market    string   `json:"market" default:"stock" validate:"oneof=stock futures"`
	Sources   []string `json:"sources" validate:"omitempty,dive,oneof=twse tpex taifex"`
}

// SourceIDs resolves the sources to crawl.
func (r *CrawlRequest) SourceIDs() []SourceID {
	if len(r.Sources) == 0 {
		return Markets[r.Market]
	}
	out := make([]SourceID, len(r.Sources))
	for i, s := range r.Sources {
		out[i] = SourceID(s)
	}
	return out
}

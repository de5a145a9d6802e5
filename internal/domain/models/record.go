package models

// TradingSession tells regular and after-hours futures sessions apart.
type TradingSession string

const (
	SessionPosition    TradingSession = "Position"
	SessionAfterMarket TradingSession = "AfterMarket"
)

// Dataset names double as schema names and sink table names.
const (
	DatasetStockPrice   = "TaiwanStockPrice"
	DatasetFuturesDaily = "TaiwanFuturesDaily"
)

// Record is a validated canonical row ready for a sink.
type Record interface {
	Dataset() string
	// Key returns the upsert key (Date, StockID|FuturesID).
	Key() (date string, id string)
}

// TaiwanStockPrice is the daily quote of a listed (twse) or OTC (tpex) security.
type TaiwanStockPrice struct {
	StockID        string         `json:"StockID" validate:"required"`
	Date           string         `json:"Date" validate:"required,datetime=2006-01-02"`
	TradeVolume    float64        `json:"TradeVolume"`
	Transaction    float64        `json:"Transaction"`
	TradeValue     float64        `json:"TradeValue"`
	Open           float64        `json:"Open"`
	Max            float64        `json:"Max"`
	Min            float64        `json:"Min"`
	Close          float64        `json:"Close"`
	Change         float64        `json:"Change"`
	TradingSession TradingSession `json:"TradingSession" default:"Position" validate:"oneof=Position AfterMarket"`
}

func (r *TaiwanStockPrice) Dataset() string { return DatasetStockPrice }

func (r *TaiwanStockPrice) Key() (string, string) { return r.Date, r.StockID }

// TaiwanFuturesDaily is one futures contract month's daily summary.
type TaiwanFuturesDaily struct {
	FuturesID       string         `json:"FuturesID" validate:"required"`
	Date            string         `json:"Date" validate:"required,datetime=2006-01-02"`
	ContractDate    string         `json:"ContractDate"`
	Open            float64        `json:"Open"`
	Max             float64        `json:"Max"`
	Min             float64        `json:"Min"`
	Close           float64        `json:"Close"`
	Change          float64        `json:"Change"`
	ChangePer       float64        `json:"ChangePer"`
	Volume          float64        `json:"Volume"`
	SettlementPrice float64        `json:"SettlementPrice"`
	OpenInterest    float64        `json:"OpenInterest"`
	TradingSession  TradingSession `json:"TradingSession" default:"Position" validate:"oneof=Position AfterMarket"`
}

func (r *TaiwanFuturesDaily) Dataset() string { return DatasetFuturesDaily }

func (r *TaiwanFuturesDaily) Key() (string, string) { return r.Date, r.FuturesID }

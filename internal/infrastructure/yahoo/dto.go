package yahoo

// Wire types for the Yahoo Finance v8 chart endpoint. Numeric arrays may
// contain nulls for missing sessions, hence the pointers.

type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

type Meta struct {
	Symbol              string   `json:"symbol"`
	Currency            string   `json:"currency"`
	LongName            string   `json:"longName"`
	ShortName           string   `json:"shortName"`
	RegularMarketPrice  *float64 `json:"regularMarketPrice"`
	RegularMarketDayLow *float64 `json:"regularMarketDayLow"`
	RegularMarketDayHi  *float64 `json:"regularMarketDayHigh"`
}

type Indicators struct {
	Quote []QuoteIndicator `json:"quote"`
}

type QuoteIndicator struct {
	Open  []*float64 `json:"open"`
	High  []*float64 `json:"high"`
	Low   []*float64 `json:"low"`
	Close []*float64 `json:"close"`
}

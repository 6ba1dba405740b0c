package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Fund struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Risk        string  `json:"risk"`
	Sector      string  `json:"sector"`
	Returns     float64 `json:"returns"`
}

type HistoryPoint struct {
	Date   string  `json:"date"`
	Risk   int     `json:"risk"`
	Return float64 `json:"return"`
}

// FundDetail is encoded flat: the fund fields sit next to history.
type FundDetail struct {
	Fund
	History []HistoryPoint `json:"history"`
}

type Analysis struct {
	Summary string `json:"summary"`
}

type Message struct {
	Message string `json:"message"`
}

const NoMatchMessage = "No exact match found. Try adjusting your risk or sector preferences."

// Recommendation holds either a non-empty list of matching funds or the no-match message.
type Recommendation struct {
	matches []Fund
}

func Matches(funds []Fund) Recommendation {
	return Recommendation{matches: funds}
}

func NoMatch() Recommendation {
	return Recommendation{}
}

func (r Recommendation) Matched() bool {
	return len(r.matches) > 0
}

func (r Recommendation) Funds() []Fund {
	return r.matches
}

func (r Recommendation) Message() string {
	if r.Matched() {
		return ""
	}

	return NoMatchMessage
}

// MarshalJSON keeps the wire shape existing clients read: an array of funds,
// or a single-element array holding the message.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	if r.Matched() {
		return json.Marshal(r.matches)
	}

	return json.Marshal([]Message{{Message: NoMatchMessage}})
}

type RecommendationReq struct {
	Risk   *string `json:"risk"`
	Sector *string `json:"sector"`
}

type PredictionInput struct {
	FundType          string `json:"fundType"`
	Sector            string `json:"sector"`
	HistoricalReturns Number `json:"historicalReturns"`
	Volatility        Number `json:"volatility"`
}

type PredictionOutput struct {
	RiskLevel string  `json:"riskLevel"`
	Returns   float64 `json:"returns"`
}

// Number decodes from a JSON number or a numeric string. Set reports whether
// the field was present and not null.
type Number struct {
	Value float64
	Set   bool
}

func NewNumber(v float64) Number {
	return Number{Value: v, Set: true}
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}

	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("parse number %q: %w", s, err)
		}

		*n = NewNumber(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*n = NewNumber(v)
	return nil
}

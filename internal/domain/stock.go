package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Weekdays are the seven record keys, Sunday first to line up with
// time.Weekday ordering.
var Weekdays = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var (
	// DefaultPrice is assigned to a stock on lazy creation.
	DefaultPrice = decimal.NewFromInt(100)

	// MinPrice is the floor a price can never drop below.
	MinPrice = decimal.New(1, -2) // 0.01
)

// WeekdayKey maps a point in time to its UTC weekday record key.
func WeekdayKey(t time.Time) string {
	return Weekdays[int(t.UTC().Weekday())]
}

// Record buckets cumulative buy/sell activity per weekday.
type Record map[string]decimal.Decimal

// NewRecord returns a record with all seven weekdays zeroed.
func NewRecord() Record {
	r := make(Record, len(Weekdays))
	for _, day := range Weekdays {
		r[day] = decimal.Zero
	}
	return r
}

// Repair ensures the record carries exactly the seven weekday keys.
// Missing keys are zeroed, unknown keys dropped.
func (r Record) Repair() {
	for key := range r {
		known := false
		for _, day := range Weekdays {
			if key == day {
				known = true
				break
			}
		}
		if !known {
			delete(r, key)
		}
	}
	for _, day := range Weekdays {
		if _, ok := r[day]; !ok {
			r[day] = decimal.Zero
		}
	}
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Action is a trade verb accepted by the dealer endpoint.
type Action string

const (
	ActionGet  Action = "get"
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// ParseAction validates a trade verb. Anything outside get/buy/sell is
// rejected before it can reach the ledger.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionGet, ActionBuy, ActionSell:
		return Action(s), nil
	default:
		return "", ErrBadAction
	}
}

// ParseAmount coerces a caller-supplied amount into a decimal. Unparsable
// input coerces to zero, which turns the trade into a price no-op.
func ParseAmount(v any) decimal.Decimal {
	switch val := v.(type) {
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// Stock is a named entry of the ledger.
type Stock struct {
	Name   string
	Price  decimal.Decimal
	Record Record
}

// NewStock creates a stock with the default price and a zeroed record.
func NewStock(name string) *Stock {
	return &Stock{
		Name:   name,
		Price:  DefaultPrice,
		Record: NewRecord(),
	}
}

// Repair normalizes a stock loaded from an untrusted document.
func (s *Stock) Repair() {
	if s.Record == nil {
		s.Record = NewRecord()
		return
	}
	s.Record.Repair()
}

// Apply mutates the stock for one trade. The price floors at 0.01, the
// weekday accumulator floors at 0; the two quantities keep distinct floors
// on purpose (a quote must stay positive, activity bottoms out at none).
func (s *Stock) Apply(action Action, amount decimal.Decimal, today string) {
	switch action {
	case ActionBuy:
		s.Price = s.Price.Add(amount)
		s.Record[today] = s.Record[today].Add(amount)
	case ActionSell:
		s.Price = s.Price.Sub(amount)
		if s.Price.LessThan(MinPrice) {
			s.Price = MinPrice
		}
		s.Record[today] = s.Record[today].Sub(amount)
		if s.Record[today].IsNegative() {
			s.Record[today] = decimal.Zero
		}
	}
}

// Clone returns an independent copy of the stock.
func (s *Stock) Clone() Stock {
	return Stock{Name: s.Name, Price: s.Price, Record: s.Record.Clone()}
}

type stockWire struct {
	Name   string                 `json:"name"`
	Price  json.Number            `json:"price"`
	Record map[string]json.Number `json:"record"`
}

// MarshalJSON encodes price and record entries as bare JSON numbers, the
// shape the persisted document and the HTTP responses share.
func (s Stock) MarshalJSON() ([]byte, error) {
	w := stockWire{
		Name:   s.Name,
		Price:  json.Number(s.Price.String()),
		Record: make(map[string]json.Number, len(s.Record)),
	}
	for day, v := range s.Record {
		w.Record[day] = json.Number(v.String())
	}
	return json.Marshal(w)
}

type stockRaw struct {
	Name   string                     `json:"name"`
	Price  json.RawMessage            `json:"price"`
	Record map[string]json.RawMessage `json:"record"`
}

// UnmarshalJSON tolerates documents written by older variants: the price
// may arrive as a number or a quoted string, record entries that are not
// numeric are repaired to 0, missing weekdays are filled in.
func (s *Stock) UnmarshalJSON(data []byte) error {
	var raw stockRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.Name
	s.Price = decimalFromRaw(raw.Price, DefaultPrice)
	s.Record = make(Record, len(Weekdays))
	for day, v := range raw.Record {
		s.Record[day] = decimalFromRaw(v, decimal.Zero)
	}
	s.Repair()
	return nil
}

func decimalFromRaw(raw json.RawMessage, fallback decimal.Decimal) decimal.Decimal {
	trimmed := bytes.TrimSpace(raw)
	trimmed = bytes.Trim(trimmed, `"`)
	if len(trimmed) == 0 {
		return fallback
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return fallback
	}
	return d
}

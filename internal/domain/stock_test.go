package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewStock_Defaults(t *testing.T) {
	st := NewStock("ACME")

	if !st.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected default price 100, got %v", st.Price)
	}
	if len(st.Record) != 7 {
		t.Fatalf("Expected 7 weekday keys, got %d", len(st.Record))
	}
	for _, day := range Weekdays {
		if !st.Record[day].IsZero() {
			t.Errorf("Expected %s to be 0, got %v", day, st.Record[day])
		}
	}
}

func TestStock_ApplyBuy(t *testing.T) {
	st := NewStock("ACME")
	st.Apply(ActionBuy, decimal.NewFromInt(25), "Monday")

	if !st.Price.Equal(decimal.NewFromInt(125)) {
		t.Errorf("Expected price 125, got %v", st.Price)
	}
	if !st.Record["Monday"].Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected Monday record 25, got %v", st.Record["Monday"])
	}
	if !st.Record["Tuesday"].IsZero() {
		t.Errorf("Other weekdays must stay 0, got %v", st.Record["Tuesday"])
	}
}

func TestStock_ApplySellClampsPrice(t *testing.T) {
	st := NewStock("ACME")
	st.Apply(ActionBuy, decimal.NewFromInt(25), "Monday")
	st.Apply(ActionSell, decimal.NewFromInt(200), "Monday")

	if !st.Price.Equal(MinPrice) {
		t.Errorf("Expected price clamped to 0.01, got %v", st.Price)
	}
	// 25 - 200 floors at 0, not at 0.01: the record is an activity
	// counter, not a quote.
	if !st.Record["Monday"].IsZero() {
		t.Errorf("Expected Monday record clamped to 0, got %v", st.Record["Monday"])
	}
}

func TestStock_ApplyGetIsNoop(t *testing.T) {
	st := NewStock("ACME")
	st.Apply(ActionGet, decimal.NewFromInt(50), "Monday")

	if !st.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("get must not move the price, got %v", st.Price)
	}
	if !st.Record["Monday"].IsZero() {
		t.Errorf("get must not touch the record, got %v", st.Record["Monday"])
	}
}

func TestParseAction(t *testing.T) {
	for _, verb := range []string{"get", "buy", "sell"} {
		if _, err := ParseAction(verb); err != nil {
			t.Errorf("%q should parse, got %v", verb, err)
		}
	}
	for _, verb := range []string{"", "steal", "GET", "Buy"} {
		if _, err := ParseAction(verb); err != ErrBadAction {
			t.Errorf("%q should be rejected with ErrBadAction, got %v", verb, err)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"25", "25"},
		{"0.5", "0.5"},
		{"-3", "-3"},
		{float64(12.5), "12.5"},
		{json.Number("7"), "7"},
		{"abc", "0"},
		{nil, "0"},
		{true, "0"},
		{"", "0"},
	}
	for _, c := range cases {
		got := ParseAmount(c.in)
		if got.String() != c.want {
			t.Errorf("ParseAmount(%v): expected %s, got %s", c.in, c.want, got)
		}
	}
}

func TestRecord_Repair(t *testing.T) {
	r := Record{
		"Monday": decimal.NewFromInt(3),
		"Bogus":  decimal.NewFromInt(9),
	}
	r.Repair()

	if len(r) != 7 {
		t.Fatalf("Expected exactly 7 keys, got %d", len(r))
	}
	if _, ok := r["Bogus"]; ok {
		t.Error("Unknown keys must be dropped")
	}
	if !r["Monday"].Equal(decimal.NewFromInt(3)) {
		t.Errorf("Known values must survive repair, got %v", r["Monday"])
	}
	if !r["Sunday"].IsZero() {
		t.Errorf("Missing keys must be zeroed, got %v", r["Sunday"])
	}
}

func TestStock_MarshalJSON_NumberPrice(t *testing.T) {
	st := NewStock("ACME")
	st.Apply(ActionBuy, decimal.NewFromInt(25), "Monday")

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"price":125`) {
		t.Errorf("Price must encode as a bare number: %s", s)
	}
	if strings.Contains(s, `"price":"125"`) {
		t.Errorf("Price must not encode as a string: %s", s)
	}
	if !strings.Contains(s, `"Monday":25`) {
		t.Errorf("Record entries must encode as bare numbers: %s", s)
	}
}

func TestStock_UnmarshalJSON_RepairsVariants(t *testing.T) {
	raw := `{"name":"ACME","price":"12.5","record":{"Monday":"oops","Tuesday":4,"Bogus":1}}`

	var st Stock
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatal(err)
	}

	if !st.Price.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("String price must decode, got %v", st.Price)
	}
	if !st.Record["Monday"].IsZero() {
		t.Errorf("Non-numeric record entry must repair to 0, got %v", st.Record["Monday"])
	}
	if !st.Record["Tuesday"].Equal(decimal.NewFromInt(4)) {
		t.Errorf("Numeric record entry must survive, got %v", st.Record["Tuesday"])
	}
	if len(st.Record) != 7 {
		t.Errorf("Record must carry exactly 7 keys, got %d", len(st.Record))
	}
}

func TestStock_UnmarshalJSON_MalformedPriceDefaults(t *testing.T) {
	var st Stock
	if err := json.Unmarshal([]byte(`{"name":"X","price":"??","record":{}}`), &st); err != nil {
		t.Fatal(err)
	}
	if !st.Price.Equal(DefaultPrice) {
		t.Errorf("Malformed price must fall back to 100, got %v", st.Price)
	}
}

func TestWeekdayKey_UTC(t *testing.T) {
	// 2024-01-01 was a Monday.
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := WeekdayKey(monday); got != "Monday" {
		t.Errorf("Expected Monday, got %s", got)
	}

	// 23:30 in UTC+5 is already Tuesday locally but still Monday in UTC.
	late := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC).In(time.FixedZone("plus5", 5*3600))
	if got := WeekdayKey(late); got != "Monday" {
		t.Errorf("Weekday must be derived from UTC, got %s", got)
	}
}

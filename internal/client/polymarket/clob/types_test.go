package clob

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimalUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"0.48"`, "0.48"},
		{`0.48`, "0.48"},
		{`null`, "0"},
		{`"12"`, "12"},
	}
	for _, tc := range cases {
		var d Decimal
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		want, _ := decimal.NewFromString(tc.want)
		if !d.Decimal.Equal(want) {
			t.Fatalf("%s: got %s want %s", tc.in, d.Decimal, want)
		}
	}
	var d Decimal
	if err := json.Unmarshal([]byte(`"abc"`), &d); err == nil {
		t.Fatalf("garbage decimal accepted: %s", d.Decimal)
	}
}

func TestOrderUnmarshalShapes(t *testing.T) {
	cases := []string{
		`["0.48", "100"]`,
		`[0.48, 100]`,
		`{"price": "0.48", "size": "100"}`,
		`{"price": 0.48, "qty": 100}`,
	}
	for _, in := range cases {
		var o Order
		if err := json.Unmarshal([]byte(in), &o); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if o.Price.InexactFloat64() != 0.48 || o.Size.InexactFloat64() != 100 {
			t.Fatalf("%s: got %s/%s", in, o.Price, o.Size)
		}
	}
}

func TestParseOrderBook(t *testing.T) {
	body := []byte(`{
		"market": "0xabc",
		"asset_id": "7137",
		"bids": [{"price": "0.47", "size": "50"}, {"price": "0.48", "size": "100"}],
		"asks": [["0.52", "200"]]
	}`)
	book, err := parseOrderBook(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 1 {
		t.Fatalf("levels=%d/%d want=2/1", len(book.Bids), len(book.Asks))
	}
	if book.Asks[0].Price.InexactFloat64() != 0.52 {
		t.Fatalf("ask price=%s", book.Asks[0].Price)
	}
}

func TestParsePrice(t *testing.T) {
	got, err := parsePrice([]byte(`{"price": "0.515"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Decimal.InexactFloat64() != 0.515 {
		t.Fatalf("price=%s", got.Decimal)
	}
	if _, err := parsePrice([]byte(`{"mid": "0.5"}`)); err == nil {
		t.Fatalf("missing price accepted")
	}
}

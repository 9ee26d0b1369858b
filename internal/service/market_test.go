package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneyline/internal/book"
	"moneyline/internal/client/polymarket/clob"
)

func TestBookFromOrders(t *testing.T) {
	ob := &clob.OrderBook{
		Bids: []clob.Order{
			{Price: decimal.NewFromFloat(0.52), Size: decimal.NewFromFloat(100)},
			{Price: decimal.NewFromFloat(0.50), Size: decimal.NewFromFloat(40)},
		},
		Asks: []clob.Order{
			{Price: decimal.NewFromFloat(0.55), Size: decimal.NewFromFloat(80)},
		},
	}
	stats := book.Analyze(bookFromOrders(ob))
	if stats.BestBid != 0.52 || stats.BidVolume != 100 {
		t.Fatalf("bid=%v/%v", stats.BestBid, stats.BidVolume)
	}
	if stats.BestAsk != 0.55 || stats.AskVolume != 80 {
		t.Fatalf("ask=%v/%v", stats.BestAsk, stats.AskVolume)
	}
}

func TestBookFromOrders_NilBook(t *testing.T) {
	stats := book.Analyze(bookFromOrders(nil))
	if stats != (book.Stats{}) {
		t.Fatalf("stats=%+v want zero", stats)
	}
}

package service

import (
	"testing"

	"moneyline/internal/book"
)

func TestMarketProbs_MapsByTeam(t *testing.T) {
	books := []BookStats{
		{Team: "Los Angeles Lakers", Stats: book.Stats{BestBid: 0.5, BidVolume: 10, BestAsk: 0.75, AskVolume: 5, Spread: 0.25}},
		{Team: "Boston Celtics", Stats: book.Stats{BestAsk: 0.45, AskVolume: 8, Spread: 0.45}},
		{Team: ""},
	}
	away, home := marketProbs(books, "Lakers", "Celtics")
	if away != 0.625 {
		t.Fatalf("away=%v want 0.625", away)
	}
	if home != 0.45 {
		t.Fatalf("home=%v want 0.45", home)
	}
}

func TestOffersFromBooks_FallsBackToOutcome(t *testing.T) {
	books := []BookStats{
		{Team: "Los Angeles Lakers", TokenID: "tok-a", Stats: book.Stats{BestAsk: 0.52, AskVolume: 5}},
		{Team: "", Outcome: "Celtics", TokenID: "tok-b", Stats: book.Stats{BestAsk: 0.5, AskVolume: 3}},
	}
	offers := offersFromBooks(books)
	if len(offers) != 2 {
		t.Fatalf("offers=%d want 2", len(offers))
	}
	if offers[0].Team != "Los Angeles Lakers" || offers[0].BestAsk != 0.52 {
		t.Fatalf("offer a=%+v", offers[0])
	}
	if offers[1].Team != "Celtics" || offers[1].TokenID != "tok-b" {
		t.Fatalf("offer b=%+v", offers[1])
	}
}

func TestMarketProbs_UnmatchedTeamsStayZero(t *testing.T) {
	books := []BookStats{
		{Team: "Chicago Bulls", Stats: book.Stats{BestBid: 0.5, BidVolume: 1, BestAsk: 0.52, AskVolume: 1}},
	}
	away, home := marketProbs(books, "Lakers", "Celtics")
	if away != 0 || home != 0 {
		t.Fatalf("probs=%v/%v want 0/0", away, home)
	}
}

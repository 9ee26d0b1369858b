package service

import (
	"testing"

	"moneyline/internal/client/oddsapi"
	"moneyline/internal/odds"
)

func TestQuotesFromEvent_OneQuotePerBook(t *testing.T) {
	ev := &oddsapi.Event{
		AwayTeam: "Los Angeles Lakers",
		HomeTeam: "Boston Celtics",
		Bookmakers: []oddsapi.Bookmaker{
			{
				Key: "pinnacle",
				Markets: []oddsapi.Market{{
					Key: "h2h",
					Outcomes: []oddsapi.Outcome{
						{Name: "Los Angeles Lakers", Price: 2.10},
						{Name: "Boston Celtics", Price: 1.78},
					},
				}},
			},
			{
				Key: "draftkings",
				Markets: []oddsapi.Market{{
					Key: "h2h",
					Outcomes: []oddsapi.Outcome{
						{Name: "Los Angeles Lakers", Price: 2.05},
						{Name: "Boston Celtics", Price: 1.80},
					},
				}},
			},
			{
				// No head-to-head market; contributes nothing.
				Key:     "bovada",
				Markets: []oddsapi.Market{{Key: "spreads"}},
			},
		},
	}
	away, home := quotesFromEvent(ev, odds.FormatDecimal)
	if len(away) != 2 || len(home) != 2 {
		t.Fatalf("quotes=%d/%d want 2/2", len(away), len(home))
	}
	if away[0].Source != "pinnacle" || away[0].Price != 2.10 {
		t.Fatalf("away[0]=%+v", away[0])
	}
	if home[1].Source != "draftkings" || home[1].Price != 1.80 {
		t.Fatalf("home[1]=%+v", home[1])
	}
	for _, q := range append(away, home...) {
		if q.Format != odds.FormatDecimal {
			t.Fatalf("format=%q", q.Format)
		}
	}
}

func TestQuotesFromEvent_MissingOutcomeSkipped(t *testing.T) {
	ev := &oddsapi.Event{
		AwayTeam: "Los Angeles Lakers",
		HomeTeam: "Boston Celtics",
		Bookmakers: []oddsapi.Bookmaker{{
			Key: "fanduel",
			Markets: []oddsapi.Market{{
				Key:      "h2h",
				Outcomes: []oddsapi.Outcome{{Name: "Boston Celtics", Price: 1.75}},
			}},
		}},
	}
	away, home := quotesFromEvent(ev, odds.FormatDecimal)
	if len(away) != 0 {
		t.Fatalf("away=%d want 0", len(away))
	}
	if len(home) != 1 || home[0].Price != 1.75 {
		t.Fatalf("home=%+v", home)
	}
}

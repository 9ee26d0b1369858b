package oddsapi

import (
	"encoding/json"
	"testing"
)

const sampleOdds = `[
  {
    "id": "e912304de2b2ce35b473ce2ecd3d1502",
    "sport_key": "basketball_nba",
    "sport_title": "NBA",
    "commence_time": "2026-01-15T00:10:00Z",
    "home_team": "Boston Celtics",
    "away_team": "Los Angeles Lakers",
    "bookmakers": [
      {
        "key": "draftkings",
        "title": "DraftKings",
        "last_update": "2026-01-14T23:58:01Z",
        "markets": [
          {
            "key": "h2h",
            "last_update": "2026-01-14T23:58:01Z",
            "outcomes": [
              {"name": "Boston Celtics", "price": 1.62},
              {"name": "Los Angeles Lakers", "price": 2.34}
            ]
          }
        ]
      }
    ]
  }
]`

func TestDecodeOddsResponse(t *testing.T) {
	var events []Event
	if err := json.Unmarshal([]byte(sampleOdds), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events=%d want=1", len(events))
	}
	ev := events[0]
	if ev.HomeTeam != "Boston Celtics" || ev.AwayTeam != "Los Angeles Lakers" {
		t.Fatalf("teams=%q/%q", ev.AwayTeam, ev.HomeTeam)
	}
	if ev.CommenceTime.IsZero() {
		t.Fatalf("commence time not parsed")
	}
	m, ok := ev.Bookmakers[0].Market(MarketH2H)
	if !ok {
		t.Fatalf("h2h market missing")
	}
	o, ok := m.Outcome("Los Angeles Lakers")
	if !ok || o.Price != 2.34 {
		t.Fatalf("outcome=%+v ok=%v", o, ok)
	}
	if _, ok := m.Outcome("Chicago Bulls"); ok {
		t.Fatalf("unexpected outcome match")
	}
	if _, ok := ev.Bookmakers[0].Market("spreads"); ok {
		t.Fatalf("unexpected market match")
	}
}

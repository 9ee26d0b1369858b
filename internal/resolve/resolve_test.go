package resolve

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"moneyline/internal/client/oddsapi"
	polymarketgamma "moneyline/internal/client/polymarket/gamma"
)

func TestNormalizeTeam(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Los Angeles Lakers", "los angeles lakers"},
		{"  Boston   Celtics ", "boston celtics"},
		{"LAKERS", "lakers"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTeam(tc.in); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestTeamTokens(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Los Angeles Lakers", []string{"lakers", "angeles"}},
		{"Lakers", []string{"lakers"}},
		{"New York Knicks", []string{"knicks", "york"}},
		{"St. Louis Blues", []string{"blues", "louis"}},
		{"", nil},
	}
	for _, tc := range cases {
		if got := TeamTokens(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func mkOddsEvents() []oddsapi.Event {
	return []oddsapi.Event{
		{
			ID:           "clippers-game",
			CommenceTime: time.Date(2026, 1, 15, 0, 10, 0, 0, time.UTC),
			AwayTeam:     "Los Angeles Clippers",
			HomeTeam:     "Boston Celtics",
		},
		{
			ID:           "lakers-game",
			CommenceTime: time.Date(2026, 1, 15, 0, 10, 0, 0, time.UTC),
			AwayTeam:     "Los Angeles Lakers",
			HomeTeam:     "Boston Celtics",
		},
		{
			ID:           "lakers-next-week",
			CommenceTime: time.Date(2026, 1, 22, 0, 10, 0, 0, time.UTC),
			AwayTeam:     "Los Angeles Lakers",
			HomeTeam:     "Boston Celtics",
		},
	}
}

func TestFindOddsEventDisambiguates(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	ev, err := FindOddsEvent(mkOddsEvents(), "Lakers", "Celtics", date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ev.ID != "lakers-game" {
		t.Fatalf("matched %s", ev.ID)
	}
	ev, err = FindOddsEvent(mkOddsEvents(), "Clippers", "Celtics", date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ev.ID != "clippers-game" {
		t.Fatalf("matched %s", ev.ID)
	}
}

func TestFindOddsEventUsesCallerTimezone(t *testing.T) {
	// Tip-off 2026-01-15T00:10Z is the evening of the 14th US eastern time.
	eastern := time.FixedZone("ET", -5*3600)
	date := time.Date(2026, 1, 14, 0, 0, 0, 0, eastern)
	ev, err := FindOddsEvent(mkOddsEvents(), "Lakers", "Celtics", date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ev.ID != "lakers-game" {
		t.Fatalf("matched %s", ev.ID)
	}

	wrongDay := time.Date(2026, 1, 15, 0, 0, 0, 0, eastern)
	if _, err := FindOddsEvent(mkOddsEvents(), "Lakers", "Celtics", wrongDay); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err=%v want ErrEventNotFound", err)
	}
}

func TestFindOddsEventNotFound(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := FindOddsEvent(mkOddsEvents(), "Bulls", "Celtics", date); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err=%v want ErrEventNotFound", err)
	}
	if _, err := FindOddsEvent(nil, "Lakers", "Celtics", date); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("empty list: err=%v want ErrEventNotFound", err)
	}
}

func mkGammaEvents() []polymarketgamma.Event {
	return []polymarketgamma.Event{
		{
			ID:    "1",
			Slug:  "nba-lac-bos-2026-01-15",
			Title: "Clippers vs. Celtics",
		},
		{
			ID:    "2",
			Slug:  "nba-lal-bos-2026-01-15",
			Title: "Lakers vs. Celtics",
		},
		{
			ID:        "3",
			Slug:      "nba-lal-bos-game-2",
			Title:     "Lakers vs. Celtics",
			StartDate: polymarketgamma.Timestamp{Time: time.Date(2026, 1, 17, 0, 10, 0, 0, time.UTC)},
		},
	}
}

func TestFindGammaEventBySlugDate(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	ev, err := FindGammaEvent(mkGammaEvents(), "Los Angeles Lakers", "Boston Celtics", date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ev.ID != "2" {
		t.Fatalf("matched %s", ev.ID)
	}
}

func TestFindGammaEventPrefersFullTokenMatch(t *testing.T) {
	// Both titles carry "angeles"; only the full-token pass can tell the
	// two Los Angeles teams apart.
	events := []polymarketgamma.Event{
		{ID: "lac", Slug: "nba-lac-bos-2026-01-15", Title: "Los Angeles Clippers vs. Boston Celtics"},
		{ID: "lal", Slug: "nba-lal-bos-2026-01-15", Title: "Los Angeles Lakers vs. Boston Celtics"},
	}
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	ev, err := FindGammaEvent(events, "Los Angeles Lakers", "Boston Celtics", date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ev.ID != "lal" {
		t.Fatalf("matched %s", ev.ID)
	}
}

func TestFindGammaEventByStartDate(t *testing.T) {
	date := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)
	ev, err := FindGammaEvent(mkGammaEvents(), "Lakers", "Celtics", date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ev.ID != "3" {
		t.Fatalf("matched %s", ev.ID)
	}

	if _, err := FindGammaEvent(mkGammaEvents(), "Lakers", "Celtics", date.AddDate(0, 0, 5)); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err=%v want ErrEventNotFound", err)
	}
}

func TestMoneylineMarket(t *testing.T) {
	ev := &polymarketgamma.Event{
		Slug: "nba-lal-bos-2026-01-15",
		Markets: []polymarketgamma.Market{
			{Slug: "nba-lal-bos-2026-01-15-total-2255", Question: "Total points"},
			{Slug: "nba-lal-bos-2026-01-15", Question: "Lakers vs. Celtics"},
		},
	}
	m, err := MoneylineMarket(ev)
	if err != nil {
		t.Fatalf("moneyline: %v", err)
	}
	if m.Question != "Lakers vs. Celtics" {
		t.Fatalf("matched %q", m.Question)
	}

	single := &polymarketgamma.Event{
		Slug:    "nba-lal-bos-2026-01-15",
		Markets: []polymarketgamma.Market{{Slug: "other", Question: "only one"}},
	}
	if m, err := MoneylineMarket(single); err != nil || m.Question != "only one" {
		t.Fatalf("single market: %v %v", m, err)
	}

	none := &polymarketgamma.Event{
		Slug: "nba-lal-bos-2026-01-15",
		Markets: []polymarketgamma.Market{
			{Slug: "a"}, {Slug: "b"},
		},
	}
	if _, err := MoneylineMarket(none); !errors.Is(err, ErrMarketNotFound) {
		t.Fatalf("err=%v want ErrMarketNotFound", err)
	}
}

func TestOutcomeTokens(t *testing.T) {
	m := &polymarketgamma.Market{
		Slug:         "nba-lal-bos-2026-01-15",
		Outcomes:     polymarketgamma.StringList{"Lakers", "Celtics"},
		ClobTokenIDs: polymarketgamma.StringList{"7137", "7138"},
	}
	tokens, err := OutcomeTokens(m)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if len(tokens) != 2 || tokens[0].TokenID != "7137" || tokens[1].Outcome != "Celtics" {
		t.Fatalf("tokens=%+v", tokens)
	}

	bad := &polymarketgamma.Market{
		Outcomes:     polymarketgamma.StringList{"Lakers", "Celtics"},
		ClobTokenIDs: polymarketgamma.StringList{"7137"},
	}
	if _, err := OutcomeTokens(bad); !errors.Is(err, ErrMarketNotFound) {
		t.Fatalf("err=%v want ErrMarketNotFound", err)
	}
}

func TestMatchOutcome(t *testing.T) {
	tokens := []OutcomeToken{
		{Outcome: "Lakers", TokenID: "7137"},
		{Outcome: "Celtics", TokenID: "7138"},
	}
	ot, ok := MatchOutcome(tokens, "Los Angeles Lakers")
	if !ok || ot.TokenID != "7137" {
		t.Fatalf("match=%+v ok=%v", ot, ok)
	}
	ot, ok = MatchOutcome(tokens, "celtics")
	if !ok || ot.TokenID != "7138" {
		t.Fatalf("match=%+v ok=%v", ot, ok)
	}
	if _, ok := MatchOutcome(tokens, "Bulls"); ok {
		t.Fatalf("unexpected match")
	}
}

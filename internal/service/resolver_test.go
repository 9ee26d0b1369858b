package service

import (
	"context"
	"testing"
	"time"

	"moneyline/internal/client/oddsapi"
	polymarketgamma "moneyline/internal/client/polymarket/gamma"
	"moneyline/internal/models"
)

func mkGammaGameEvent() *polymarketgamma.Event {
	return &polymarketgamma.Event{
		ID:    "ev-9",
		Slug:  "nba-lal-bos-2026-01-15",
		Title: "Lakers vs. Celtics",
		Markets: []polymarketgamma.Market{
			{
				ID:           "m-1",
				Question:     "Lakers vs. Celtics",
				Slug:         "nba-lal-bos-2026-01-15",
				Outcomes:     polymarketgamma.StringList{"Lakers", "Celtics"},
				ClobTokenIDs: polymarketgamma.StringList{"tok-a", "tok-b"},
				Active:       true,
			},
			{
				ID:   "m-2",
				Slug: "nba-lal-bos-2026-01-15-spread",
			},
		},
	}
}

func TestApplyGammaLink_SetsLinkAndTeams(t *testing.T) {
	game := &models.Game{ID: "g1", AwayTeam: "Los Angeles Lakers", HomeTeam: "Boston Celtics"}
	tokens, ok := applyGammaLink(game, mkGammaGameEvent(), nil)
	if !ok {
		t.Fatalf("link failed")
	}
	if game.GammaEventID == nil || *game.GammaEventID != "ev-9" {
		t.Fatalf("gamma_event_id=%v", game.GammaEventID)
	}
	if game.MarketID == nil || *game.MarketID != "m-1" {
		t.Fatalf("market_id=%v", game.MarketID)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens=%d want 2", len(tokens))
	}
	byID := map[string]models.OutcomeToken{}
	for _, tok := range tokens {
		byID[tok.TokenID] = tok
	}
	if byID["tok-a"].Team != "Los Angeles Lakers" {
		t.Fatalf("tok-a team=%q", byID["tok-a"].Team)
	}
	if byID["tok-b"].Team != "Boston Celtics" {
		t.Fatalf("tok-b team=%q", byID["tok-b"].Team)
	}
	if !byID["tok-a"].Active {
		t.Fatalf("tok-a should be active")
	}
}

func TestApplyGammaLink_NoMoneylineMarket(t *testing.T) {
	game := &models.Game{ID: "g1", AwayTeam: "Lakers", HomeTeam: "Celtics"}
	gev := &polymarketgamma.Event{
		Slug:    "nba-lal-bos-2026-01-15",
		Markets: []polymarketgamma.Market{{Slug: "a"}, {Slug: "b"}},
	}
	if _, ok := applyGammaLink(game, gev, nil); ok {
		t.Fatalf("expected link failure")
	}
	if game.GammaEventID != nil {
		t.Fatalf("game should stay unlinked")
	}
}

func TestGameFromOddsEvent_BucketsDateInLocation(t *testing.T) {
	// 02:30Z is still the previous evening US eastern time.
	eastern := time.FixedZone("ET", -5*3600)
	ev := &oddsapi.Event{
		ID:           "odds-1",
		SportKey:     "basketball_nba",
		CommenceTime: time.Date(2026, 1, 15, 2, 30, 0, 0, time.UTC),
		AwayTeam:     "Los Angeles Lakers",
		HomeTeam:     "Boston Celtics",
	}
	game := gameFromOddsEvent(ev, "ignored", eastern)
	if game.GameDate != "2026-01-14" {
		t.Fatalf("game_date=%q want 2026-01-14", game.GameDate)
	}
	if game.Sport != "basketball_nba" {
		t.Fatalf("sport=%q", game.Sport)
	}
	if game.CommenceTime == nil || !game.CommenceTime.Equal(ev.CommenceTime) {
		t.Fatalf("commence_time=%v", game.CommenceTime)
	}

	utcGame := gameFromOddsEvent(ev, "ignored", time.UTC)
	if utcGame.GameDate != "2026-01-15" {
		t.Fatalf("utc game_date=%q want 2026-01-15", utcGame.GameDate)
	}
}

func TestFindStored_MatchesNicknames(t *testing.T) {
	store := newStubStore()
	store.games["g1"] = models.Game{
		ID:       "g1",
		AwayTeam: "Los Angeles Lakers",
		HomeTeam: "Boston Celtics",
		GameDate: "2026-01-15",
	}
	svc := &ResolverService{Store: store}
	q := GameQuery{Away: "Lakers", Home: "Celtics", Date: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)}
	game, err := svc.FindStored(context.Background(), q)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if game == nil || game.ID != "g1" {
		t.Fatalf("game=%+v", game)
	}

	q.Home = "Bulls"
	game, err = svc.FindStored(context.Background(), q)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if game != nil {
		t.Fatalf("unexpected match %+v", game)
	}
}

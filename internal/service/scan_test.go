package service

import (
	"context"
	"testing"
	"time"

	polymarketgamma "moneyline/internal/client/polymarket/gamma"
	"moneyline/internal/models"
)

func TestLinkFromPrefetched_MatchesAndLinks(t *testing.T) {
	store := newStubStore()
	svc := &ScanService{Store: store}
	commence := time.Date(2026, 1, 15, 0, 10, 0, 0, time.UTC)
	game := &models.Game{
		ID:           "g1",
		AwayTeam:     "Los Angeles Lakers",
		HomeTeam:     "Boston Celtics",
		CommenceTime: &commence,
	}
	tokens, err := svc.linkFromPrefetched(context.Background(), game, []polymarketgamma.Event{*mkGammaGameEvent()}, time.UTC)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens=%d want 2", len(tokens))
	}
	if game.GammaSlug == nil || *game.GammaSlug != "nba-lal-bos-2026-01-15" {
		t.Fatalf("gamma_slug=%v", game.GammaSlug)
	}
}

func TestLinkFromPrefetched_CarriesForwardExistingLink(t *testing.T) {
	store := newStubStore()
	eventID := "ev-old"
	store.games["g1"] = models.Game{
		ID:           "g1",
		AwayTeam:     "Los Angeles Lakers",
		HomeTeam:     "Boston Celtics",
		GammaEventID: &eventID,
	}
	svc := &ScanService{Store: store}
	commence := time.Date(2026, 1, 15, 0, 10, 0, 0, time.UTC)
	game := &models.Game{
		ID:           "g1",
		AwayTeam:     "Los Angeles Lakers",
		HomeTeam:     "Boston Celtics",
		CommenceTime: &commence,
	}
	tokens, err := svc.linkFromPrefetched(context.Background(), game, nil, time.UTC)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("tokens=%d want 0", len(tokens))
	}
	if game.GammaEventID == nil || *game.GammaEventID != "ev-old" {
		t.Fatalf("existing link lost: %v", game.GammaEventID)
	}
}

package resolve

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"moneyline/internal/client/oddsapi"
	polymarketgamma "moneyline/internal/client/polymarket/gamma"
)

var (
	// ErrEventNotFound means no provider event matched the teams and date.
	ErrEventNotFound = errors.New("event not found")
	// ErrMarketNotFound means the event exists but carries no usable
	// moneyline market.
	ErrMarketNotFound = errors.New("market not found")
)

// NormalizeTeam lowercases a team name and collapses interior whitespace.
func NormalizeTeam(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// TeamTokens extracts the significant words of a team name: the final word
// (the nickname) plus every word longer than three characters. "Los
// Angeles Lakers" becomes lakers and angeles, which is enough to tell the
// two Los Angeles teams apart.
func TeamTokens(name string) []string {
	words := strings.Fields(NormalizeTeam(name))
	if len(words) == 0 {
		return nil
	}
	tokens := []string{words[len(words)-1]}
	seen := map[string]bool{tokens[0]: true}
	for _, w := range words[:len(words)-1] {
		if len(w) > 3 && !seen[w] {
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func containsAll(haystack string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func containsAny(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}

// TeamMatches reports whether a provider's team name refers to the queried
// team. The query may be a nickname or the full name.
func TeamMatches(provider, query string) bool {
	p := NormalizeTeam(provider)
	q := NormalizeTeam(query)
	if p == q {
		return true
	}
	return containsAll(p, TeamTokens(q))
}

// sameLocalDate compares the calendar date of ts and date in date's
// location, so callers decide which timezone "tonight's game" refers to.
func sameLocalDate(ts, date time.Time) bool {
	y1, m1, d1 := ts.In(date.Location()).Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FindOddsEvent picks the sportsbook event where both teams match and the
// game falls on the requested local date.
func FindOddsEvent(events []oddsapi.Event, away, home string, date time.Time) (*oddsapi.Event, error) {
	for i := range events {
		ev := &events[i]
		if !TeamMatches(ev.AwayTeam, away) || !TeamMatches(ev.HomeTeam, home) {
			continue
		}
		if !sameLocalDate(ev.CommenceTime, date) {
			continue
		}
		return ev, nil
	}
	return nil, fmt.Errorf("%w: %s @ %s on %s", ErrEventNotFound, away, home, date.Format("2006-01-02"))
}

// FindGammaEvent picks the prediction-market event whose title names both
// teams and whose slug or start time lands on the requested date. Game
// slugs usually embed the date, so that check comes first. Titles are
// matched on every team token first; short titles ("Lakers vs. Celtics"
// queried with full sportsbook names) get a second pass that accepts any
// single token per side.
func FindGammaEvent(events []polymarketgamma.Event, away, home string, date time.Time) (*polymarketgamma.Event, error) {
	dateStr := date.Format("2006-01-02")
	awayTokens := TeamTokens(away)
	homeTokens := TeamTokens(home)
	for _, strict := range []bool{true, false} {
		for i := range events {
			ev := &events[i]
			title := NormalizeTeam(ev.Title)
			if !titleMatches(title, awayTokens, strict) || !titleMatches(title, homeTokens, strict) {
				continue
			}
			if strings.Contains(ev.Slug, dateStr) {
				return ev, nil
			}
			if !ev.StartDate.IsZero() && sameLocalDate(ev.StartDate.Time, date) {
				return ev, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s @ %s on %s", ErrEventNotFound, away, home, dateStr)
}

func titleMatches(title string, tokens []string, strict bool) bool {
	if len(tokens) == 0 {
		return false
	}
	if strict {
		return containsAll(title, tokens)
	}
	return containsAny(title, tokens)
}

// MoneylineMarket returns the event's headline market. The moneyline
// shares the event's own slug; derivative markets (totals, spreads) carry
// suffixed slugs. An event with a single market is taken at face value.
func MoneylineMarket(ev *polymarketgamma.Event) (*polymarketgamma.Market, error) {
	if ev == nil {
		return nil, ErrMarketNotFound
	}
	for i := range ev.Markets {
		if ev.Markets[i].Slug == ev.Slug {
			return &ev.Markets[i], nil
		}
	}
	if len(ev.Markets) == 1 {
		return &ev.Markets[0], nil
	}
	return nil, fmt.Errorf("%w: no moneyline market under event %s", ErrMarketNotFound, ev.Slug)
}

// OutcomeToken pairs an outcome label with its CLOB token id.
type OutcomeToken struct {
	Outcome string
	TokenID string
}

// OutcomeTokens zips a market's outcome labels with its token ids.
func OutcomeTokens(m *polymarketgamma.Market) ([]OutcomeToken, error) {
	if m == nil {
		return nil, ErrMarketNotFound
	}
	if len(m.Outcomes) == 0 || len(m.Outcomes) != len(m.ClobTokenIDs) {
		return nil, fmt.Errorf("%w: market %s has %d outcomes and %d token ids",
			ErrMarketNotFound, m.Slug, len(m.Outcomes), len(m.ClobTokenIDs))
	}
	out := make([]OutcomeToken, 0, len(m.Outcomes))
	for i := range m.Outcomes {
		out = append(out, OutcomeToken{Outcome: m.Outcomes[i], TokenID: m.ClobTokenIDs[i]})
	}
	return out, nil
}

// MatchOutcome finds the outcome referring to the given team. Either side
// may be the longer form of the name.
func MatchOutcome(tokens []OutcomeToken, team string) (OutcomeToken, bool) {
	for _, ot := range tokens {
		if TeamMatches(ot.Outcome, team) || TeamMatches(team, ot.Outcome) {
			return ot, true
		}
	}
	return OutcomeToken{}, false
}

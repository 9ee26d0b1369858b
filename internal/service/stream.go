package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"moneyline/internal/book"
	"moneyline/internal/client/polymarket/clob"
	"moneyline/internal/compare"
	"moneyline/internal/models"
	"moneyline/internal/repository"
)

// StreamService keeps market_stats_latest current from the CLOB websocket.
// It mirrors each subscribed token's book in memory: full snapshots replace
// it, price changes patch single levels, and every update re-analyzes the
// top of book. Rows written here carry source=ws.
type StreamService struct {
	Store  repository.Repository
	Logger *zap.Logger

	mu    sync.Mutex
	books map[string]*liveBook
	meta  map[string]tokenMeta
}

type StreamOptions struct {
	URL             string
	RefreshInterval time.Duration
	MaxAssets       int
}

// liveBook is one token's resting liquidity, size by price.
type liveBook struct {
	bids map[float64]float64
	asks map[float64]float64
}

func newLiveBook() *liveBook {
	return &liveBook{
		bids: map[float64]float64{},
		asks: map[float64]float64{},
	}
}

func (lb *liveBook) toBook() book.Book {
	var b book.Book
	for price, size := range lb.bids {
		b.Bids = append(b.Bids, book.Level{Price: price, Size: size})
	}
	for price, size := range lb.asks {
		b.Asks = append(b.Asks, book.Level{Price: price, Size: size})
	}
	return b
}

// tokenMeta labels a token's stats rows without hitting the database on
// every tick.
type tokenMeta struct {
	gameID  string
	market  string
	outcome string
}

func (s *StreamService) RunMarketStream(ctx context.Context, opts StreamOptions) error {
	if s.Logger != nil {
		s.Logger.Info("market stream starting",
			zap.String("url", opts.URL),
			zap.Duration("refresh_interval", opts.RefreshInterval),
			zap.Int("max_assets", opts.MaxAssets),
		)
	}
	stream := clob.NewMarketStream(clob.MarketStreamOptions{
		URL: opts.URL,
		AssetIDProvider: func(ctx context.Context) ([]string, error) {
			ids, err := s.Store.ListActiveTokenIDs(ctx, opts.MaxAssets)
			if err != nil && s.Logger != nil {
				s.Logger.Warn("fetch stream token ids failed", zap.Error(err))
			}
			return ids, err
		},
		RefreshInterval: opts.RefreshInterval,
		Logger:          s.Logger,
	})
	return stream.Run(ctx, func(env clob.MarketEnvelope, raw []byte) {
		s.handleMarketMessage(ctx, env, raw)
	})
}

func (s *StreamService) handleMarketMessage(ctx context.Context, env clob.MarketEnvelope, raw []byte) {
	if s == nil || s.Store == nil {
		return
	}
	// Snapshots for a fresh subscription arrive as an array of events.
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			for _, item := range items {
				var inner clob.MarketEnvelope
				_ = json.Unmarshal(item, &inner)
				s.handleMarketMessage(ctx, inner, item)
			}
		}
		return
	}

	tokenID := strings.TrimSpace(env.AssetID)
	if tokenID == "" {
		tokenID = extractTokenID(raw)
	}
	switch normalizeEventType(env.EventType, raw) {
	case "book":
		if err := s.handleBook(ctx, tokenID, raw); err != nil && s.Logger != nil {
			s.Logger.Warn("handle book failed", zap.String("token_id", tokenID), zap.Error(err))
		}
	case "price_change":
		if err := s.handlePriceChange(ctx, tokenID, raw); err != nil && s.Logger != nil {
			s.Logger.Warn("handle price_change failed", zap.String("token_id", tokenID), zap.Error(err))
		}
	}
}

func (s *StreamService) handleBook(ctx context.Context, tokenID string, raw []byte) error {
	if tokenID == "" {
		return fmt.Errorf("token_id missing")
	}
	bids, asks, err := parseBookPayload(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.books == nil {
		s.books = map[string]*liveBook{}
	}
	lb := newLiveBook()
	for _, lvl := range bids {
		if lvl.Size > 0 {
			lb.bids[lvl.Price] = lvl.Size
		}
	}
	for _, lvl := range asks {
		if lvl.Size > 0 {
			lb.asks[lvl.Price] = lvl.Size
		}
	}
	s.books[tokenID] = lb
	snapshot := lb.toBook()
	s.mu.Unlock()

	return s.persistBook(ctx, tokenID, snapshot, raw)
}

func (s *StreamService) handlePriceChange(ctx context.Context, tokenID string, raw []byte) error {
	if tokenID == "" {
		return fmt.Errorf("token_id missing")
	}
	changes := parsePriceChanges(raw)
	if len(changes) == 0 {
		return nil
	}
	s.mu.Lock()
	if s.books == nil {
		s.books = map[string]*liveBook{}
	}
	lb, ok := s.books[tokenID]
	if !ok {
		// No snapshot yet; patches alone cannot rebuild the book.
		s.mu.Unlock()
		return nil
	}
	for _, ch := range changes {
		side := lb.bids
		if ch.Sell {
			side = lb.asks
		}
		if ch.Size <= 0 {
			delete(side, ch.Price)
		} else {
			side[ch.Price] = ch.Size
		}
	}
	snapshot := lb.toBook()
	s.mu.Unlock()

	return s.persistBook(ctx, tokenID, snapshot, raw)
}

func (s *StreamService) persistBook(ctx context.Context, tokenID string, b book.Book, raw []byte) error {
	meta, ok, err := s.tokenMeta(ctx, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		// Not one of ours; the subscription will drop it on next refresh.
		return nil
	}
	stats := book.Analyze(b)
	now := time.Now().UTC()
	row := models.MarketStatsLatest{
		TokenID:   tokenID,
		GameID:    meta.gameID,
		Market:    meta.market,
		Outcome:   meta.outcome,
		BestBid:   stats.BestBid,
		BidVolume: stats.BidVolume,
		BestAsk:   stats.BestAsk,
		AskVolume: stats.AskVolume,
		Spread:    stats.Spread,
		Crossed:   stats.Crossed(),
		Source:    "ws",
		BookJSON:  datatypes.JSON(raw),
		UpdatedAt: now,
	}
	return s.Store.UpsertMarketStatsLatest(ctx, []models.MarketStatsLatest{row})
}

func (s *StreamService) tokenMeta(ctx context.Context, tokenID string) (tokenMeta, bool, error) {
	s.mu.Lock()
	if s.meta == nil {
		s.meta = map[string]tokenMeta{}
	}
	if m, ok := s.meta[tokenID]; ok {
		s.mu.Unlock()
		return m, true, nil
	}
	s.mu.Unlock()

	tok, err := s.Store.GetOutcomeToken(ctx, tokenID)
	if err != nil {
		return tokenMeta{}, false, err
	}
	if tok == nil {
		return tokenMeta{}, false, nil
	}
	m := tokenMeta{
		gameID:  tok.GameID,
		market:  compare.MarketLabel(tok.Question, tok.Outcome),
		outcome: tok.Outcome,
	}
	s.mu.Lock()
	s.meta[tokenID] = m
	s.mu.Unlock()
	return m, true, nil
}

// --- payload parsing --------------------------------------------------------

type priceLevel struct {
	Price float64
	Size  float64
}

// priceChange is one patched level. Sell distinguishes the ask side.
type priceChange struct {
	Price float64
	Size  float64
	Sell  bool
}

// parseBookPayload digs the bid and ask arrays out of a book snapshot.
// Payloads nest under book or data on some gateway versions.
func parseBookPayload(raw []byte) ([]priceLevel, []priceLevel, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, nil, err
	}
	payload := root["book"]
	if len(payload) == 0 {
		payload = root["data"]
	}
	if len(payload) == 0 {
		payload = raw
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, nil, err
	}
	bids := parseLevels(firstRaw(obj, "bids", "buys"))
	asks := parseLevels(firstRaw(obj, "asks", "sells"))
	return bids, asks, nil
}

func parseLevels(raw json.RawMessage) []priceLevel {
	if len(raw) == 0 {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	out := make([]priceLevel, 0, len(arr))
	for _, item := range arr {
		if level, ok := parseLevel(item); ok {
			out = append(out, level)
		}
	}
	return out
}

// parseLevel accepts both the [price, size] array form and the
// {price, size} object form.
func parseLevel(raw json.RawMessage) (priceLevel, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) >= 2 {
		level := priceLevel{
			Price: parseFloat(arr[0]),
			Size:  parseFloat(arr[1]),
		}
		return level, level.Price > 0
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		level := priceLevel{
			Price: parseFloat(obj["price"]),
			Size:  parseFloat(firstRaw(obj, "size", "qty", "amount")),
		}
		return level, level.Price > 0
	}
	return priceLevel{}, false
}

// parsePriceChanges reads the patch list of a price_change event. The list
// lives under changes or price_changes depending on gateway version.
func parsePriceChanges(raw []byte) []priceChange {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil
	}
	list := firstRaw(root, "changes", "price_changes")
	if len(list) == 0 {
		return nil
	}
	var arr []map[string]json.RawMessage
	if err := json.Unmarshal(list, &arr); err != nil {
		return nil
	}
	out := make([]priceChange, 0, len(arr))
	for _, item := range arr {
		ch := priceChange{
			Price: parseFloat(item["price"]),
			Size:  parseFloat(firstRaw(item, "size", "qty", "amount")),
		}
		side := strings.ToUpper(strings.Trim(string(firstRaw(item, "side")), "\""))
		ch.Sell = side == "SELL" || side == "ASK"
		if ch.Price > 0 {
			out = append(out, ch)
		}
	}
	return out
}

func normalizeEventType(eventType string, raw []byte) string {
	val := strings.ToLower(strings.TrimSpace(eventType))
	if val != "" {
		return val
	}
	var probe struct {
		EventType string `json:"event_type"`
		Type      string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil {
		if probe.EventType != "" {
			return strings.ToLower(strings.TrimSpace(probe.EventType))
		}
		if probe.Type != "" {
			return strings.ToLower(strings.TrimSpace(probe.Type))
		}
	}
	return "unknown"
}

func extractTokenID(raw []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	rawID := firstRaw(obj, "asset_id", "token_id", "tokenId")
	if len(rawID) == 0 {
		return ""
	}
	return strings.Trim(string(rawID), "\"")
}

func parseFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if val, err := strconv.ParseFloat(str, 64); err == nil {
			return val
		}
	}
	return 0
}

func firstRaw(m map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return nil
}

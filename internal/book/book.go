package book

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLevel rejects a level whose price or size is negative.
var ErrInvalidLevel = errors.New("invalid order level")

// Level is a single resting price level on one side of an orderbook.
type Level struct {
	Price float64
	Size  float64
}

// NewLevel validates the numeric range of a price level.
func NewLevel(price, size float64) (Level, error) {
	if price < 0 || size < 0 || math.IsNaN(price) || math.IsNaN(size) {
		return Level{}, fmt.Errorf("%w: price=%g size=%g", ErrInvalidLevel, price, size)
	}
	return Level{Price: price, Size: size}, nil
}

// Book holds raw bid and ask levels in whatever order the feed sent them.
type Book struct {
	Bids []Level
	Asks []Level
}

// Stats is the reduced view of one outcome's orderbook. A zero best price
// together with zero volume marks an empty side, not a real quote; callers
// check the volume, not the price, to detect missing liquidity.
type Stats struct {
	BestBid   float64 `json:"best_bid"`
	BidVolume float64 `json:"bid_volume"`
	BestAsk   float64 `json:"best_ask"`
	AskVolume float64 `json:"ask_volume"`
	Spread    float64 `json:"spread"`
}

// Crossed reports whether the best bid sits above the best ask. Only
// meaningful when both sides carry volume.
func (s Stats) Crossed() bool {
	return s.BidVolume > 0 && s.AskVolume > 0 && s.BestBid > s.BestAsk
}

// Analyze reduces a book to its best-price view. Volumes count only the
// size resting at the best price. Spread is always best ask minus best
// bid, including when a side is empty (sentinel zero) or the book is
// crossed (negative spread); nothing is suppressed or clamped here.
func Analyze(b Book) Stats {
	var s Stats
	for i, lvl := range b.Bids {
		switch {
		case i == 0 || lvl.Price > s.BestBid:
			s.BestBid = lvl.Price
			s.BidVolume = lvl.Size
		case lvl.Price == s.BestBid:
			s.BidVolume += lvl.Size
		}
	}
	for i, lvl := range b.Asks {
		switch {
		case i == 0 || lvl.Price < s.BestAsk:
			s.BestAsk = lvl.Price
			s.AskVolume = lvl.Size
		case lvl.Price == s.BestAsk:
			s.AskVolume += lvl.Size
		}
	}
	s.Spread = s.BestAsk - s.BestBid
	return s
}

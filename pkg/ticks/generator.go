package ticks

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Tick is a synthetic price/volume sample. Ephemeral: produced for one
// subscribed connection and never persisted.
type Tick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    int     `json:"volume"`
	Timestamp int64   `json:"timestamp"` // unix seconds
}

// Generator produces ticks by jittering a symbol's reference close price.
// One generator is shared by all connections; the rand source is guarded
// because *rand.Rand is not safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewGeneratorWithSeed pins the random source for tests.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next samples a tick around closePrice: price is uniformly jittered within
// ±5% of the reference and rounded to 2 decimals, volume is uniform in
// [1, 100], timestamp is the current wall clock in whole seconds.
func (g *Generator) Next(symbol string, closePrice float64) Tick {
	g.mu.Lock()
	jitter := (g.rng.Float64()*2 - 1) * closePrice * 0.05
	volume := g.rng.Intn(100) + 1
	g.mu.Unlock()

	return Tick{
		Symbol:    symbol,
		Price:     math.Round((closePrice+jitter)*100) / 100,
		Volume:    volume,
		Timestamp: time.Now().Unix(),
	}
}

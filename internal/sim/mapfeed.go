package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// maxMapLines caps the line collection; oldest lines are pruned first.
	maxMapLines = 20

	defaultLineDelayMin = 1 * time.Second
	defaultLineDelayMax = 3 * time.Second
)

// Origin is a weighted geographic source for map lines. Selection
// probability is proportional to Weight.
type Origin struct {
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Weight  float64 `json:"weight"`
}

// GeoPoint is one end of a map line.
type GeoPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Country string  `json:"country"`
}

// MapLine is one animated attack trace on the world map. It is
// independent of the engine's Attack instances.
type MapLine struct {
	ID        string     `json:"id"`
	From      GeoPoint   `json:"from"`
	To        GeoPoint   `json:"to"`
	Type      AttackType `json:"type"`
	Blocked   bool       `json:"blocked"`
	Timestamp time.Time  `json:"timestamp"`
}

// MapStats are the feed's own cumulative counters. They are deliberately
// not shared with the engine's stats: the two subsystems sample at
// different rates and are not meant to report identical totals.
type MapStats struct {
	Total   int `json:"total"`
	Blocked int `json:"blocked"`
}

// MapFeed independently generates geographic attack lines for the world
// map. Its only link to the engine is the protocol-flag source used to
// mark new lines blocked.
type MapFeed struct {
	mu      sync.Mutex
	origins []Origin
	target  GeoPoint
	lines   []MapLine
	total   int
	blocked int

	protocolOn func() bool
	rand       *rand.Rand
	now        func() time.Time

	delayMin time.Duration
	delayMax time.Duration

	logger       Logger
	lineListener func(MapLine)

	stopCh    chan struct{}
	isRunning bool
}

// NewMapFeed creates a feed over the default origin table. protocolOn
// supplies the current protocol flag; nil means never blocked.
func NewMapFeed(protocolOn func() bool) *MapFeed {
	return NewMapFeedWithLogger(protocolOn, NewNoOpLogger())
}

// NewMapFeedWithLogger creates a feed with an injected logger.
func NewMapFeedWithLogger(protocolOn func() bool, logger Logger) *MapFeed {
	if protocolOn == nil {
		protocolOn = func() bool { return false }
	}
	return &MapFeed{
		origins:    DefaultOrigins(),
		target:     defaultTarget,
		lines:      make([]MapLine, 0, maxMapLines),
		protocolOn: protocolOn,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		delayMin:   defaultLineDelayMin,
		delayMax:   defaultLineDelayMax,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

// SetDelayRange overrides the bounds of the random delay between lines.
func (f *MapFeed) SetDelayRange(min, max time.Duration) {
	if min <= 0 || max < min {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delayMin = min
	f.delayMax = max
}

// SetLineListener registers a callback invoked with every new line.
func (f *MapFeed) SetLineListener(fn func(MapLine)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineListener = fn
}

// Step generates one map line: a weighted-random origin, a uniform
// attack type, and the current protocol flag. The collection is pruned
// to its cap, oldest first.
func (f *MapFeed) Step() {
	blocked := f.protocolOn()

	f.mu.Lock()
	origin := f.pickOriginLocked()
	defs := Definitions()
	def := defs[f.rand.Intn(len(defs))]
	line := MapLine{
		ID:        uuid.NewString(),
		From:      GeoPoint{Lat: origin.Lat, Lng: origin.Lng, Country: origin.Country},
		To:        f.target,
		Type:      def.ID,
		Blocked:   blocked,
		Timestamp: f.now(),
	}
	f.lines = append(f.lines, line)
	if len(f.lines) > maxMapLines {
		f.lines = f.lines[len(f.lines)-maxMapLines:]
	}
	f.total++
	if blocked {
		f.blocked++
	}
	listener := f.lineListener
	f.mu.Unlock()

	f.logger.Debugf("map line: from=%s type=%s blocked=%v", origin.Country, def.ID, blocked)
	if listener != nil {
		listener(line)
	}
}

// pickOriginLocked draws an origin by cumulative-weight roulette.
// Caller must hold f.mu.
func (f *MapFeed) pickOriginLocked() Origin {
	var total float64
	for _, o := range f.origins {
		total += o.Weight
	}
	r := f.rand.Float64() * total
	var acc float64
	for _, o := range f.origins {
		acc += o.Weight
		if r < acc {
			return o
		}
	}
	return f.origins[len(f.origins)-1]
}

// Lines returns a copy of the current lines, oldest first.
func (f *MapFeed) Lines() []MapLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]MapLine, len(f.lines))
	copy(out, f.lines)
	return out
}

// Stats returns the feed's cumulative counters.
func (f *MapFeed) Stats() MapStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return MapStats{Total: f.total, Blocked: f.blocked}
}

// Run starts the self-rescheduling line generator. Calling Run on a
// running feed is a no-op.
func (f *MapFeed) Run() {
	f.mu.Lock()
	if f.isRunning {
		f.mu.Unlock()
		return
	}
	f.stopCh = make(chan struct{})
	f.isRunning = true
	stop := f.stopCh
	f.mu.Unlock()

	go f.loop(stop)
}

func (f *MapFeed) loop(stop chan struct{}) {
	for {
		f.mu.Lock()
		delay := f.delayMin
		if f.delayMax > f.delayMin {
			delay += time.Duration(f.rand.Int63n(int64(f.delayMax - f.delayMin)))
		}
		f.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			f.Step()
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// Stop cancels the loop, including any pending scheduled line.
func (f *MapFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.isRunning {
		return
	}
	close(f.stopCh)
	f.isRunning = false
}

package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// maxEvents caps the audit log; oldest entries are evicted first.
	maxEvents = 50

	// rateSpan is the trailing window used for the attacks-per-minute rate.
	rateSpan = time.Minute

	defaultAttackDelayMin = 2 * time.Second
	defaultAttackDelayMax = 4 * time.Second
)

// Engine owns all mutable simulation state: the device fleet, the active
// attacks, the protocol flag, the event log and the derived stats. Every
// operation completes all of its mutations under one lock before
// returning, so callers never observe a partial transition. Consumers get
// copies on read and may only effect change through the exposed
// operations.
type Engine struct {
	mu         sync.Mutex
	devices    []Device
	deviceIdx  map[string]int
	attacks    []Attack
	protocolOn bool
	events     *eventLog
	window     *rateWindow
	stats      Stats

	rand *rand.Rand
	now  func() time.Time

	delayMin time.Duration
	delayMax time.Duration

	logger        Logger
	notifications *NotificationManager
	statsListener func(Stats, bool)

	stopCh    chan struct{}
	isRunning bool
}

// NewEngine creates an engine over the default device fleet with the
// protocol enabled. The autonomous attack loop is not started until Run
// is called.
func NewEngine() *Engine {
	return NewEngineWithLogger(NewNoOpLogger())
}

// NewEngineWithLogger creates an engine with an injected logger.
func NewEngineWithLogger(logger Logger) *Engine {
	devices := DefaultDevices()
	idx := make(map[string]int, len(devices))
	for i, d := range devices {
		idx[d.ID] = i
	}
	return &Engine{
		devices:    devices,
		deviceIdx:  idx,
		attacks:    make([]Attack, 0),
		protocolOn: true,
		events:     newEventLog(maxEvents),
		window:     newRateWindow(rateSpan),
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		delayMin:   defaultAttackDelayMin,
		delayMax:   defaultAttackDelayMax,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

// SetNotificationManager routes engine events through the given manager.
func (e *Engine) SetNotificationManager(nm *NotificationManager) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifications = nm
}

// SetStatsListener registers a callback invoked after every mutation with
// the fresh stats snapshot and the current protocol flag.
func (e *Engine) SetStatsListener(fn func(stats Stats, protocolEnabled bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statsListener = fn
}

// SetDelayRange overrides the bounds of the random delay between
// auto-generated attacks. Values at or below zero are ignored.
func (e *Engine) SetDelayRange(min, max time.Duration) {
	if min <= 0 || max < min {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delayMin = min
	e.delayMax = max
}

// StartAttack launches one attack of the given type against a random
// device from the definition's target pool. Unknown attack types are
// silently ignored: legitimate callers only draw from the closed
// registry, and the autonomous loop must stay resilient to a single bad
// input.
func (e *Engine) StartAttack(attackType AttackType) {
	def, ok := DefinitionByType(attackType)
	if !ok {
		e.logger.Warnf("ignoring unknown attack type %q", attackType)
		return
	}

	e.mu.Lock()
	now := e.now()
	target := def.TargetDevices[e.rand.Intn(len(def.TargetDevices))]
	atk := Attack{
		ID:             uuid.NewString(),
		Type:           def.ID,
		TargetDeviceID: target,
		Blocked:        e.protocolOn,
		Timestamp:      now,
		Severity:       def.Severity,
		Color:          def.Color,
	}
	e.attacks = append(e.attacks, atk)
	e.window.add(now)

	deviceName := target
	if i, ok := e.deviceIdx[target]; ok {
		deviceName = e.devices[i].Name
	}
	if !atk.Blocked {
		e.deriveDeviceStatusLocked(target)
	}

	var msg string
	if atk.Blocked {
		msg = fmt.Sprintf("%s against %s blocked by protocol", def.Name, deviceName)
	} else {
		msg = fmt.Sprintf("%s succeeded against %s", def.Name, deviceName)
	}
	ev := e.logEventLocked(Event{
		Timestamp:      now,
		Message:        msg,
		Severity:       def.Severity,
		TargetDeviceID: target,
		Blocked:        atk.Blocked,
	})

	e.stats.TotalAttacks++
	if atk.Blocked {
		e.stats.BlockedAttacks++
	} else {
		e.stats.ActiveThreats++
	}
	e.stats.AttacksPerMinute = e.window.count(now)
	stats, protocolOn := e.stats, e.protocolOn
	e.mu.Unlock()

	e.logger.Debugf("attack started: type=%s target=%s blocked=%v", def.ID, target, atk.Blocked)
	e.emit(ev, stats, protocolOn)
}

// StopAttack removes an active attack by id. Unknown ids are a no-op so
// that a stale stop (double-click in the UI) stays idempotent. If the
// removed attack was unblocked, the target device's status is re-derived
// from the unblocked attacks that remain against it.
func (e *Engine) StopAttack(attackID string) {
	e.mu.Lock()
	idx := -1
	for i, a := range e.attacks {
		if a.ID == attackID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return
	}

	atk := e.attacks[idx]
	e.attacks = append(e.attacks[:idx], e.attacks[idx+1:]...)

	if !atk.Blocked {
		e.deriveDeviceStatusLocked(atk.TargetDeviceID)
		if e.stats.ActiveThreats > 0 {
			e.stats.ActiveThreats--
		}
	}
	e.mu.Unlock()

	e.logger.Debugf("attack stopped: id=%s type=%s", atk.ID, atk.Type)
}

// ToggleProtocol flips the protection flag. Enabling retroactively blocks
// every active attack and resets all devices to secure; disabling leaves
// existing attacks and statuses untouched and only affects attacks
// created afterwards.
func (e *Engine) ToggleProtocol() {
	e.mu.Lock()
	e.protocolOn = !e.protocolOn
	now := e.now()

	var ev Event
	if e.protocolOn {
		neutralized := 0
		rebuilt := make([]Attack, len(e.attacks))
		for i, a := range e.attacks {
			if !a.Blocked {
				neutralized++
				a.Blocked = true
			}
			rebuilt[i] = a
		}
		e.attacks = rebuilt
		for i := range e.devices {
			e.devices[i].Status = StatusSecure
		}
		e.stats.ActiveThreats = 0
		e.stats.BlockedAttacks += neutralized
		ev = e.logEventLocked(Event{
			Timestamp: now,
			Message:   fmt.Sprintf("Protection protocol enabled, %d active threats neutralized", neutralized),
			Severity:  SeverityInfo,
			Blocked:   true,
		})
	} else {
		ev = e.logEventLocked(Event{
			Timestamp: now,
			Message:   "Protection protocol disabled, new attacks will no longer be blocked",
			Severity:  SeverityWarning,
		})
	}
	stats, protocolOn := e.stats, e.protocolOn
	e.mu.Unlock()

	e.logger.Infof("protocol toggled: enabled=%v", protocolOn)
	e.emit(ev, stats, protocolOn)
}

// ClearEvents empties the event log. No other state is touched.
func (e *Engine) ClearEvents() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events.clear()
}

// Devices returns a copy of the device list with current statuses.
func (e *Engine) Devices() []Device {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Device, len(e.devices))
	copy(out, e.devices)
	return out
}

// Attacks returns a copy of the active attack list.
func (e *Engine) Attacks() []Attack {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Attack, len(e.attacks))
	copy(out, e.attacks)
	return out
}

// Events returns the event log, newest entry first.
func (e *Engine) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.newestFirst()
}

// Stats returns the current stats snapshot. The attacks-per-minute rate
// is re-evaluated against the trailing window at call time.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.AttacksPerMinute = e.window.count(e.now())
	return e.stats
}

// ProtocolEnabled reports the current protocol flag.
func (e *Engine) ProtocolEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.protocolOn
}

// Run starts the autonomous attack loop in a goroutine. Each iteration
// waits an unpredictable delay drawn from the configured range, fires one
// random attack from the registry, then reschedules itself. Calling Run
// on a running engine is a no-op; Stop cancels the pending timer.
func (e *Engine) Run() {
	e.mu.Lock()
	if e.isRunning {
		e.mu.Unlock()
		return
	}
	e.stopCh = make(chan struct{})
	e.isRunning = true
	stop := e.stopCh
	e.mu.Unlock()

	go e.loop(stop)
}

func (e *Engine) loop(stop chan struct{}) {
	defs := Definitions()
	for {
		e.mu.Lock()
		delay := e.delayMin
		if e.delayMax > e.delayMin {
			delay += time.Duration(e.rand.Int63n(int64(e.delayMax - e.delayMin)))
		}
		next := defs[e.rand.Intn(len(defs))]
		e.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			e.StartAttack(next.ID)
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// Stop cancels the autonomous loop, including any pending scheduled
// attack. The engine state stays readable after Stop; Run may be called
// again to restart the loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isRunning {
		return
	}
	close(e.stopCh)
	e.isRunning = false
}

// logEventLocked assigns an id, appends to the capped log and returns the
// stored event. Caller must hold e.mu.
func (e *Engine) logEventLocked(ev Event) Event {
	ev.ID = uuid.NewString()
	e.events.append(ev)
	return ev
}

// deriveDeviceStatusLocked recomputes one device's status from the
// unblocked attacks still targeting it. Caller must hold e.mu.
func (e *Engine) deriveDeviceStatusLocked(deviceID string) {
	i, ok := e.deviceIdx[deviceID]
	if !ok {
		return
	}
	status := StatusSecure
	for _, a := range e.attacks {
		if a.Blocked || a.TargetDeviceID != deviceID {
			continue
		}
		if a.Severity == SeverityCritical {
			status = StatusCompromised
			break
		}
		status = StatusWarning
	}
	e.devices[i].Status = status
}

// emit fans the event out to the notification pipeline and the stats
// listener. Runs outside the engine lock.
func (e *Engine) emit(ev Event, stats Stats, protocolOn bool) {
	e.mu.Lock()
	nm, listener := e.notifications, e.statsListener
	e.mu.Unlock()

	if nm != nil {
		nm.Enqueue(EngineEvent{
			Event:           ev,
			Stats:           stats,
			ProtocolEnabled: protocolOn,
		})
	}
	if listener != nil {
		listener(stats, protocolOn)
	}
}

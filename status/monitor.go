package status

import (
	"sync"

	"github.com/verifield/verifield/events"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/metrics"
	"github.com/verifield/verifield/types"
)

var allKinds = []types.StateKind{
	types.KindOffline,
	types.KindWalletDisconnected,
	types.KindWrongChain,
	types.KindReady,
}

// Monitor re-resolves the connection state whenever the network probe or the
// wallet connector publishes a change, and tells subscribers when the state
// changes.
type Monitor struct {
	oracle *Oracle
	bus    *events.Bus
	log    logger.Logger
	rec    metrics.Recorder

	// refreshMu serialises sample, resolve and delivery so subscribers
	// observe states in order.
	refreshMu sync.Mutex

	mu          sync.RWMutex
	current     types.ConnectionState
	started     bool
	busSubs     []events.SubscriptionID
	nextID      int
	subscribers map[int]func(types.ConnectionState)
}

func NewMonitor(oracle *Oracle, bus *events.Bus, log logger.Logger, rec metrics.Recorder) *Monitor {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Monitor{
		oracle:      oracle,
		bus:         bus,
		log:         log,
		rec:         rec,
		subscribers: make(map[int]func(types.ConnectionState)),
	}
}

// Start subscribes to the bus and resolves the initial state. Handlers run
// on the bus's async workers, one at a time per topic.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	handlers := []struct {
		topic events.Topic
		fn    interface{}
	}{
		{events.TopicNetwork, m.onNetwork},
		{events.TopicAccounts, m.onAccounts},
		{events.TopicChain, m.onChain},
	}
	subs := make([]events.SubscriptionID, 0, len(handlers))
	for _, h := range handlers {
		id, err := m.bus.SubscribeAsync(h.topic, h.fn)
		if err != nil {
			for _, done := range subs {
				_ = m.bus.Unsubscribe(done)
			}
			m.mu.Lock()
			m.started = false
			m.mu.Unlock()
			return err
		}
		subs = append(subs, id)
	}

	m.mu.Lock()
	m.busSubs = subs
	m.mu.Unlock()

	m.Refresh()
	return nil
}

// Stop unsubscribes from the bus and waits for in-flight handlers.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	subs := m.busSubs
	m.busSubs = nil
	m.mu.Unlock()

	for _, id := range subs {
		_ = m.bus.Unsubscribe(id)
	}
	m.bus.WaitAsync()
}

func (m *Monitor) onNetwork(online bool) {
	m.log.Debug("network event", map[string]any{"online": online})
	m.Refresh()
}

func (m *Monitor) onAccounts(address string) {
	m.log.Debug("accounts event", map[string]any{"address": address})
	m.Refresh()
}

func (m *Monitor) onChain(chainID uint64) {
	m.log.Debug("chain event", map[string]any{"chainId": chainID})
	m.Refresh()
}

// Refresh samples the oracle, resolves the state and notifies subscribers if
// it differs from the previous one. It returns the resolved state.
func (m *Monitor) Refresh() types.ConnectionState {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	next := Resolve(m.oracle.Sample())

	m.mu.Lock()
	prev := m.current
	changed := prev == nil || prev != next
	m.current = next
	subs := make([]func(types.ConnectionState), 0, len(m.subscribers))
	if changed {
		for _, fn := range m.subscribers {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	if !changed {
		return next
	}

	m.record(next)
	fields := map[string]any{"state": next.Kind()}
	if prev != nil {
		fields["previous"] = prev.Kind()
	}
	m.log.Info("connection state changed", fields)

	for _, fn := range subs {
		fn(next)
	}
	return next
}

func (m *Monitor) record(s types.ConnectionState) {
	m.rec.IncCounter(metrics.StateTransitions, map[string]string{"outcome": string(s.Kind())})
	for _, k := range allKinds {
		v := 0.0
		if k == s.Kind() {
			v = 1
		}
		m.rec.SetGauge(metrics.ConnectionState, v, map[string]string{"state": string(k)})
	}
}

// State returns the latest resolved state, resolving one if none exists yet.
func (m *Monitor) State() types.ConnectionState {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	if current != nil {
		return current
	}
	return m.Refresh()
}

// Subscribe registers fn to be called with every new state. fn runs while
// the monitor holds its refresh lock and must not call Refresh. The returned
// func removes the subscription.
func (m *Monitor) Subscribe(fn func(types.ConnectionState)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			m.mu.Unlock()
		})
	}
}

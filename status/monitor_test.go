package status

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifield/verifield/events"
	"github.com/verifield/verifield/types"
)

type stateLog struct {
	mu     sync.Mutex
	states []types.ConnectionState
}

func (l *stateLog) add(s types.ConnectionState) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) all() []types.ConnectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.ConnectionState(nil), l.states...)
}

func TestOracleSample(t *testing.T) {
	conn := newFakeConnector(nil, 1)
	oracle := NewOracle(&switchProbe{online: true}, conn, 31337)

	snap := oracle.Sample()
	assert.True(t, snap.NetworkOnline)
	assert.False(t, snap.WalletConnected)
	assert.Empty(t, snap.Address)
	assert.Equal(t, types.ChainID(0), snap.CurrentChainID)
	assert.Equal(t, types.ChainID(31337), snap.TargetChainID)

	require.NoError(t, conn.Connect(context.Background()))
	snap = oracle.Sample()
	assert.True(t, snap.WalletConnected)
	assert.Equal(t, testAddress, snap.Address)
	assert.Equal(t, types.ChainID(1), snap.CurrentChainID)
}

func TestMonitorFollowsEvents(t *testing.T) {
	bus := events.New()
	probe := &switchProbe{online: true}
	conn := newFakeConnector(bus, 1)
	mon := NewMonitor(NewOracle(probe, conn, 31337), bus, nil, nil)

	log := &stateLog{}
	cancel := mon.Subscribe(log.add)
	defer cancel()

	require.NoError(t, mon.Start())
	defer mon.Stop()
	assert.Equal(t, types.WalletDisconnected{}, mon.State())

	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	bus.WaitAsync()
	assert.Equal(t, types.WrongChain{Current: 1, Target: 31337}, mon.State())

	require.NoError(t, conn.SwitchChain(ctx, 31337))
	bus.WaitAsync()
	assert.Equal(t, types.Ready{ChainID: 31337}, mon.State())

	probe.set(false)
	bus.Publish(events.TopicNetwork, false)
	bus.WaitAsync()
	assert.Equal(t, types.Offline{}, mon.State())

	probe.set(true)
	bus.Publish(events.TopicNetwork, true)
	bus.WaitAsync()
	assert.Equal(t, types.Ready{ChainID: 31337}, mon.State())

	assert.Equal(t, []types.ConnectionState{
		types.WalletDisconnected{},
		types.WrongChain{Current: 1, Target: 31337},
		types.Ready{ChainID: 31337},
		types.Offline{},
		types.Ready{ChainID: 31337},
	}, log.all())
}

func TestMonitorNotifiesOnChangeOnly(t *testing.T) {
	bus := events.New()
	conn := newFakeConnector(bus, 31337)
	mon := NewMonitor(NewOracle(&switchProbe{online: true}, conn, 31337), bus, nil, nil)

	log := &stateLog{}
	mon.Subscribe(log.add)

	mon.Refresh()
	mon.Refresh()
	bus.Publish(events.TopicNetwork, true)
	mon.Refresh()

	assert.Len(t, log.all(), 1)
}

func TestMonitorUnsubscribe(t *testing.T) {
	bus := events.New()
	conn := newFakeConnector(bus, 31337)
	mon := NewMonitor(NewOracle(&switchProbe{online: true}, conn, 31337), bus, nil, nil)

	log := &stateLog{}
	cancel := mon.Subscribe(log.add)
	mon.Refresh()
	cancel()
	cancel()

	require.NoError(t, conn.Connect(context.Background()))
	mon.Refresh()
	assert.Len(t, log.all(), 1)
	assert.Equal(t, types.Ready{ChainID: 31337}, mon.State())
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	bus := events.New()
	mon := NewMonitor(NewOracle(&switchProbe{online: true}, newFakeConnector(bus, 1), 31337), bus, nil, nil)

	mon.Stop()
	require.NoError(t, mon.Start())
	require.NoError(t, mon.Start())
	mon.Stop()
	mon.Stop()
	assert.False(t, bus.HasSubscribers(events.TopicChain))
}

func TestMonitorsSharingABus(t *testing.T) {
	bus := events.New()
	probe := &switchProbe{online: true}
	connA := newFakeConnector(bus, 31337)
	connB := newFakeConnector(bus, 31337)
	monA := NewMonitor(NewOracle(probe, connA, 31337), bus, nil, nil)
	monB := NewMonitor(NewOracle(probe, connB, 31337), bus, nil, nil)

	require.NoError(t, monB.Start())
	defer monB.Stop()
	require.NoError(t, monA.Start())
	monA.Stop()

	require.NoError(t, connB.Connect(context.Background()))
	bus.WaitAsync()
	assert.Equal(t, types.Ready{ChainID: 31337}, monB.State())
	assert.True(t, bus.HasSubscribers(events.TopicChain))

	monB.Stop()
	assert.False(t, bus.HasSubscribers(events.TopicChain))
}

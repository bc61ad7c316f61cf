// Package events carries wallet and network change notifications between the
// connector, the network probe and the status monitor.
package events

import (
	"fmt"
	"reflect"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

// Topic names a kind of change.
type Topic string

const (
	// TopicNetwork fires when host reachability flips. Payload: bool online.
	TopicNetwork Topic = "network:changed"
	// TopicAccounts fires when the wallet session attaches, detaches or
	// changes account. Payload: string address ("" when detached).
	TopicAccounts Topic = "wallet:accounts"
	// TopicChain fires when the wallet's active chain changes. Payload: uint64 chain id.
	TopicChain Topic = "wallet:chain"
)

// AllTopics lists every topic the status monitor listens to.
var AllTopics = []Topic{TopicNetwork, TopicAccounts, TopicChain}

// SubscriptionID identifies one handler registration.
type SubscriptionID string

type subscription struct {
	topic Topic
	async bool
	fn    reflect.Value
}

// Bus is a typed facade over asaskevich/EventBus. The underlying bus only
// sees one dispatcher per topic and mode; handlers are tracked here by
// SubscriptionID, since EventBus tells handlers apart by code pointer and
// cannot separate two method values of the same method.
type Bus struct {
	bus evbus.Bus

	mu    sync.RWMutex
	subs  map[SubscriptionID]*subscription
	wired map[Topic][2]bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		bus:   evbus.New(),
		subs:  make(map[SubscriptionID]*subscription),
		wired: make(map[Topic][2]bool),
	}
}

// Subscribe registers fn for topic. fn must be a func whose arguments match
// the topic payload; it runs on the publishing goroutine.
func (b *Bus) Subscribe(topic Topic, fn interface{}) (SubscriptionID, error) {
	return b.subscribe(topic, fn, false)
}

// SubscribeAsync registers fn to run off the publishing goroutine. Async
// handlers of one topic run one event at a time, in publish order, so a
// handler must not publish on its own topic.
func (b *Bus) SubscribeAsync(topic Topic, fn interface{}) (SubscriptionID, error) {
	return b.subscribe(topic, fn, true)
}

func (b *Bus) subscribe(topic Topic, fn interface{}, async bool) (SubscriptionID, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "", fmt.Errorf("subscribe %s: %T is not a func", topic, fn)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	mode := 0
	if async {
		mode = 1
	}
	wired := b.wired[topic]
	if !wired[mode] {
		dispatch := func(args ...interface{}) { b.dispatch(topic, async, args) }
		var err error
		if async {
			err = b.bus.SubscribeAsync(string(topic), dispatch, true)
		} else {
			err = b.bus.Subscribe(string(topic), dispatch)
		}
		if err != nil {
			return "", fmt.Errorf("subscribe %s: %w", topic, err)
		}
		wired[mode] = true
		b.wired[topic] = wired
	}

	id := SubscriptionID(uuid.New().String())
	b.subs[id] = &subscription{topic: topic, async: async, fn: v}
	return id, nil
}

// Unsubscribe removes the handler registered under id.
func (b *Bus) Unsubscribe(id SubscriptionID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[id]; !ok {
		return fmt.Errorf("subscription not found: %s", id)
	}
	delete(b.subs, id)
	return nil
}

func (b *Bus) dispatch(topic Topic, async bool, args []interface{}) {
	b.mu.RLock()
	handlers := make([]reflect.Value, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == topic && s.async == async {
			handlers = append(handlers, s.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fnType := fn.Type()
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			if arg == nil {
				in[i] = reflect.New(fnType.In(i)).Elem()
			} else {
				in[i] = reflect.ValueOf(arg)
			}
		}
		fn.Call(in)
	}
}

// Publish delivers args to every handler of topic.
func (b *Bus) Publish(topic Topic, args ...interface{}) {
	b.bus.Publish(string(topic), args...)
}

// HasSubscribers reports whether topic has handlers.
func (b *Bus) HasSubscribers(topic Topic) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if s.topic == topic {
			return true
		}
	}
	return false
}

// WaitAsync blocks until async handlers finish.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}

// Publisher is the publishing half of Bus.
type Publisher interface {
	Publish(topic Topic, args ...interface{})
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(Topic, ...interface{}) {}

package hub

import (
	"sync"
)

// LocalPubSub maps topics to the connected client IDs listening on them.
type LocalPubSub struct {
	mutex   sync.RWMutex
	hashMap map[string][]int64
}

func (ps *LocalPubSub) Setup() {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	if ps.hashMap == nil {
		ps.hashMap = make(map[string][]int64)
	}
}

func (ps *LocalPubSub) Unsubscribe(topic string, clientID int64) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	ps.unsubscribe(topic, clientID)
}

func (ps *LocalPubSub) unsubscribe(topic string, clientID int64) {
	clientIDs := ps.hashMap[topic]

	// this won't run in case topic doesn't exist since length will be 0
	for i := range clientIDs {
		if clientIDs[i] == clientID {
			clientIDs[i] = clientIDs[len(clientIDs)-1]
			ps.hashMap[topic] = clientIDs[:len(clientIDs)-1]
			break
		}
	}

	// delete topic from map if no client is subscribed to it
	if len(ps.hashMap[topic]) == 0 {
		delete(ps.hashMap, topic)
	}
}

func (ps *LocalPubSub) UnsubscribeFromAll(clientID int64) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for topic := range ps.hashMap {
		ps.unsubscribe(topic, clientID)
	}
}

func (ps *LocalPubSub) Subscribe(topic string, clientID int64) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	ps.hashMap[topic] = append(ps.hashMap[topic], clientID)
}

func (ps *LocalPubSub) Subscribers(topic string) int {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	return len(ps.hashMap[topic])
}

func (ps *LocalPubSub) Publish(topic string, message string) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	clientIDs := ps.hashMap[topic]
	for i := range clientIDs {
		client, exists := GetClient(clientIDs[i])
		if exists {
			client.deliver(message)
		} else {
			sugar.Warnf("Client ID %d is supposed to be available", clientIDs[i])
		}
	}
}

package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"essence-site/internal/snowflake"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBuffer     = 16
)

type Client struct {
	ID   int64
	Conn *websocket.Conn
	send chan string
}

var clients = make(map[int64]*Client)
var clientsMutex sync.RWMutex

var sugar *zap.SugaredLogger
var redisClient *redis.Client
var selfContained = true
var idGenerator *snowflake.Generator

var localPubSub LocalPubSub
var relayOnce sync.Once

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

func Setup(_sugar *zap.SugaredLogger, _redisClient *redis.Client, _selfContained bool, _idGenerator *snowflake.Generator) {
	sugar = _sugar
	redisClient = _redisClient
	selfContained = _selfContained
	idGenerator = _idGenerator

	localPubSub.Setup()

	if !selfContained {
		relayOnce.Do(func() {
			go relayRedis(context.Background())
		})
	}
}

// relayRedis forwards events published by any instance to the clients connected to this one.
func relayRedis(ctx context.Context) {
	pubsub := redisClient.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		localPubSub.Publish(SiteTopic, msg.Payload)
	}
	sugar.Warn("Redis event relay stopped")
}

func HandleClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := idGenerator.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already wrote the response
		sugar.Debug(err)
		return
	}
	defer conn.Close()

	client := &Client{
		ID:   clientID,
		Conn: conn,
		send: make(chan string, sendBuffer),
	}

	setClient(client)
	localPubSub.Subscribe(SiteTopic, clientID)

	done := make(chan struct{})
	writerStopped := make(chan struct{})
	go func() {
		defer close(writerStopped)
		client.writeLoop(done)
	}()

	// the client only counts as gone once its writer has stopped
	defer func() {
		close(done)
		<-writerStopped
		localPubSub.UnsubscribeFromAll(clientID)
		deleteClient(clientID)
	}()

	// clients only listen, reading is needed to notice pongs and disconnects
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sugar.Debug(err)
			}
			return
		}
	}
}

func (c *Client) writeLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case message := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
				sugar.Debug(err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func setClient(client *Client) {
	sugar.Debugf("Adding client ID [%d] to hub", client.ID)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	clients[client.ID] = client
}

func deleteClient(clientID int64) {
	sugar.Debugf("Removing client ID [%d] from hub", clientID)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	delete(clients, clientID)
}

func GetClient(clientID int64) (*Client, bool) {
	clientsMutex.RLock()
	defer clientsMutex.RUnlock()

	client, exists := clients[clientID]
	return client, exists
}

func ClientCount() int {
	clientsMutex.RLock()
	defer clientsMutex.RUnlock()

	return len(clients)
}

// deliver never blocks, a client that can't keep up misses the event.
func (c *Client) deliver(message string) {
	select {
	case c.send <- message:
	default:
		sugar.Warnf("Client ID [%d] is too slow, dropping message", c.ID)
	}
}

// PrepareMessage encodes an event as its type on the first line followed by the JSON payload.
func PrepareMessage(messageType string, message any) (string, error) {
	jsonBytes, err := json.Marshal(message)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.Grow(len(messageType) + 1 + len(jsonBytes))
	buf.WriteString(messageType)
	buf.WriteByte('\n')
	buf.Write(jsonBytes)

	return buf.String(), nil
}

func Emit(ctx context.Context, messageType string, message any) error {
	msg, err := PrepareMessage(messageType, message)
	if err != nil {
		return err
	}

	sugar.Debugf("Emitting %s", messageType)

	if selfContained {
		localPubSub.Publish(SiteTopic, msg)
		return nil
	}

	if err := redisClient.Publish(ctx, EventsChannel, msg).Err(); err != nil {
		return fmt.Errorf("publishing %s: %w", messageType, err)
	}
	return nil
}

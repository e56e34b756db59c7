// Package status broadcasts slicer progress and partition previews to
// every connected viewer over a websocket fan-out.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	PROGRESS
	PREVIEW
)

type status struct {
	Message  string
	Time     time.Time
	Type     int
	Progress float32

	// PREVIEW payload: live partition counts for the active session
	Session  string `json:",omitempty"`
	Inside   int    `json:",omitempty"`
	Outside  int    `json:",omitempty"`
	Boundary int    `json:",omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the request and subscribes the client to the status
// stream. The last message is replayed so a fresh tab starts in sync.
func Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()

	globalLock.Lock()
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()
}

var statusBroadcast chan *status
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func init() {
	statusBroadcast = make(chan *status, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				panic(err)
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					// slow client, drop the frame
				}
			}
			globalLock.Unlock()
		}
	}()
}

func push(s *status) {
	if math.IsNaN(float64(s.Progress)) || math.IsInf(float64(s.Progress), 0) {
		s.Progress = 0
	}
	s.Time = time.Now()
	statusBroadcast <- s
}

func Info(format string, a ...interface{}) {
	push(&status{Message: fmt.Sprintf(format, a...), Type: INFO})
}

func Error(format string, a ...interface{}) {
	push(&status{Message: fmt.Sprintf(format, a...), Type: ERROR})
}

func Progress(progress float32, format string, a ...interface{}) {
	push(&status{Message: fmt.Sprintf(format, a...), Type: PROGRESS, Progress: progress})
}

// Preview publishes the live partition counts of a session.
func Preview(session string, inside, outside, boundary int) {
	push(&status{
		Type:     PREVIEW,
		Session:  session,
		Inside:   inside,
		Outside:  outside,
		Boundary: boundary,
	})
}

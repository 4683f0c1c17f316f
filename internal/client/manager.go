package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by Connect after Close has been called
var ErrClosed = errors.New("connection manager is closed")

// Config holds configuration for the table connection
type Config struct {
	URL              string
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// OnOpen is invoked after every successful open, outside the manager's
	// lock. Callers use it to re-join their room after a reconnect, since
	// the manager never queues or replays outbound messages.
	OnOpen func()
}

// DefaultConfig returns the default connection configuration
func DefaultConfig() Config {
	return Config{
		URL:              "ws://localhost:8080",
		ReconnectDelay:   2 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// Manager owns the single websocket connection to the table server. It dials,
// frames outbound actions, feeds inbound frames to the synchronizer from one
// read loop, and recovers from drops with a fixed-delay reconnect. At most
// one reconnect timer exists at any moment; it is the manager's only owned
// timer and is cancelled on successful open and on Close.
type Manager struct {
	config Config
	clock  clockwork.Clock
	sync   *Synchronizer
	id     string // short id for log correlation

	mu           sync.Mutex
	conn         *websocket.Conn
	connected    bool
	reconnecting bool
	dialing      bool
	closed       bool
	retryTimer   clockwork.Timer
	done         chan struct{}

	// gorilla allows one concurrent writer per connection
	writeMu sync.Mutex
}

// NewManager creates a connection manager. The clock is injected so reconnect
// scheduling is testable with a fake.
func NewManager(config Config, clock clockwork.Clock, sync *Synchronizer) *Manager {
	return &Manager{
		config: config,
		clock:  clock,
		sync:   sync,
		id:     uuid.New().String()[:8],
		done:   make(chan struct{}),
	}
}

// Connect opens the websocket if it is not already open. Idempotent: a no-op
// while a connection is open or a dial is in flight. On failure it schedules
// a single reconnect attempt and returns the dial error.
func (m *Manager) Connect() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.connected || m.dialing {
		m.mu.Unlock()
		return nil
	}
	m.dialing = true
	m.reconnecting = true
	m.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: m.config.HandshakeTimeout}
	conn, _, err := dialer.Dial(m.config.URL, nil)
	if err != nil {
		log.Warn().
			Err(err).
			Str("conn_id", m.id).
			Str("url", m.config.URL).
			Msg("dial failed")
		m.mu.Lock()
		m.dialing = false
		if !m.closed {
			m.scheduleRetryLocked()
		}
		m.mu.Unlock()
		return fmt.Errorf("dial %s: %w", m.config.URL, err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	m.cancelRetryLocked()
	m.conn = conn
	m.connected = true
	m.reconnecting = false
	m.dialing = false
	m.mu.Unlock()

	go m.readLoop(conn)

	log.Info().
		Str("conn_id", m.id).
		Str("url", m.config.URL).
		Msg("connection established")

	if m.config.OnOpen != nil {
		m.config.OnOpen()
	}
	return nil
}

// Send serializes {kind, payload} and writes it to the open connection. When
// no connection is open the call is a silent no-op: nothing is queued and no
// error surfaces, because actions are user-driven and must be re-issued once
// reconnected.
func (m *Manager) Send(kind Kind, payload any) {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		log.Debug().
			Str("conn_id", m.id).
			Str("kind", string(kind)).
			Msg("send skipped, not connected")
		return
	}

	frame := Frame{Kind: kind}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("kind", string(kind)).Msg("failed to marshal payload")
			return
		}
		frame.Payload = raw
	}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to marshal frame")
		return
	}

	m.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(m.config.WriteTimeout))
	err = conn.WriteMessage(websocket.TextMessage, data)
	m.writeMu.Unlock()
	if err != nil {
		// The read loop will observe the dead connection and recover
		log.Warn().
			Err(err).
			Str("conn_id", m.id).
			Str("kind", string(kind)).
			Msg("failed to write frame")
	}
}

// JoinRoom announces the player's display name to the table server. Subject
// to the same open-connection precondition as any Send.
func (m *Manager) JoinRoom(roomCode, displayName string) {
	log.Info().
		Str("conn_id", m.id).
		Str("room", roomCode).
		Str("name", displayName).
		Msg("joining room")
	m.Send(KindJoin, JoinPayload{Name: displayName})
}

// Ready toggles the lobby ready flag
func (m *Manager) Ready(ready bool) { m.Send(KindReady, ReadyPayload{Ready: ready}) }

// Bet places the current bet
func (m *Manager) Bet(value int) { m.Send(KindBet, BetPayload{Value: value}) }

// Start asks the server to start the round
func (m *Manager) Start() { m.Send(KindStart, nil) }

// Hit requests another card. The server is the final authority on whose turn
// it is; out-of-turn requests are forwarded and rejected there.
func (m *Manager) Hit() { m.Send(KindHit, nil) }

// Stand ends the player's turn
func (m *Manager) Stand() { m.Send(KindStand, nil) }

// Double doubles the bet on a two-card hand
func (m *Manager) Double() { m.Send(KindDouble, nil) }

// Insurance takes the insurance side bet
func (m *Manager) Insurance() { m.Send(KindInsurance, nil) }

// Leave leaves the table
func (m *Manager) Leave() { m.Send(KindLeave, nil) }

// Connected reports whether a connection is currently open
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Reconnecting reports whether a connection attempt is in flight or a
// reconnect timer is pending
func (m *Manager) Reconnecting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconnecting
}

// Close tears down the active connection and cancels any pending reconnect.
// After Close no further attempts occur and Connect returns ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.cancelRetryLocked()
	m.reconnecting = false
	m.connected = false
	conn := m.conn
	m.conn = nil
	close(m.done)
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	log.Info().Str("conn_id", m.id).Msg("connection manager closed")
}

// readLoop delivers inbound frames to the synchronizer in arrival order.
// One loop runs per live connection.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("conn_id", m.id).Msg("connection lost")
			} else {
				log.Info().Str("conn_id", m.id).Msg("connection closed")
			}
			m.handleDisconnect(conn)
			return
		}
		m.sync.HandleRaw(data)
	}
}

// handleDisconnect marks the connection down and schedules one reconnect.
// A read loop from a superseded connection is ignored so it can never
// schedule against fresh state.
func (m *Manager) handleDisconnect(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != conn {
		return
	}
	m.conn = nil
	m.connected = false
	conn.Close()

	if m.closed {
		return
	}
	m.scheduleRetryLocked()
}

// scheduleRetryLocked arms the single reconnect timer. If one is already
// pending it is left alone; registering a second timer without cancelling
// the first is exactly the failure mode this guards against.
func (m *Manager) scheduleRetryLocked() {
	if m.retryTimer != nil {
		log.Debug().Str("conn_id", m.id).Msg("reconnect already scheduled")
		return
	}
	m.reconnecting = true

	t := m.clock.NewTimer(m.config.ReconnectDelay)
	m.retryTimer = t

	go func() {
		select {
		case <-t.Chan():
			m.mu.Lock()
			if m.retryTimer == t {
				m.retryTimer = nil
			}
			closed := m.closed
			m.mu.Unlock()
			if closed {
				return
			}
			if err := m.Connect(); err != nil {
				log.Debug().Err(err).Str("conn_id", m.id).Msg("reconnect attempt failed")
			}
		case <-m.done:
			stopAndDrainTimer(t)
		}
	}()

	log.Info().
		Str("conn_id", m.id).
		Dur("delay", m.config.ReconnectDelay).
		Msg("reconnect scheduled")
}

// cancelRetryLocked disarms a pending reconnect timer, if any
func (m *Manager) cancelRetryLocked() {
	if m.retryTimer != nil {
		stopAndDrainTimer(m.retryTimer)
		m.retryTimer = nil
	}
}

// stopAndDrainTimer stops a timer and drains its channel so a fired-but-
// unconsumed tick cannot leak to a later select.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

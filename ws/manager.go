package ws

import (
	"sync"

	"donorlink/internal/logger"
)

// Event - конверт исходящего WS-события
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Manager ведет реестр активных соединений по userID.
// Один пользователь может держать несколько соединений (вкладки,
// устройства); события доставляются на каждое из них.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run обслуживает регистрацию и снятие соединений. Запускается
// один раз в отдельной горутине при старте приложения.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.addClient(client)
		case client := <-m.unregister:
			m.removeClient(client)
		}
	}
}

func (m *Manager) addClient(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns, ok := m.clients[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		m.clients[client.UserID] = conns
	}
	conns[client] = struct{}{}

	logger.Debug("ws client registered", "user_id", client.UserID, "connections", len(conns))
}

func (m *Manager) removeClient(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(m.clients, client.UserID)
	}

	logger.Debug("ws client unregistered", "user_id", client.UserID, "connections", len(conns))
}

// Register ставит соединение на учет
func (m *Manager) Register(client *Client) {
	m.register <- client
}

// Unregister снимает соединение с учета
func (m *Manager) Unregister(client *Client) {
	m.unregister <- client
}

// SendToUser доставляет событие на все соединения пользователя.
// Пользователь офлайн или буфер соединения полон - событие молча
// отбрасывается, доставка не гарантируется.
func (m *Manager) SendToUser(userID string, event string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns, ok := m.clients[userID]
	if !ok {
		return
	}

	evt := Event{Type: event, Data: data}
	for client := range conns {
		select {
		case client.Send <- evt:
		default:
			logger.Warn("ws send buffer full, dropping event", "user_id", userID, "event", event)
		}
	}
}

// IsOnline - есть ли у пользователя хотя бы одно активное соединение
func (m *Manager) IsOnline(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

// ClientCount - количество активных соединений пользователя
func (m *Manager) ClientCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

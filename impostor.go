// Who? - pass-and-play impostor word game
//
// One device is passed around the table. Every player in turn looks at their
// card: most see the secret word, the impostor(s) only get a hint. Then the
// table discusses, votes, and the results reveal who was who.
//
// Features:
// - One session per game ID: /path/:gameid, /path/:gameid/ws
// - First device to connect to a session is the host and drives the game;
//   later connections (a TV, a phone scanning the QR code) only watch
// - Cards are only ever sent to the host device, one at a time
// - Lobby setup (roster, categories, settings) is saved per session
// - Discussion countdown ticks server-side and stops when the phase ends
// - Sessions are reaped after a configurable idle timeout
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/whobox/games"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string          `json:"type"`                // see handleAction
	PlayerID string          `json:"player_id,omitempty"` // remove_player / update_player
	Name     string          `json:"name,omitempty"`      // update_player
	Color    string          `json:"color,omitempty"`     // update_player
	Category string          `json:"category,omitempty"`  // toggle_category
	Settings *games.Settings `json:"settings,omitempty"`  // update_settings
	Voter    string          `json:"voter,omitempty"`     // vote
	Target   string          `json:"target,omitempty"`    // vote
}

// PlayerInfo is the public part of a player.
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryInfo lists a category without giving its words away.
type CategoryInfo struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Words    int    `json:"words"`
	Selected bool   `json:"selected"`
}

// SessionStateMessage is broadcast to every connection after each change.
// It carries nothing that would reveal a role.
type SessionStateMessage struct {
	Type           string         `json:"type"` // "session_state"
	IsHost         bool           `json:"is_host"`
	Phase          games.Phase    `json:"phase"`
	Players        []PlayerInfo   `json:"players"`
	Categories     []CategoryInfo `json:"categories"`
	Settings       games.Settings `json:"settings"`
	CurrentPlayer  int            `json:"current_player"`
	CardViewed     bool           `json:"card_viewed"`
	Votes          int            `json:"votes"`
	TimerRemaining int            `json:"timer_remaining"`
	TimerRunning   bool           `json:"timer_running"`
}

// CardViewMessage is sent only to the host, in answer to "view_card".
type CardViewMessage struct {
	Type string         `json:"type"` // "card_view"
	Card games.CardView `json:"card"`
}

// ResultsMessage is broadcast once the discussion has ended.
type ResultsMessage struct {
	Type    string        `json:"type"` // "results"
	Results games.Results `json:"results"`
}

// TimerMessage is broadcast on every countdown tick.
type TimerMessage struct {
	Type      string `json:"type"` // "timer"
	Remaining int    `json:"remaining"`
	Expired   bool   `json:"expired"`
}

// ErrorMessage is sent to the client whose action was refused.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	deviceID string
}

type clientAction struct {
	client *Client
	msg    ClientMessage
}

// timerTick carries the generation of the countdown it came from, so ticks
// from a stopped countdown are dropped.
type timerTick struct {
	generation int
}

type Hub struct {
	id      string
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan clientAction
	ticks    chan timerTick
	quit     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt    time.Time
	lastActive   time.Time
	hostDeviceID string // first device to connect drives the game

	session games.Session
	rng     games.Source
	store   games.Store

	timerGeneration int
	cancelTimer     context.CancelFunc
	tickInterval    time.Duration
}

func newHub(gameID string, store games.Store, rng games.Source) *Hub {
	now := time.Now()
	return &Hub{
		id:           gameID,
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unreg:        make(chan *Client),
		actions:      make(chan clientAction),
		ticks:        make(chan timerTick),
		quit:         make(chan struct{}),
		createdAt:    now,
		lastActive:   now,
		session:      games.NewSession(),
		rng:          rng,
		store:        store,
		tickInterval: time.Second,
	}
}

func (h *Hub) storageKey() string {
	return games.StorageKey + "/" + h.id
}

// load restores the saved lobby setup of this session, if any.
func (h *Hub) load(cfg *Config) {
	session, err := games.LoadSession(h.store, h.storageKey())
	if err != nil {
		logf(cfg, "ERROR: Discarding saved setup of %s: %v", h.id, err)
	}

	h.mu.Lock()
	h.session = session
	h.mu.Unlock()
}

func (h *Hub) save(cfg *Config) {
	if err := games.SaveSession(h.store, h.storageKey(), h.session); err != nil {
		logf(cfg, "ERROR: Saving setup of %s: %v", h.id, err)
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()

			if h.hostDeviceID == "" {
				h.hostDeviceID = c.deviceID
			}

			h.clients[c] = true

			h.sendLocked(c, h.stateMessageLocked(c))
			if h.session.Phase() == games.PhaseResults {
				h.sendResultsLocked(c)
			}

			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case a := <-h.actions:
			h.handleAction(cfg, a)

		case t := <-h.ticks:
			h.handleTick(cfg, t)

		case <-h.quit:
			return
		}
	}
}

// handleAction applies one client action to the session. A refused action
// leaves the session as it was and is reported to that client only.
func (h *Hub) handleAction(cfg *Config, a clientAction) {
	c := a.client
	msg := a.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if c.deviceID == "" || c.deviceID != h.hostDeviceID {
		h.sendLocked(c, ErrorMessage{
			Type:    "error",
			Code:    "not_host",
			Message: "Only the device that started this game can control it.",
		})
		return
	}

	before := h.session.Phase()

	var (
		next  games.Session
		err   error
		saved bool
	)

	switch msg.Type {
	case "start_game":
		next, err = h.session.StartGame(h.rng)
	case "view_card":
		next, err = h.session.MarkViewed()
	case "next_player":
		next, err = h.session.Advance()
	case "vote":
		next, err = h.session.Vote(msg.Voter, msg.Target)
	case "end_game":
		next, err = h.session.EndGame()
	case "reset_game":
		next = h.session.ResetGame()
	case "add_player":
		next, _, err = h.session.AddPlayer()
		saved = true
	case "remove_player":
		next, err = h.session.RemovePlayer(msg.PlayerID)
		saved = true
	case "update_player":
		next, err = h.session.UpdatePlayer(msg.PlayerID, msg.Name, msg.Color)
		saved = true
	case "toggle_category":
		next, err = h.session.ToggleCategory(msg.Category)
		saved = true
	case "update_settings":
		if msg.Settings == nil {
			err = games.ErrInvalidSettings
			break
		}
		next, err = h.session.UpdateSettings(*msg.Settings)
		saved = true
	default:
		// ignore unknown types
		return
	}

	if err != nil {
		h.sendLocked(c, errorMessage(err))
		return
	}

	if msg.Type == "view_card" {
		card, err := next.CurrentCard()
		if err != nil {
			h.sendLocked(c, errorMessage(err))
			return
		}
		h.sendLocked(c, CardViewMessage{Type: "card_view", Card: card})
	}

	h.session = next

	if saved {
		h.save(cfg)
	}

	after := h.session.Phase()
	if before != after {
		logf(cfg, "GAMES: Session %s moved from %s to %s", h.id, before, after)
	}

	switch {
	case after == games.PhaseDiscussion && before != games.PhaseDiscussion:
		if h.session.Round.TimerRunning {
			h.startTimerLocked(cfg, h.session.Round.TimerRemaining)
		}
	case after != games.PhaseDiscussion:
		h.stopTimerLocked()
	}

	if msg.Type == "start_game" {
		logf(cfg, "GAMES: Round started in %s (%s, %d players)",
			h.id, strings.Join(h.session.Round.Resolution().Labels(), " + "), len(h.session.Players))
	}

	h.broadcastStateLocked()

	if after == games.PhaseResults && before != games.PhaseResults {
		for client := range h.clients {
			h.sendResultsLocked(client)
		}
	}
}

func (h *Hub) handleTick(cfg *Config, t timerTick) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t.generation != h.timerGeneration {
		return
	}

	next, expired := h.session.Tick()
	h.session = next

	msg := TimerMessage{
		Type:      "timer",
		Remaining: next.Round.TimerRemaining,
		Expired:   expired,
	}
	for client := range h.clients {
		h.sendLocked(client, msg)
	}

	if expired {
		logf(cfg, "GAMES: Discussion timer expired in %s", h.id)
		h.stopTimerLocked()
	}
}

// startTimerLocked runs the discussion countdown. Ticks are handed to the hub
// loop; the countdown itself never touches the session.
func (h *Hub) startTimerLocked(cfg *Config, seconds int) {
	h.stopTimerLocked()

	ctx, cancel := context.WithCancel(context.Background())
	h.cancelTimer = cancel
	generation := h.timerGeneration
	interval := h.tickInterval

	go func() {
		err := games.Countdown(ctx, interval, seconds, func(int) {
			select {
			case h.ticks <- timerTick{generation: generation}:
			case <-ctx.Done():
			case <-h.quit:
			}
		})
		if err != nil {
			logf(cfg, "GAMES: Discussion timer of %s stopped", h.id)
		}
	}()
}

func (h *Hub) stopTimerLocked() {
	if h.cancelTimer != nil {
		h.cancelTimer()
		h.cancelTimer = nil
	}
	h.timerGeneration++
}

func (h *Hub) stateMessageLocked(c *Client) SessionStateMessage {
	s := h.session

	players := make([]PlayerInfo, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, PlayerInfo{ID: p.ID, Name: p.Name, Color: p.Color})
	}

	selected := make(map[string]bool, len(s.Selected))
	for _, name := range s.Selected {
		selected[name] = true
	}
	categories := make([]CategoryInfo, 0, len(s.Categories))
	for _, cat := range s.Categories {
		categories = append(categories, CategoryInfo{
			Name:     cat.Name,
			Emoji:    cat.Emoji,
			Words:    len(cat.Words),
			Selected: selected[cat.Name],
		})
	}

	return SessionStateMessage{
		Type:           "session_state",
		IsHost:         c.deviceID != "" && c.deviceID == h.hostDeviceID,
		Phase:          s.Phase(),
		Players:        players,
		Categories:     categories,
		Settings:       s.Settings,
		CurrentPlayer:  s.Round.CurrentPlayer,
		CardViewed:     s.Round.CardViewed,
		Votes:          len(s.Round.Votes),
		TimerRemaining: s.Round.TimerRemaining,
		TimerRunning:   s.Round.TimerRunning,
	}
}

func (h *Hub) broadcastStateLocked() {
	for client := range h.clients {
		h.sendLocked(client, h.stateMessageLocked(client))
	}
}

func (h *Hub) sendResultsLocked(c *Client) {
	res, err := h.session.Results()
	if err != nil {
		return
	}
	h.sendLocked(c, ResultsMessage{Type: "results", Results: res})
}

// sendLocked drops clients whose buffer is full.
func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// closeAll disconnects all clients of this hub and stops it (used by reaper).
func (h *Hub) closeAll() {
	h.stopOnce.Do(func() { close(h.quit) })

	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopTimerLocked()

	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const deviceCookieName = "whobox_id"

func getOrSetDeviceID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(deviceCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	u, err := uuid.NewRandom()
	if err != nil {
		log.Println("device id error:", err)
		return ""
	}
	id := u.String()

	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	store       games.Store
	newSource   func() games.Source
	done        chan struct{}
	closeOnce   sync.Once
}

func newGameManager(cfg *Config, store games.Store) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		store:       store,
		newSource:   sourceFactory(cfg),
		done:        make(chan struct{}),
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop(cfg)
	}
	return gm
}

// sourceFactory returns how each new session gets its random source. A fixed
// seed gives every session the same sequence of draws.
func sourceFactory(cfg *Config) func() games.Source {
	if cfg.seed != 0 {
		seed := cfg.seed
		return func() games.Source { return games.NewSource(seed) }
	}

	return func() games.Source {
		rng, err := games.NewRandomSource()
		if err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		return rng
	}
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.store, gm.newSource())
	hub.load(cfg)
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(cfg *Config) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
		}

		gm.reap(cfg, time.Now().Add(-gm.idleTimeout))
	}
}

func (gm *GameManager) reap(cfg *Config, cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last, created := hub.lastActive, hub.createdAt
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			logf(cfg, "GAMES: Reaping idle session %s after %s", id, time.Since(created).Round(time.Second))
			delete(gm.hubs, id)
			go hub.closeAll()
		}
	}
}

// Close stops the reaper and every hub.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.closeAll()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		deviceID := getOrSetDeviceID(w, r)
		if deviceID == "" {
			http.Error(w, "unable to assign device id", http.StatusInternalServerError)
			return
		}

		hub := gm.getHub(cfg, gameID)

		// Set-Cookie only reaches the client through the upgrade response.
		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			deviceID: deviceID,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.actions <- clientAction{client: c, msg: msg}:
		case <-h.quit:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

//go:embed assets/play/index.html
var indexHTML []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetDeviceID(w, r)

		_, _ = w.Write(indexHTML)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerImpostorGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerImpostorGame(cfg *Config, path string, store games.Store, mux *httprouter.Router) *GameManager {
	gm := newGameManager(cfg, store)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}

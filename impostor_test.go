package main

import (
	"testing"
	"time"

	"github.com/Seednode/whobox/games"
	"github.com/Seednode/whobox/storage"
)

func testConfig() *Config {
	return &Config{port: 8080}
}

func testHub(t *testing.T, store games.Store) *Hub {
	t.Helper()

	h := newHub("test", store, games.NewSource(1))
	t.Cleanup(h.closeAll)
	return h
}

// attach adds a client the way the run loop would, without a connection.
func attach(h *Hub, deviceID string) *Client {
	c := &Client{send: make(chan any, 64), deviceID: deviceID}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hostDeviceID == "" {
		h.hostDeviceID = deviceID
	}
	h.clients[c] = true
	return c
}

func drain(c *Client) []any {
	var out []any
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func find[T any](msgs []any) (T, bool) {
	var zero T
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(T); ok {
			return m, true
		}
	}
	return zero, false
}

func act(h *Hub, c *Client, msg ClientMessage) {
	h.handleAction(testConfig(), clientAction{client: c, msg: msg})
}

func TestHubRefusesViewers(t *testing.T) {
	h := testHub(t, storage.NewMemory())
	host := attach(h, "host")
	viewer := attach(h, "viewer")

	act(h, viewer, ClientMessage{Type: "start_game"})

	e, ok := find[ErrorMessage](drain(viewer))
	if !ok || e.Code != "not_host" {
		t.Fatalf("viewer got %+v, want not_host error", e)
	}
	if len(drain(host)) != 0 {
		t.Error("host was notified of a refused action")
	}
	if h.session.Phase() != games.PhaseLobby {
		t.Errorf("phase = %s, want lobby", h.session.Phase())
	}
}

func TestHubPlaysRound(t *testing.T) {
	h := testHub(t, storage.NewMemory())
	host := attach(h, "host")
	viewer := attach(h, "viewer")

	act(h, host, ClientMessage{Type: "start_game"})

	state, ok := find[SessionStateMessage](drain(viewer))
	if !ok || state.Phase != games.PhaseViewingCards || state.IsHost {
		t.Fatalf("viewer state = %+v", state)
	}
	state, ok = find[SessionStateMessage](drain(host))
	if !ok || !state.IsHost {
		t.Fatalf("host state = %+v", state)
	}

	impostors := 0
	for i, p := range h.session.Players {
		act(h, host, ClientMessage{Type: "view_card"})

		card, ok := find[CardViewMessage](drain(host))
		if !ok {
			t.Fatalf("player %d: no card sent to host", i)
		}
		if card.Card.PlayerID != p.ID {
			t.Errorf("player %d: card for %s, want %s", i, card.Card.PlayerID, p.ID)
		}
		if card.Card.IsImpostor {
			impostors++
			if card.Card.Content != "" {
				t.Errorf("impostor card carries the word %q", card.Card.Content)
			}
		} else if card.Card.Content == "" {
			t.Error("innocent card has no word")
		}

		if _, ok := find[CardViewMessage](drain(viewer)); ok {
			t.Fatal("card sent to a viewer")
		}

		act(h, host, ClientMessage{Type: "next_player"})
	}
	if impostors != 1 {
		t.Errorf("impostors = %d, want 1", impostors)
	}
	if h.session.Phase() != games.PhaseDiscussion {
		t.Fatalf("phase = %s, want discussion", h.session.Phase())
	}

	players := h.session.Players
	act(h, host, ClientMessage{Type: "vote", Voter: players[0].ID, Target: players[1].ID})
	state, _ = find[SessionStateMessage](drain(viewer))
	if state.Votes != 1 {
		t.Errorf("votes = %d, want 1", state.Votes)
	}

	act(h, host, ClientMessage{Type: "end_game"})
	for _, c := range []*Client{host, viewer} {
		res, ok := find[ResultsMessage](drain(c))
		if !ok {
			t.Fatal("results not broadcast")
		}
		if len(res.Results.Impostors) != 1 || res.Results.Word == "" {
			t.Errorf("results = %+v", res.Results)
		}
	}

	act(h, host, ClientMessage{Type: "reset_game"})
	if h.session.Phase() != games.PhaseLobby {
		t.Errorf("phase = %s, want lobby", h.session.Phase())
	}
	for _, p := range h.session.Players {
		if p.IsImpostor != nil {
			t.Errorf("player %s kept a role after reset", p.ID)
		}
	}
}

func TestHubReportsEngineErrors(t *testing.T) {
	h := testHub(t, storage.NewMemory())
	host := attach(h, "host")

	act(h, host, ClientMessage{Type: "start_game"})
	drain(host)

	act(h, host, ClientMessage{Type: "next_player"})

	e, ok := find[ErrorMessage](drain(host))
	if !ok || e.Code != games.ErrCardNotViewed.Code {
		t.Fatalf("got %+v, want %s", e, games.ErrCardNotViewed.Code)
	}
	if h.session.Round.CurrentPlayer != 0 {
		t.Errorf("current player moved to %d", h.session.Round.CurrentPlayer)
	}

	act(h, host, ClientMessage{Type: "update_settings"})
	e, _ = find[ErrorMessage](drain(host))
	if e.Code != games.ErrWrongPhase.Code && e.Code != games.ErrInvalidSettings.Code {
		t.Errorf("update_settings without settings: got %+v", e)
	}
}

func TestHubIgnoresUnknownMessages(t *testing.T) {
	h := testHub(t, storage.NewMemory())
	host := attach(h, "host")

	act(h, host, ClientMessage{Type: "dance"})

	if msgs := drain(host); len(msgs) != 0 {
		t.Errorf("got %d messages, want none", len(msgs))
	}
}

func TestHubSavesLobbyEdits(t *testing.T) {
	store := storage.NewMemory()
	h := testHub(t, store)
	host := attach(h, "host")

	act(h, host, ClientMessage{Type: "add_player"})
	act(h, host, ClientMessage{Type: "update_player", PlayerID: "1", Name: "Ada"})
	act(h, host, ClientMessage{Type: "toggle_category", Category: "Food"})

	saved, err := games.LoadSession(store, h.storageKey())
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Players) != 4 {
		t.Errorf("saved %d players, want 4", len(saved.Players))
	}
	if saved.Players[0].Name != "Ada" {
		t.Errorf("saved name %q, want Ada", saved.Players[0].Name)
	}
	for _, name := range saved.Selected {
		if name == "Food" {
			t.Error("toggled category still selected")
		}
	}

	restored := newHub("test", store, games.NewSource(1))
	restored.load(testConfig())
	if len(restored.session.Players) != 4 {
		t.Errorf("restored %d players, want 4", len(restored.session.Players))
	}

	other := newHub("other", store, games.NewSource(1))
	other.load(testConfig())
	if len(other.session.Players) != 3 {
		t.Errorf("unrelated session has %d players, want defaults", len(other.session.Players))
	}
}

func TestHubDiscussionTimer(t *testing.T) {
	h := testHub(t, storage.NewMemory())
	h.tickInterval = time.Millisecond
	go h.run(testConfig())

	host := &Client{send: make(chan any, 256), deviceID: "host"}
	h.register <- host

	settings := games.DefaultSettings()
	settings.Timer = games.Timer{Enabled: true, Length: games.MinTimerLength}

	h.actions <- clientAction{client: host, msg: ClientMessage{Type: "update_settings", Settings: &settings}}
	h.actions <- clientAction{client: host, msg: ClientMessage{Type: "start_game"}}
	for range 3 {
		h.actions <- clientAction{client: host, msg: ClientMessage{Type: "view_card"}}
		h.actions <- clientAction{client: host, msg: ClientMessage{Type: "next_player"}}
	}

	deadline := time.After(5 * time.Second)
	ticks := 0
	for {
		select {
		case msg := <-host.send:
			tm, ok := msg.(TimerMessage)
			if !ok {
				continue
			}
			ticks++
			if !tm.Expired {
				continue
			}
			if tm.Remaining != 0 {
				t.Errorf("expired with %d seconds left", tm.Remaining)
			}
			if ticks != games.MinTimerLength {
				t.Errorf("got %d ticks, want %d", ticks, games.MinTimerLength)
			}

			h.mu.RLock()
			phase := h.session.Phase()
			h.mu.RUnlock()
			if phase != games.PhaseDiscussion {
				t.Errorf("phase = %s after expiry, want discussion", phase)
			}
			return
		case <-deadline:
			t.Fatalf("timer did not expire, %d ticks seen", ticks)
		}
	}
}

func TestHubStopsTimerOnEnd(t *testing.T) {
	h := testHub(t, storage.NewMemory())
	host := attach(h, "host")

	settings := games.DefaultSettings()
	settings.Timer = games.Timer{Enabled: true, Length: games.MinTimerLength}
	act(h, host, ClientMessage{Type: "update_settings", Settings: &settings})
	act(h, host, ClientMessage{Type: "start_game"})
	for range 3 {
		act(h, host, ClientMessage{Type: "view_card"})
		act(h, host, ClientMessage{Type: "next_player"})
	}

	if h.cancelTimer == nil {
		t.Fatal("timer not started in discussion")
	}
	generation := h.timerGeneration

	act(h, host, ClientMessage{Type: "end_game"})
	if h.cancelTimer != nil {
		t.Error("timer still running after end_game")
	}

	drain(host)
	h.handleTick(testConfig(), timerTick{generation: generation})
	if _, ok := find[TimerMessage](drain(host)); ok {
		t.Error("stale tick was broadcast")
	}
}

func TestGameManagerReapsIdleHubs(t *testing.T) {
	cfg := testConfig()
	gm := newGameManager(cfg, storage.NewMemory())
	defer gm.Close()

	hub := gm.getHub(cfg, "idle")
	if again := gm.getHub(cfg, "idle"); again != hub {
		t.Fatal("getHub returned a different hub for the same id")
	}

	hub.mu.Lock()
	hub.lastActive = time.Now().Add(-time.Hour)
	hub.mu.Unlock()

	gm.reap(cfg, time.Now().Add(-time.Minute))

	gm.mu.Lock()
	n := len(gm.hubs)
	gm.mu.Unlock()
	if n != 0 {
		t.Errorf("%d hubs left, want 0", n)
	}

	select {
	case <-hub.quit:
	case <-time.After(time.Second):
		t.Error("reaped hub was not stopped")
	}
}

func TestNewGameID(t *testing.T) {
	gm := newGameManager(testConfig(), nil)
	defer gm.Close()

	seen := map[string]bool{}
	for range 100 {
		id := gm.newGameID()
		if len(id) != 8 {
			t.Fatalf("id %q has length %d, want 8", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSourceFactorySeeded(t *testing.T) {
	newSource := sourceFactory(&Config{seed: 7})
	a, b := newSource(), newSource()

	for range 10 {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("seeded sources diverged: %d != %d", x, y)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	e := errorMessage(games.ErrTooManyImpostors)
	if e.Code != "too_many_impostors" || e.Message == "" {
		t.Errorf("errorMessage = %+v", e)
	}

	e = errorMessage(&games.ConfigurationError{Op: "resolve", Message: "boom"})
	if e.Code != "internal" {
		t.Errorf("configuration error code = %q, want internal", e.Code)
	}
}

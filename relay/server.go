package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"voiceorb/element"
	"voiceorb/session"
)

type Config struct {
	// Addr to listen on, e.g. ":6969".
	Addr string
	// WebDir is the wasm build folder served at /.
	// Empty disables static serving.
	WebDir string
	// Element is used to render /widget.js.
	// AppURL may be left empty, then the relay's own base url is used.
	Element element.Definition
	// ClientBuffer is how many messages a slow orb may fall behind.
	ClientBuffer int
}

func DefaultConfig() Config {
	return Config{
		Addr:         ":6969",
		WebDir:       "./web_build",
		Element:      element.DefaultDefinition(""),
		ClientBuffer: 16,
	}
}

type Server struct {
	config Config

	app *fiber.App
	hub *Hub

	ctx    context.Context
	cancel context.CancelFunc

	stateMu sync.RWMutex
	state   session.State
	updated time.Time
}

func NewServer(config Config) *Server {
	s := &Server{
		config: config,
		hub:    NewHub(),
		state:  session.StateDisconnected,
	}
	if s.config.ClientBuffer <= 0 {
		s.config.ClientBuffer = 16
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.hub.Run(s.ctx)

	app := fiber.New(fiber.Config{
		AppName:               "voiceorb relay",
		DisableStartupMessage: true,
	})

	app.Use(NoCache)

	api := app.Group("/api")
	api.Get("/state", s.handleGetState)
	api.Post("/state", s.handlePostState)

	app.Get("/widget.js", s.handleWidget)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	if config.WebDir != "" {
		app.Static("/", config.WebDir)
	}

	s.app = app
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) Listen() error {
	infoLogger.Printf("relay listening on %s", s.config.Addr)
	return s.app.Listen(s.config.Addr)
}

func (s *Server) Serve(ln net.Listener) error {
	infoLogger.Printf("relay listening on %s", ln.Addr())
	return s.app.Listener(ln)
}

func (s *Server) Shutdown() error {
	s.cancel()
	return s.app.Shutdown()
}

func (s *Server) State() session.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// SetState stores state and pushes it to every connected orb.
// Stores and broadcasts happen in the same order, so the last state
// every orb sees is the one GET /api/state reports.
func (s *Server) SetState(state session.State) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.state = state
	s.updated = time.Now()

	// Broadcast doesn't block
	return s.hub.BroadcastJSON(session.Message{State: state})
}

type stateResponse struct {
	State   session.State `json:"state"`
	Updated time.Time     `json:"updated"`
	Orbs    int           `json:"orbs"`
}

func (s *Server) handleGetState(c *fiber.Ctx) error {
	s.stateMu.RLock()
	resp := stateResponse{
		State:   s.state,
		Updated: s.updated,
		Orbs:    s.hub.ClientCount(),
	}
	s.stateMu.RUnlock()

	return c.JSON(resp)
}

func (s *Server) handlePostState(c *fiber.Ctx) error {
	var req struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("bad body: %v", err))
	}

	state, ok := session.ParseState(req.State)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%v: %q", session.ErrUnknownState, req.State))
	}

	if err := s.SetState(state); err != nil {
		return err
	}

	return c.JSON(session.Message{State: state})
}

func (s *Server) handleWidget(c *fiber.Ctx) error {
	def := s.config.Element
	if def.AppURL == "" {
		def.AppURL = c.BaseURL() + "/"
	}

	script, err := element.LoaderScript(def)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/javascript; charset=utf-8")
	return c.SendString(script)
}

func (s *Server) handleStateWS(conn *websocket.Conn) {
	client := NewClient(s.config.ClientBuffer)

	if !s.hub.Register(s.ctx, client) {
		conn.Close()
		return
	}
	defer s.hub.Unregister(s.ctx, client)

	// new orbs start from the current state
	if err := conn.WriteJSON(session.Message{State: s.State()}); err != nil {
		return
	}

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			// orbs don't talk back, reading only notices the close
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-client.Send():
			if !ok {
				conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-readDone:
			return
		}
	}
}

package web

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/bloops-games/spelldown/internal/buildinfo"
	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/server"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

const (
	playerCookieName = "spelldown_id"
	writeWait        = 10 * time.Second
	maxMessageSize   = 8 << 10
	qrSize           = 320
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,32}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

//go:embed assets/index.html
var indexHTML []byte

//go:embed assets/app.css
var appCSS []byte

//go:embed assets/app.js
var appJS []byte

// Routes registers:
//   - /health, /version  service endpoints
//   - /                  redirects to a new room
//   - /game/:gameid      HTML client
//   - /game/:gameid/ws   websocket of the room
//   - /game/:gameid/qr   PNG QR code of the room URL
func (m *Manager) Routes(ctx context.Context) *httprouter.Router {
	mux := httprouter.New()

	mux.GET("/", m.redirectNewRoom(ctx))
	mux.GET("/game/:gameid", serveIndex)
	mux.GET("/game/:gameid/ws", m.serveWS(ctx))
	mux.GET("/game/:gameid/qr", serveQR)
	mux.GET("/assets/app.css", serveAsset("text/css; charset=utf-8", appCSS))
	mux.GET("/assets/app.js", serveAsset("application/javascript; charset=utf-8", appJS))
	mux.Handler(http.MethodGet, "/health", server.HandleHealth(ctx))
	mux.GET("/version", serveVersion)

	return mux
}

func serveVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "%s %s\n", buildinfo.ProjectName, buildinfo.Version)
}

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Permissions-Policy", "geolocation=(), camera=(), payment=(), microphone=(self)")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; connect-src 'self' ws: wss:")
}

func (m *Manager) redirectNewRoom(ctx context.Context) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		id := m.newRoomID()
		logging.FromContext(ctx).Named("web.redirectNewRoom").Debugf("New room %s", id)
		http.Redirect(w, r, "/game/"+id, http.StatusTemporaryRedirect)
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !roomIDPattern.MatchString(ps.ByName("gameid")) {
		http.NotFound(w, r)
		return
	}

	if _, cookie := playerID(r); cookie != nil {
		http.SetCookie(w, cookie)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	securityHeaders(w)
	_, _ = w.Write(indexHTML)
}

func serveAsset(contentType string, body []byte) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(w)
		_, _ = w.Write(body)
	}
}

// playerID returns the id stored in the cookie, or a fresh one and the cookie to set.
func playerID(r *http.Request) (string, *http.Cookie) {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", nil
	}
	id := hex.EncodeToString(buf)

	return id, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	}
}

func (m *Manager) serveWS(ctx context.Context) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		logger := logging.FromContext(ctx).Named("web.serveWS")

		gameID := ps.ByName("gameid")
		if !roomIDPattern.MatchString(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		id, cookie := playerID(r)
		if id == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		header := http.Header{}
		if cookie != nil {
			header.Add("Set-Cookie", cookie.String())
		}

		conn, err := upgrader.Upgrade(w, r, header)
		if err != nil {
			logger.Debugf("upgrade: %v", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan interface{}, 32),
			playerID: id,
			limiter:  rate.NewLimiter(rate.Limit(m.cfg.RateLimit), m.cfg.RateBurst),
		}

		room := m.room(gameID)
		if !room.join(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(ctx, room)
	}
}

func (c *Client) readPump(ctx context.Context, room *Room) {
	defer func() {
		room.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if rateLimited(msg.Type) && !c.limiter.Allow() {
			room.sendTo(c, SimpleMessage{Type: "error", Message: "Too many requests, slow down"})
			continue
		}

		room.handle(ctx, c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// serveQR renders a PNG QR code of the room URL, derived from the request.
func serveQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !roomIDPattern.MatchString(ps.ByName("gameid")) {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"go.opentelemetry.io/otel/metric"

	"github.com/dayaar/frontdesk/internal/conversation"
	"github.com/dayaar/frontdesk/internal/observe"
)

// clientMessage is one inbound WebSocket frame.
type clientMessage struct {
	// Type is "open", "send", or "select".
	Type string `json:"type"`

	// Text carries the visitor's typed input for "send".
	Text string `json:"text,omitempty"`

	// Value carries the pressed option's submission value for "select".
	Value string `json:"value,omitempty"`
}

// serverMessage is one outbound WebSocket frame. Turn frames carry the bot's
// reply together with its directive and input-field flag; the client renders
// from the directive and never re-parses the text.
type serverMessage struct {
	// Type is "session", "turn", or "error".
	Type string `json:"type"`

	// SessionID is set on the initial "session" frame.
	SessionID string `json:"sessionId,omitempty"`

	// Turn is set on "turn" frames.
	Turn *conversation.Turn `json:"turn,omitempty"`

	// Error is set on "error" frames. The connection stays open; an invalid
	// selection is a client bug, not a fatal condition.
	Error string `json:"error,omitempty"`
}

// handleWS upgrades the connection and brokers one visitor session over it.
// The session is closed when the socket goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		observe.Logger(r.Context()).Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	ctx := r.Context()
	log := observe.Logger(ctx)

	sess, err := s.app.Sessions().Open(ctx, r.RemoteAddr)
	if err != nil {
		log.Error("session open failed", "error", err)
		conn.Close(websocket.StatusInternalError, "cannot open session")
		return
	}
	defer s.app.Sessions().Close(context.WithoutCancel(ctx), sess.ID())

	if err := s.writeFrame(ctx, conn, serverMessage{Type: "session", SessionID: sess.ID()}); err != nil {
		return
	}

	for {
		msg, err := s.readFrame(ctx, conn)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "bye")
			} else {
				log.Debug("websocket read ended", "session_id", sess.ID(), "error", err)
			}
			return
		}

		turn, err := s.dispatch(ctx, sess, msg)
		if err != nil {
			if errors.Is(err, conversation.ErrValueNotAllowed) || errors.Is(err, errUnknownType) {
				if werr := s.writeFrame(ctx, conn, serverMessage{Type: "error", Error: err.Error()}); werr != nil {
					return
				}
				continue
			}
			log.Error("exchange failed", "session_id", sess.ID(), "error", err)
			if werr := s.writeFrame(ctx, conn, serverMessage{Type: "error", Error: "backend unavailable"}); werr != nil {
				return
			}
			continue
		}

		if err := s.writeFrame(ctx, conn, serverMessage{Type: "turn", Turn: &turn}); err != nil {
			return
		}
	}
}

// errUnknownType rejects frames with an unrecognised type field.
var errUnknownType = errors.New("gateway: unknown message type")

// dispatch routes one client frame to the session operation it names.
func (s *Server) dispatch(ctx context.Context, sess *conversation.Session, msg clientMessage) (conversation.Turn, error) {
	switch msg.Type {
	case "open":
		return sess.Open(ctx)
	case "send":
		return sess.Send(ctx, msg.Text)
	case "select":
		return sess.Select(ctx, msg.Value)
	default:
		return conversation.Turn{}, errUnknownType
	}
}

// readFrame reads and decodes one inbound frame, counting it.
func (s *Server) readFrame(ctx context.Context, conn *websocket.Conn) (clientMessage, error) {
	var msg clientMessage
	_, data, err := conn.Read(ctx)
	if err != nil {
		return msg, err
	}
	s.app.Metrics().WSMessages.Add(ctx, 1, wsDirection("inbound"))
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("gateway: decode frame: %w", err)
	}
	return msg, nil
}

// writeFrame encodes and sends one outbound frame, counting it.
func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn, msg serverMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return err
	}
	s.app.Metrics().WSMessages.Add(ctx, 1, wsDirection("outbound"))
	return nil
}

func wsDirection(dir string) metric.AddOption {
	return metric.WithAttributes(observe.Attr("direction", dir))
}

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/protocol"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// wsConn binds one websocket to one IVR session at a time. Reads and writes
// both happen on the handler goroutine, one reply per utterance.
type wsConn struct {
	srv       *Server
	conn      *websocket.Conn
	sessionID string
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	lang, ok := parseLanguage(r.URL.Query().Get("language"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_language", "language must be en or hi")
		return
	}
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID != "" {
		if _, err := s.sessions.Get(r.Context(), sessionID); err != nil {
			s.respondSessionError(w, err)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()
	c := &wsConn{srv: s, conn: conn, sessionID: sessionID}
	s.metrics.SessionEvent("ws_connected")
	defer s.metrics.SessionEvent("ws_disconnected")

	if c.sessionID == "" {
		if err := c.start(ctx, lang); err != nil {
			return
		}
	}

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			if c.send(protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: c.sessionID,
				Code:      "invalid_client_message",
				Source:    "gateway",
				Detail:    err.Error(),
			}) != nil {
				return
			}
			continue
		}

		var handleErr error
		switch msg := parsed.(type) {
		case protocol.ClientUtterance:
			s.metrics.WSMessage("inbound", string(msg.Type))
			handleErr = c.utterance(ctx, msg)
		case protocol.ClientControl:
			s.metrics.WSMessage("inbound", string(msg.Type))
			var done bool
			done, handleErr = c.control(ctx, msg, lang)
			if done {
				return
			}
		}
		if handleErr != nil {
			return
		}
	}
}

func (c *wsConn) start(ctx context.Context, lang taxonomy.Language) error {
	sess, err := c.srv.sessions.Start(ctx)
	if err != nil {
		return c.send(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			Code:      "session_create_failed",
			Source:    "session",
			Retryable: true,
			Detail:    err.Error(),
		})
	}
	c.sessionID = sess.ID
	return c.send(protocol.SystemEvent{
		Type:      protocol.TypeSystemEvent,
		SessionID: sess.ID,
		Code:      protocol.EventSessionStarted,
		Detail:    dialogue.Welcome(lang),
	})
}

func (c *wsConn) utterance(ctx context.Context, msg protocol.ClientUtterance) error {
	if msg.SessionID != "" && msg.SessionID != c.sessionID {
		return c.send(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: c.sessionID,
			Code:      "session_mismatch",
			Source:    "gateway",
			Detail:    "utterance session_id does not match the connection",
		})
	}
	if c.sessionID == "" {
		return c.send(protocol.ErrorEvent{
			Type:   protocol.TypeErrorEvent,
			Code:   "no_session",
			Source: "gateway",
			Detail: "connection has no active session; send a restart control",
		})
	}

	resp, err := c.srv.sessions.Submit(ctx, c.sessionID, msg.Text)
	if err != nil {
		code, retryable := "session_store_error", true
		switch {
		case errors.Is(err, session.ErrNotFound):
			code, retryable = "session_not_found", false
		case errors.Is(err, session.ErrExpired):
			code, retryable = "session_expired", false
		}
		c.srv.logger.Warn("websocket turn failed", zap.String("session_id", c.sessionID), zap.Error(err))
		return c.send(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: c.sessionID,
			Code:      code,
			Source:    "session",
			Retryable: retryable,
			Detail:    err.Error(),
		})
	}
	if err := c.send(ivrResponse(resp, msg.Seq)); err != nil {
		return err
	}
	if resp.IsComplete && resp.CollectedData.ComplaintID != "" {
		return c.send(protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: c.sessionID,
			Code:      protocol.EventComplaintFiled,
			Detail:    resp.CollectedData.ComplaintID,
		})
	}
	return nil
}

// control handles end and restart; done reports that the socket should close.
func (c *wsConn) control(ctx context.Context, msg protocol.ClientControl, lang taxonomy.Language) (bool, error) {
	if c.sessionID != "" {
		if err := c.srv.sessions.End(ctx, c.sessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
			c.srv.logger.Warn("end session failed", zap.String("session_id", c.sessionID), zap.Error(err))
		}
		ended := c.sessionID
		c.sessionID = ""
		if err := c.send(protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: ended,
			Code:      protocol.EventSessionEnded,
		}); err != nil {
			return true, err
		}
	}
	if msg.Action == protocol.ActionEnd {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
			time.Now().Add(wsWriteTimeout))
		return true, nil
	}
	return false, c.start(ctx, lang)
}

func (c *wsConn) send(msg any) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.srv.metrics.WSMessage("outbound", "write_error")
		return err
	}
	if t, ok := messageTypeOf(msg); ok {
		c.srv.metrics.WSMessage("outbound", string(t))
	}
	return nil
}

func ivrResponse(resp dialogue.Response, seq int) protocol.IVRResponse {
	return protocol.IVRResponse{
		Type:              protocol.TypeIVRResponse,
		SessionID:         resp.SessionID,
		Seq:               seq,
		State:             string(resp.State),
		Language:          string(resp.Language),
		Message:           resp.Message,
		IsComplete:        resp.IsComplete,
		CollectedData:     resp.CollectedData,
		NextExpectedInput: resp.NextExpectedInput,
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.ClientUtterance:
		return m.Type, true
	case protocol.ClientControl:
		return m.Type, true
	case protocol.IVRResponse:
		return m.Type, true
	case protocol.SystemEvent:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}

package main

import (
	"encoding/json"
	"log"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/Ko-stant/hex-tactics-engine/internal/protocol"
	"github.com/Ko-stant/hex-tactics-engine/internal/ws"
)

// BroadcasterImpl implements Broadcaster using WebSocket hub
type BroadcasterImpl struct {
	hub      *ws.Hub
	sequence SequenceGenerator
}

func NewBroadcaster(hub *ws.Hub, sequence SequenceGenerator) *BroadcasterImpl {
	return &BroadcasterImpl{
		hub:      hub,
		sequence: sequence,
	}
}

func (b *BroadcasterImpl) BroadcastEvent(eventType string, payload interface{}) {
	data, err := encodePatch(b.sequence.Next(), eventType, payload)
	if err != nil {
		log.Printf("failed to marshal %s: %v", eventType, err)
		return
	}
	b.hub.Broadcast(data)
}

// ConnReplier implements Broadcaster for a single connection, used for
// replies only the requesting client should see. Replies share the
// connection's hub queue, so they stay in order with broadcast patches.
type ConnReplier struct {
	hub      *ws.Hub
	conn     *websocket.Conn
	sequence SequenceGenerator
}

func NewConnReplier(hub *ws.Hub, conn *websocket.Conn, sequence SequenceGenerator) *ConnReplier {
	return &ConnReplier{hub: hub, conn: conn, sequence: sequence}
}

func (c *ConnReplier) BroadcastEvent(eventType string, payload interface{}) {
	data, err := encodePatch(c.sequence.Next(), eventType, payload)
	if err != nil {
		log.Printf("failed to marshal %s: %v", eventType, err)
		return
	}
	if !c.hub.SendTo(c.conn, data) {
		log.Printf("failed to queue %s: client gone or too slow", eventType)
	}
}

func encodePatch(seq uint64, eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(protocol.PatchEnvelope{
		Sequence: seq,
		EventID:  0,
		Type:     eventType,
		Payload:  payload,
	})
}

// LoggerImpl implements Logger using standard log package
type LoggerImpl struct{}

func NewLogger() *LoggerImpl {
	return &LoggerImpl{}
}

func (l *LoggerImpl) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// SequenceGeneratorImpl implements SequenceGenerator using atomic counter
type SequenceGeneratorImpl struct {
	counter uint64
}

func NewSequenceGenerator() *SequenceGeneratorImpl {
	return &SequenceGeneratorImpl{}
}

func (sg *SequenceGeneratorImpl) Next() uint64 {
	return atomic.AddUint64(&sg.counter, 1)
}

func (sg *SequenceGeneratorImpl) Current() uint64 {
	return atomic.LoadUint64(&sg.counter)
}

// IntentHandlers dispatches client intents to a match. State changes reach
// clients through the match's own event broadcasts; reply only carries
// answers meant for the requesting client.
type IntentHandlers struct {
	engine MatchEngine
	reply  Broadcaster
	logger Logger
}

func NewIntentHandlers(engine MatchEngine, reply Broadcaster, logger Logger) *IntentHandlers {
	return &IntentHandlers{
		engine: engine,
		reply:  reply,
		logger: logger,
	}
}

func (h *IntentHandlers) HandleRequestTileClick(req protocol.RequestTileClick) error {
	if err := h.engine.TileClick(req); err != nil {
		h.logger.Printf("Tile click failed: %v", err)
		return err
	}
	return nil
}

func (h *IntentHandlers) HandleRequestEndTurn() error {
	if err := h.engine.EndTurn(); err != nil {
		h.logger.Printf("End turn failed: %v", err)
		return err
	}
	return nil
}

func (h *IntentHandlers) HandleRequestSnapshot() error {
	h.reply.BroadcastEvent("Snapshot", h.engine.Snapshot())
	return nil
}

func (h *IntentHandlers) HandleWebSocketMessage(data []byte) error {
	var env protocol.IntentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &GameError{Code: "bad_request", Message: err.Error()}
	}

	switch env.Type {
	case "RequestTileClick":
		var req protocol.RequestTileClick
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return &GameError{Code: "bad_request", Message: err.Error()}
		}
		return h.HandleRequestTileClick(req)

	case "RequestBackgroundClick":
		return h.engine.BackgroundClick()

	case "RequestEndTurn":
		return h.HandleRequestEndTurn()

	case "RequestSnapshot":
		return h.HandleRequestSnapshot()

	default:
		h.logger.Printf("Unknown message type: %s", env.Type)
		return nil
	}
}

// ReplyError sends err to the requesting client as an ErrorReply
func (h *IntentHandlers) ReplyError(err error) {
	ge := toGameError(err)
	h.reply.BroadcastEvent("Error", protocol.ErrorReply{Code: ge.Code, Message: ge.Message})
}

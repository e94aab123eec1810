package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"ai-interviewer-be/internal/dto"
	"ai-interviewer-be/internal/pkg/logger"
	"ai-interviewer-be/internal/pkg/serverutils"
	"ai-interviewer-be/internal/repository/memory"
	"ai-interviewer-be/internal/service"
	"ai-interviewer-be/pkg/fraud"
	"ai-interviewer-be/pkg/store"
)

// At most this many frames are analyzed concurrently per session; frames
// arriving faster are dropped. Telemetry is lossy by nature.
const maxInflightFrames = 4

// Dispatcher owns the interview socket protocol: it demultiplexes inbound
// messages to the turn controller and the fraud monitor, serializes outbound
// events through the client's single-writer queue, and tears the session down
// exactly once.
type Dispatcher struct {
	interviewService service.IInterviewService
	fraudMonitor     *fraud.Monitor
	sessionRepo      *memory.SessionRepository
	logger           logger.ILogger
}

func NewDispatcher(
	interviewService service.IInterviewService,
	fraudMonitor *fraud.Monitor,
	sessionRepo *memory.SessionRepository,
	log logger.ILogger,
) *Dispatcher {
	return &Dispatcher{
		interviewService: interviewService,
		fraudMonitor:     fraudMonitor,
		sessionRepo:      sessionRepo,
		logger:           log,
	}
}

// Serve handles one connection for one session's lifetime. It runs the read
// loop on the calling goroutine and the write pump on its own.
func (d *Dispatcher) Serve(conn *websocket.Conn, claims *serverutils.RoomClaims) {
	if _, exists := d.sessionRepo.Get(claims.SessionID); exists {
		d.logger.Warn("Dispatcher", "rejecting duplicate join for active session", map[string]interface{}{
			"session_id": claims.SessionID,
		})
		conn.Close()
		return
	}

	session := store.NewSession(claims.SessionID)
	d.sessionRepo.Save(session)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(conn)

	var frames sync.WaitGroup
	frameSlots := make(chan struct{}, maxInflightFrames)

	defer func() {
		cancel() // cancels in-flight generator/scorer/analyzer calls
		client.CloseSend()
		frames.Wait()
		// The pump owns the connection: wait for it to drain the queue
		// (the terminal message included) and close the socket itself.
		client.WaitClosed()
		d.sessionRepo.Delete(session.ID)
		d.logger.Info("Dispatcher", "session released", map[string]interface{}{
			"session_id": session.ID,
		})
	}()

	go client.WritePump()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Serializes turn-controller state mutation. The read loop is a single
	// goroutine, but the mutex keeps the discipline explicit and protects
	// the state against any future second producer.
	var turnMu sync.Mutex

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				d.logger.Warn("Dispatcher", "connection error", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
			}
			return
		}

		var envelope dto.Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			// Transport-level failure: malformed framing is fatal to the
			// session, unlike collaborator noise which is absorbed.
			d.logger.Error("Dispatcher", "malformed message, terminating session", map[string]interface{}{
				"session_id": session.ID,
				"error":      err.Error(),
			})
			return
		}

		switch envelope.Type {
		case dto.MsgTypeInit:
			var payload dto.InitPayload
			if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
				d.logger.Error("Dispatcher", "malformed init payload, terminating session", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
				return
			}
			if payload.Name == "" {
				payload.Name = claims.CandidateName
			}

			turnMu.Lock()
			result, err := d.interviewService.HandleInit(ctx, session, payload)
			turnMu.Unlock()
			if err != nil {
				d.logger.Error("Dispatcher", "init handling failed", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
				return
			}
			d.emitTurn(client, session, result)

		case dto.MsgTypeAnswer:
			var answer string
			if err := json.Unmarshal(envelope.Payload, &answer); err != nil {
				d.logger.Error("Dispatcher", "malformed answer payload, terminating session", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
				return
			}

			turnMu.Lock()
			result, err := d.interviewService.HandleAnswer(ctx, session, answer)
			turnMu.Unlock()
			if err != nil {
				d.logger.Error("Dispatcher", "answer handling failed", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
				return
			}
			d.emitTurn(client, session, result)
			if result.Concluded {
				// Flush queued messages (including interview_end), send the
				// close frame, then fall through to teardown.
				client.CloseSend()
				return
			}

		case dto.MsgTypeVideoFrame:
			var frame string
			if err := json.Unmarshal(envelope.Payload, &frame); err != nil {
				d.logger.Error("Dispatcher", "malformed video frame, terminating session", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
				return
			}

			select {
			case frameSlots <- struct{}{}:
				frames.Add(1)
				go func() {
					defer func() {
						<-frameSlots
						frames.Done()
					}()
					d.analyzeFrame(ctx, client, session.ID, frame)
				}()
			default:
				d.logger.Debug("Dispatcher", "dropping frame, analyzer busy", map[string]interface{}{
					"session_id": session.ID,
				})
			}

		default:
			d.logger.Warn("Dispatcher", "unknown message type, ignoring", map[string]interface{}{
				"session_id": session.ID,
				"type":       envelope.Type,
			})
		}
	}
}

// emitTurn frames and queues the turn controller's output.
func (d *Dispatcher) emitTurn(client *Client, session *store.Session, result service.TurnResult) {
	if result.Ignored {
		return
	}

	if result.Concluded {
		message, err := dto.NewOutbound(dto.MsgTypeInterviewEnd, dto.InterviewEndPayload{
			Report:   result.Report,
			Decision: result.Decision,
		})
		if err == nil {
			client.Enqueue(message)
		}
		return
	}

	if result.Question != "" {
		message, err := dto.NewOutbound(dto.MsgTypeQuestion, result.Question)
		if err == nil {
			client.Enqueue(message)
		}
	}
}

// analyzeFrame runs fraud detection off the read loop. Analyzer failures are
// absorbed: a broken frame must never disturb the dialogue.
func (d *Dispatcher) analyzeFrame(ctx context.Context, client *Client, sessionID, frame string) {
	if ctx.Err() != nil {
		return
	}

	signal, err := d.fraudMonitor.AnalyzeEncoded(frame)
	if err != nil {
		d.logger.Warn("Dispatcher", "frame analysis failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	if !signal.IsSuspicious || ctx.Err() != nil {
		return
	}

	message, err := dto.NewOutbound(dto.MsgTypeFraudAlert, signal)
	if err == nil {
		client.Enqueue(message)
	}
}

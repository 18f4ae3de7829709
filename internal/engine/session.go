package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/geom"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/rules"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/world"
	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/metrics"
)

// SessionState is the progression state machine: Idle before and after a
// play-through, Running while the player is in the house, Won/Lost as the
// terminal outcomes. Both terminal states return to Running via Start.
type SessionState string

const (
	StateIdle    SessionState = "IDLE"
	StateRunning SessionState = "RUNNING"
	StateWon     SessionState = "WON"
	StateLost    SessionState = "LOST"
)

// Interaction outcome labels used in audit events.
const (
	OutcomeMiss   = "MISS"
	OutcomeReward = "REWARD"
	OutcomeRepeat = "REPEAT"
	OutcomeLocked = "LOCKED"
	OutcomeScare  = "SCARE"
	OutcomeWin    = "WIN"
	OutcomeDefect = "DEFECT" // interactable without a record
)

// Messages not tied to any record.
const (
	msgMissed        = "There is nothing there."
	msgNothing       = "Nothing happens."
	msgRepeatGeneric = "You already searched it."
	msgLost          = "The Presence found you."
	msgWelcome       = "Find the three keys. Do not let it notice you."
)

// SessionStartPayload records the start of a play-through.
type SessionStartPayload struct {
	TotalKeys int `json:"total_keys"`
}

// InteractionPayload records the full outcome of one interact action.
type InteractionPayload struct {
	ObjectID  string  `json:"object_id"`
	Outcome   string  `json:"outcome"`
	Message   string  `json:"message"`
	Cost      float64 `json:"cost"`
	KeysFound int     `json:"keys_found"`
}

// PresenceChangePayload records a discrete presence modification for audit.
type PresenceChangePayload struct {
	Previous     float64 `json:"previous"`
	New          float64 `json:"new"`
	Delta        float64 `json:"delta"`
	Cause        string  `json:"cause"` // outcome label of the triggering interaction
	CauseEventID string  `json:"cause_event_id"`
}

// VisualFeedbackPayload tells the presentation layer how to redraw one
// object. The core never speaks any rendering vocabulary beyond this.
type VisualFeedbackPayload struct {
	ObjectID string         `json:"object_id"`
	Feedback world.Feedback `json:"feedback"`
	Visible  bool           `json:"visible"`
}

// SessionEndPayload records a terminal outcome.
type SessionEndPayload struct {
	Outcome       string  `json:"outcome"`
	KeysFound     int     `json:"keys_found"`
	Presence      float64 `json:"presence"`
	DurationTicks int64   `json:"duration_ticks"`
}

type transientMessage struct {
	Text          string
	ExpiresAtTick int64
}

// Session owns all game state of one player's stay in the house. It is
// NOT safe for concurrent use: the Loop goroutine is its only caller.
type Session struct {
	params   Params
	world    *world.World
	eventLog *events.EventLog
	mapper   *TensionMapper
	logger   *logger.Logger

	state           SessionState
	sessionID       string
	tick            int64
	pose            player.Pose
	presence        float64
	keysFound       int
	totalKeys       int
	jumpscarePlayed bool
	atCapacity      bool
	hoverID         string
	message         transientMessage
}

// NewSession creates a session in Idle over a freshly built (or reset)
// world.
func NewSession(w *world.World, el *events.EventLog, mapper *TensionMapper, log *logger.Logger, params Params) *Session {
	if mapper == nil {
		mapper = NewTensionMapper(nil, params.Curve)
	}
	return &Session{
		params:    params,
		world:     w,
		eventLog:  el,
		mapper:    mapper,
		logger:    log,
		state:     StateIdle,
		totalKeys: w.TotalKeys(),
	}
}

// State returns the current progression state.
func (s *Session) State() SessionState { return s.state }

// SessionID returns the opaque identifier of the current play-through.
func (s *Session) SessionID() string { return s.sessionID }

func spawnPose() player.Pose {
	return player.Pose{Position: geom.Vec3{X: 0, Y: 0, Z: 4.5}}
}

// Start begins a new session with a full reset: world latches cleared,
// counters zeroed, player back at the spawn. It is called from the Loop
// goroutine, so the reset is atomic with respect to ticks: no tick can
// observe a half-reset world.
func (s *Session) Start() {
	s.world.Reset()

	s.sessionID = uuid.NewString()
	s.state = StateRunning
	s.tick = 0
	s.pose = spawnPose()
	s.presence = 0
	s.keysFound = 0
	s.jumpscarePlayed = false
	s.atCapacity = false
	s.hoverID = ""
	s.message = transientMessage{Text: msgWelcome, ExpiresAtTick: s.params.MessageTicks}

	s.mapper.Update(0)
	metrics.Get().RecordSessionStart()

	s.emit(events.EventTypeSessionStart, "", SessionStartPayload{TotalKeys: s.totalKeys})
	s.logger.Event("SESSION_START", s.sessionID, fmt.Sprintf("TotalKeys:%d", s.totalKeys))
}

// Tick advances the simulation by one step: movement, hover targeting,
// presence accounting, audio mapping and finally the loss check. Outside
// Running it does nothing; the Loop still publishes a render frame.
func (s *Session) Tick(dt float64, in player.Input) {
	if s.state != StateRunning {
		return
	}
	s.tick++

	var moved bool
	s.pose, moved = rules.SolveMove(s.pose, in, s.world.CollisionBoxes(), dt, s.params.Move)

	if target := rules.FindTarget(s.pose, s.params.EyeHeight, s.params.MaxRange, s.world.Interactables()); target != nil {
		s.hoverID = target.ID
	} else {
		s.hoverID = ""
	}

	s.presence = rules.TickPresence(s.presence, dt, moved, s.params.Presence)
	s.mapper.Update(s.presence / s.params.Presence.Max)

	if s.message.Text != "" && s.tick >= s.message.ExpiresAtTick {
		s.message = transientMessage{}
	}

	// The loss check runs last, and only while still Running: an exit
	// interaction that won before this tick takes precedence over
	// presence reaching capacity. The atCapacity latch keeps a clamped
	// interaction cost terminal even after decay pulls the level back
	// below the cap.
	if s.atCapacity || s.presence >= s.params.Presence.Max {
		s.lose()
	}
}

// Interact resolves the player's current aim and applies the interaction
// rules to whatever it hits. Ignored outside Running.
func (s *Session) Interact() {
	if s.state != StateRunning {
		return
	}
	target := rules.FindTarget(s.pose, s.params.EyeHeight, s.params.MaxRange, s.world.Interactables())
	s.interactWith(target)
}

// InteractWithObject resolves an object by ID and applies the
// interaction rules to it directly, bypassing the aim raycast. Scripted
// harnesses use this; the gameplay path goes through Interact.
func (s *Session) InteractWithObject(id string) bool {
	obj, ok := s.world.Object(id)
	if !ok {
		return false
	}
	s.interactWith(obj)
	return true
}

// interactWith applies the interaction rules, in order: miss, exit,
// repeat, first examination.
func (s *Session) interactWith(target *world.Object) {
	if s.state != StateRunning {
		return
	}

	if target == nil {
		s.finishInteraction("", OutcomeMiss, msgMissed, s.params.MissCost)
		return
	}

	rec, ok := s.world.Record(target.ID)
	if !ok {
		// Configuration defect: an interactable without a record. The
		// player sees a generic nothing; the log sees a complaint.
		s.logger.Warn("Interactable without record: " + target.ID)
		s.finishInteraction(target.ID, OutcomeDefect, msgNothing, 0)
		return
	}

	if rec.IsExit {
		if s.keysFound == s.totalKeys {
			s.win(rec.RewardMessage)
			return
		}
		// The exit never latches; it stays interactable until won.
		s.finishInteraction(target.ID, OutcomeLocked, rec.RepeatMessage, s.params.ExitLockedCost)
		return
	}

	if rec.Examined {
		msg := rec.RepeatMessage
		if msg == "" {
			msg = msgRepeatGeneric
		}
		s.finishInteraction(target.ID, OutcomeRepeat, msg, s.params.RepeatCost)
		return
	}

	// First examination of this object.
	rec.Examined = true

	if rec.HasKey {
		s.keysFound++
		target.Feedback = world.FeedbackConsumed
		s.emit(events.EventTypeKeyFound, target.ID, InteractionPayload{
			ObjectID:  target.ID,
			Outcome:   OutcomeReward,
			KeysFound: s.keysFound,
		})
		s.emitFeedback(target)
		s.logger.Event("KEY_FOUND", s.sessionID, fmt.Sprintf("Object:%s | Keys:%d/%d", target.ID, s.keysFound, s.totalKeys))
	}

	if rec.ScareTrigger && !s.jumpscarePlayed {
		s.jumpscarePlayed = true
		target.Visible = false
		target.Feedback = world.FeedbackHidden
		s.mapper.PlayScare()
		s.emit(events.EventTypeScareTriggered, target.ID, InteractionPayload{
			ObjectID: target.ID,
			Outcome:  OutcomeScare,
			Cost:     s.params.ScarePenalty,
		})
		s.emitFeedback(target)
		s.logger.Event("SCARE", s.sessionID, "Object:"+target.ID)
		s.finishInteraction(target.ID, OutcomeScare, rec.RewardMessage, s.params.ScarePenalty)
		return
	}

	s.finishInteraction(target.ID, OutcomeReward, rec.RewardMessage, s.params.InteractCost)
}

// finishInteraction applies the presence cost, sets the transient message
// and writes the audit events shared by every outcome.
func (s *Session) finishInteraction(objectID, outcome, message string, cost float64) {
	s.message = transientMessage{Text: message, ExpiresAtTick: s.tick + s.params.MessageTicks}

	interactionID := s.emit(events.EventTypeInteraction, objectID, InteractionPayload{
		ObjectID:  objectID,
		Outcome:   outcome,
		Message:   message,
		Cost:      cost,
		KeysFound: s.keysFound,
	})

	if cost != 0 {
		previous := s.presence
		s.presence = rules.ApplyPresenceCost(s.presence, cost, s.params.Presence)
		if s.presence >= s.params.Presence.Max {
			s.atCapacity = true
		}
		s.emit(events.EventTypePresenceCost, objectID, PresenceChangePayload{
			Previous:     previous,
			New:          s.presence,
			Delta:        s.presence - previous,
			Cause:        outcome,
			CauseEventID: interactionID,
		})
		// Interaction outcomes never end the session directly; the loss
		// latch resolves at the end of the next tick, after any win that
		// landed first.
	}
}

func (s *Session) win(message string) {
	s.state = StateWon
	s.message = transientMessage{Text: message, ExpiresAtTick: s.tick + s.params.MessageTicks*4}
	s.mapper.SessionEnded(s.params.RampDown)
	metrics.Get().RecordSessionEnd(true)

	s.emit(events.EventTypeSessionWon, world.ExitDoorID, SessionEndPayload{
		Outcome:       OutcomeWin,
		KeysFound:     s.keysFound,
		Presence:      s.presence,
		DurationTicks: s.tick,
	})
	s.logger.Event("SESSION_WON", s.sessionID, fmt.Sprintf("Ticks:%d", s.tick))
}

func (s *Session) lose() {
	s.state = StateLost
	s.message = transientMessage{Text: msgLost, ExpiresAtTick: s.tick + s.params.MessageTicks*4}
	s.mapper.SessionEnded(s.params.RampDown)
	metrics.Get().RecordSessionEnd(false)

	s.emit(events.EventTypeSessionLost, "", SessionEndPayload{
		Outcome:       "LOSS",
		KeysFound:     s.keysFound,
		Presence:      s.presence,
		DurationTicks: s.tick,
	})
	s.logger.Event("SESSION_LOST", s.sessionID, fmt.Sprintf("Keys:%d/%d | Ticks:%d", s.keysFound, s.totalKeys, s.tick))
}

// SetMuted flips the audio gate. Allowed in every state so a player can
// silence the ramp-down after losing.
func (s *Session) SetMuted(muted bool) {
	if s.mapper.Muted() == muted {
		return
	}
	s.mapper.SetMuted(muted)
	s.emit(events.EventTypeMuteToggled, "", map[string]bool{"muted": muted})
}

func (s *Session) emitFeedback(obj *world.Object) {
	s.emit(events.EventTypeVisualFeedback, obj.ID, VisualFeedbackPayload{
		ObjectID: obj.ID,
		Feedback: obj.Feedback,
		Visible:  obj.Visible,
	})
}

// emit appends an audit event and returns its ID so follow-up events can
// link to their cause.
func (s *Session) emit(t events.EventType, objectID string, payload interface{}) string {
	id := events.GenerateEventID()
	s.eventLog.Append(events.GameEvent{
		ID:        id,
		Timestamp: time.Now(),
		Type:      t,
		SessionID: s.sessionID,
		ObjectID:  objectID,
		Payload:   payload,
		Tick:      s.tick,
	})
	return id
}

// Snapshot builds the read-only state frame for this tick.
func (s *Session) Snapshot() Snapshot {
	objs := make([]ObjectSnapshot, 0, len(s.world.Objects))
	for _, obj := range s.world.Objects {
		objs = append(objs, ObjectSnapshot{
			ID:       obj.ID,
			Kind:     obj.Kind,
			Position: obj.Position,
			Box:      obj.Box,
			Visible:  obj.Visible,
			Feedback: obj.Feedback,
		})
	}
	return Snapshot{
		SessionID:   s.sessionID,
		State:       s.state,
		Tick:        s.tick,
		Pose:        s.pose,
		Presence:    s.presence,
		PresenceMax: s.params.Presence.Max,
		KeysFound:   s.keysFound,
		TotalKeys:   s.totalKeys,
		HoverID:     s.hoverID,
		Message:     s.message.Text,
		Muted:       s.mapper.Muted(),
		Objects:     objs,
	}
}

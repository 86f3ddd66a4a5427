package nakama

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"manygolf/internal/app"
	"manygolf/internal/auth"
	"manygolf/internal/config"
	"manygolf/internal/levelgen"
	"manygolf/internal/ports"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Session *app.Session          // game session driven from MatchLoop
	Out     *dispatcherBroadcaster // presences and the bound dispatcher
	Codec   protocol.Codec
	Timing  config.Timing
	Label   string // last label pushed to Nakama
}

// gameError is sent privately when a client request is rejected.
type gameError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	timing := config.DefaultTiming()
	codecName := ""
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		timing = timing.WithEnv(env)
		codecName = env["manygolf_codec"]
	}
	if err := timing.Validate(); err != nil {
		logger.Warn("MatchInit: Ignoring timing overrides: %v", err)
		timing = config.DefaultTiming()
	}
	codec, err := protocol.NewCodec(codecName)
	if err != nil {
		logger.Warn("MatchInit: %v, falling back to json", err)
		codec = protocol.JSONCodec{}
	}

	var results ports.ResultsPort
	if nk != nil {
		results = NewNakamaResultsAdapter(nk)
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	out := newDispatcherBroadcaster(codec)

	state := &MatchState{
		Session: app.NewSession(app.SessionConfig{
			ID:        matchID,
			Timing:    timing,
			Broadcast: out,
			Results:   results,
			Levels:    levelgen.New(time.Now().UnixNano()),
			Logger:    newZapLogger(logger),
		}),
		Out:    out,
		Codec:  codec,
		Timing: timing,
	}

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.Label = label

	return state, timing.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if _, joined := matchState.Out.presences[presence.GetUserId()]; joined {
		return state, false, "Already joined"
	}
	// Idle-kicked spectators keep their presence and still take a slot.
	if len(matchState.Out.presences) >= MaxPlayers {
		return state, false, "Course full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Out.bind(dispatcher)

	for _, p := range presences {
		matchState.Out.presences[p.GetUserId()] = p
		if err := matchState.Session.Join(p.GetUserId(), auth.CleanName(p.GetUsername())); err != nil {
			logger.Warn("MatchJoin: User %s could not join: %v", p.GetUserId(), err)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	matchState.Out.bind(dispatcher)

	for _, p := range presences {
		delete(matchState.Out.presences, p.GetUserId())
		// Idle-kicked players stay connected as spectators and are no longer in the game.
		if err := matchState.Session.Leave(p.GetUserId()); err != nil && !errors.Is(err, store.ErrUnknownPlayer) {
			logger.Warn("MatchLeave: User %s: %v", p.GetUserId(), err)
		}
	}

	if len(matchState.Out.presences) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Out.bind(dispatcher)

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpSwing:
			mh.handleSwing(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	matchState.Session.Tick(ctx)
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleSwing(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request protocol.SwingRequest
	if err := state.Codec.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleSwing: Invalid swing from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid swing payload")
		return
	}

	if err := state.Session.Swing(senderID, vecFromWire(request.Vec)); err != nil {
		logger.Debug("handleSwing: User %s swing rejected: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 409, err.Error())
	}
}

// sendError sends a gameError to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := state.Codec.Marshal(gameError{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal gameError: %v", err)
		return
	}

	presence, ok := state.Out.presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Warn("Cannot send error to %s: %v", userID, err)
	}
}

// buildLabel describes the match for MatchList queries.
func buildLabel(state *MatchState) (string, error) {
	snapshot := state.Session.State()
	players := snapshot.Players.Len()

	label, err := structpb.NewStruct(map[string]interface{}{
		"game":    "manygolf",
		"open":    len(state.Out.presences) < MaxPlayers,
		"players": players,
		"phase":   string(snapshot.Phase),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.Label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.Label = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

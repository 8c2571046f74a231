package service

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-labyrinth/codec"
	"github.com/beka-birhanu/vinom-labyrinth/protocol"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"github.com/google/uuid"
)

// Session manager errors.
var (
	ErrMissingGame   = errors.New("session manager needs a game")
	ErrMissingLogger = errors.New("session manager needs a logger")
)

// SessionManager accepts player connections and runs one goroutine per connection.
type SessionManager struct {
	game      i.Game
	logger    general_i.Logger
	sessions  map[uuid.UUID]*protocol.Conn
	listeners []net.Listener
	stopped   bool
	wg        sync.WaitGroup
	sync.RWMutex
}

type Config struct {
	Game   i.Game
	Logger general_i.Logger
}

func NewSessionManager(c *Config) (*SessionManager, error) {
	if c.Game == nil {
		return nil, ErrMissingGame
	}
	if c.Logger == nil {
		return nil, ErrMissingLogger
	}
	return &SessionManager{
		game:     c.Game,
		logger:   c.Logger,
		sessions: make(map[uuid.UUID]*protocol.Conn),
	}, nil
}

// Serve accepts connections until l is closed. It returns nil once StopAll closed it.
func (s *SessionManager) Serve(l net.Listener) error {
	s.Lock()
	if s.stopped {
		s.Unlock()
		_ = l.Close()
		return nil
	}
	s.listeners = append(s.listeners, l)
	s.Unlock()

	for {
		c, err := l.Accept()
		if err != nil {
			s.RLock()
			stopped := s.stopped
			s.RUnlock()
			if stopped || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return protocol.Wrap(protocol.Transport, "accept", err)
		}

		conn := protocol.NewConn(c)
		id, ok := s.saveSession(conn)
		if !ok {
			_ = conn.Close()
			continue
		}
		s.logger.Info(fmt.Sprintf("accepted connection %s from %s", id, conn.RemoteAddr()))

		go func() {
			defer s.wg.Done()
			s.handle(id, conn)
		}()
	}
}

func (s *SessionManager) saveSession(conn *protocol.Conn) (uuid.UUID, bool) {
	s.Lock()
	defer s.Unlock()
	if s.stopped {
		return uuid.Nil, false
	}

	id := uuid.New()
	for {
		if _, ok := s.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}
	s.sessions[id] = conn
	s.wg.Add(1)
	return id, true
}

func (s *SessionManager) clean(id uuid.UUID) {
	s.Lock()
	defer s.Unlock()
	delete(s.sessions, id)
}

// ActiveSessions returns the number of open connections.
func (s *SessionManager) ActiveSessions() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.sessions)
}

// StopAll closes every listener and connection, then waits for the sessions to end.
func (s *SessionManager) StopAll() {
	s.Lock()
	s.stopped = true
	for _, l := range s.listeners {
		_ = l.Close()
	}
	for _, conn := range s.sessions {
		_ = conn.Close()
	}
	s.Unlock()

	s.wg.Wait()
}

// session is the per-connection state; only its goroutine touches it.
type session struct {
	id       uuid.UUID
	conn     *protocol.Conn
	playerID uuid.UUID
	label    string
}

func (s *SessionManager) handle(id uuid.UUID, conn *protocol.Conn) {
	ss := &session{id: id, conn: conn, label: id.String()}
	defer func() {
		if ss.playerID != uuid.Nil {
			s.game.RemovePlayer(ss.playerID)
		}
		_ = conn.Close()
		s.clean(id)
	}()

	for {
		msg, err := conn.ReceiveClient()
		if err != nil {
			s.logSessionEnd(ss, err)
			return
		}
		if err := s.dispatch(ss, msg); err != nil {
			s.logSessionEnd(ss, err)
			return
		}
	}
}

func (s *SessionManager) logSessionEnd(ss *session, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		s.logger.Info(fmt.Sprintf("session %s closed", ss.label))
		return
	}
	s.logger.Error(fmt.Sprintf("session %s: %v", ss.label, err))
}

func (s *SessionManager) dispatch(ss *session, msg protocol.ClientMessage) error {
	switch {
	case msg.RegisterTeam != nil:
		return s.registerTeam(ss, msg.RegisterTeam)
	case msg.SubscribePlayer != nil:
		return s.subscribePlayer(ss, msg.SubscribePlayer)
	case msg.Action.MoveTo != nil:
		return s.move(ss, *msg.Action.MoveTo)
	default:
		return s.solveChallenge(ss, msg.Action.SolveChallenge.Answer)
	}
}

func (s *SessionManager) registerTeam(ss *session, r *protocol.RegisterTeam) error {
	reg, err := s.game.RegisterTeam(r.Name)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("session %s: register team %q: %v", ss.label, r.Name, err))
		return ss.conn.Send(protocol.NewRegisterTeamError(resultMessage(err)))
	}
	return ss.conn.Send(protocol.NewRegisterTeamOk(reg.ExpectedPlayers, reg.Token))
}

func (s *SessionManager) subscribePlayer(ss *session, r *protocol.SubscribePlayer) error {
	if ss.playerID != uuid.Nil {
		return protocol.Wrap(protocol.Protocol, "subscribe player", protocol.ErrAlreadySubscribed)
	}

	playerID, frame, err := s.game.SubscribePlayer(r.Name, r.RegistrationToken)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("session %s: subscribe player %q: %v", ss.label, r.Name, err))
		return ss.conn.Send(protocol.NewSubscribePlayerError(resultMessage(err)))
	}
	ss.playerID = playerID
	ss.label = fmt.Sprintf("%s (%s)", ss.id, r.Name)

	if err := ss.conn.Send(protocol.NewSubscribePlayerOk()); err != nil {
		return err
	}
	return s.sendRadar(ss, frame)
}

func (s *SessionManager) move(ss *session, dir protocol.RelativeDirection) error {
	if ss.playerID == uuid.Nil {
		return protocol.Wrap(protocol.Protocol, "move", protocol.ErrNotSubscribed)
	}

	out, err := s.game.Move(ss.playerID, dir)
	if err != nil {
		return protocol.Wrap(protocol.Game, "move", err)
	}

	if out.Blocked {
		if err := ss.conn.Send(protocol.NewCannotPassThroughWall()); err != nil {
			return err
		}
	}
	if out.Compass != nil {
		if err := ss.conn.Send(protocol.NewCompassHint(*out.Compass)); err != nil {
			return err
		}
	}
	if out.Secret != nil {
		if err := ss.conn.Send(protocol.NewSecretHint(*out.Secret)); err != nil {
			return err
		}
	}
	if out.Challenge != nil {
		return ss.conn.Send(protocol.NewChallenge(*out.Challenge))
	}
	if out.FoundExit {
		s.logger.Info(fmt.Sprintf("session %s found the exit", ss.label))
		return ss.conn.Send(protocol.NewFoundExit())
	}
	return s.sendRadar(ss, out.Frame)
}

func (s *SessionManager) solveChallenge(ss *session, answer string) error {
	if ss.playerID == uuid.Nil {
		return protocol.Wrap(protocol.Protocol, "solve challenge", protocol.ErrNotSubscribed)
	}

	out, err := s.game.SolveChallenge(ss.playerID, answer)
	if errors.Is(err, protocol.ErrNoPendingChallenge) {
		return protocol.Wrap(protocol.Protocol, "solve challenge", err)
	}
	if err != nil {
		return protocol.Wrap(protocol.Game, "solve challenge", err)
	}

	if !out.Correct {
		s.logger.Warning(fmt.Sprintf("session %s failed a challenge", ss.label))
	}
	if out.FoundExit {
		return ss.conn.Send(protocol.NewFoundExit())
	}
	return s.sendRadar(ss, out.Frame)
}

// sendRadar encodes outside the game lock.
func (s *SessionManager) sendRadar(ss *session, frame codec.RadarFrame) error {
	return ss.conn.Send(protocol.NewRadarView(codec.EncodeRadar(frame)))
}

func resultMessage(err error) string {
	switch {
	case errors.Is(err, ErrTeamAlreadyRegistered), errors.Is(err, ErrPlayerAlreadyRegistered):
		return "AlreadyRegistered"
	case errors.Is(err, ErrInvalidTeamName), errors.Is(err, ErrInvalidPlayerName):
		return "InvalidName"
	case errors.Is(err, ErrInvalidToken):
		return "InvalidRegistrationToken"
	case errors.Is(err, ErrTooManyPlayers):
		return "TooManyPlayers"
	default:
		return err.Error()
	}
}

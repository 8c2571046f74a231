package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RelativeDirection is a move relative to the direction the player faces.
type RelativeDirection string

const (
	Front RelativeDirection = "Front"
	Back  RelativeDirection = "Back"
	Left  RelativeDirection = "Left"
	Right RelativeDirection = "Right"
)

// Valid reports whether d is one of the four relative directions.
func (d RelativeDirection) Valid() bool {
	switch d {
	case Front, Back, Left, Right:
		return true
	}
	return false
}

// Quarters is the clockwise quarter-turn count applied before moving.
func (d RelativeDirection) Quarters() int {
	switch d {
	case Right:
		return 1
	case Back:
		return 2
	case Left:
		return 3
	default:
		return 0
	}
}

type RegisterTeam struct {
	Name string `json:"name"`
}

type SubscribePlayer struct {
	Name              string `json:"name"`
	RegistrationToken string `json:"registration_token"`
}

type SolveChallenge struct {
	Answer string `json:"answer"`
}

// Action is either a move or a challenge answer.
type Action struct {
	MoveTo         *RelativeDirection `json:"MoveTo,omitempty"`
	SolveChallenge *SolveChallenge    `json:"SolveChallenge,omitempty"`
}

// Validate checks that exactly one variant is set.
func (a *Action) Validate() error {
	switch {
	case a.MoveTo != nil && a.SolveChallenge != nil:
		return ErrAmbiguousMessage
	case a.MoveTo != nil:
		if !a.MoveTo.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidDirection, string(*a.MoveTo))
		}
		return nil
	case a.SolveChallenge != nil:
		return nil
	default:
		return ErrUnknownMessage
	}
}

// ClientMessage is the envelope for everything a client sends.
type ClientMessage struct {
	RegisterTeam    *RegisterTeam    `json:"RegisterTeam,omitempty"`
	SubscribePlayer *SubscribePlayer `json:"SubscribePlayer,omitempty"`
	Action          *Action          `json:"Action,omitempty"`
}

// Validate checks that exactly one variant is set, recursively.
func (m *ClientMessage) Validate() error {
	set := 0
	for _, ok := range []bool{m.RegisterTeam != nil, m.SubscribePlayer != nil, m.Action != nil} {
		if ok {
			set++
		}
	}
	switch {
	case set == 0:
		return ErrUnknownMessage
	case set > 1:
		return ErrAmbiguousMessage
	case m.Action != nil:
		return m.Action.Validate()
	}
	return nil
}

// Kind names the variant carried by m.
func (m *ClientMessage) Kind() string {
	switch {
	case m.RegisterTeam != nil:
		return "RegisterTeam"
	case m.SubscribePlayer != nil:
		return "SubscribePlayer"
	case m.Action != nil && m.Action.MoveTo != nil:
		return "MoveTo"
	case m.Action != nil:
		return "SolveChallenge"
	default:
		return "Unknown"
	}
}

func NewRegisterTeam(name string) ClientMessage {
	return ClientMessage{RegisterTeam: &RegisterTeam{Name: name}}
}

func NewSubscribePlayer(name, token string) ClientMessage {
	return ClientMessage{SubscribePlayer: &SubscribePlayer{Name: name, RegistrationToken: token}}
}

func NewMoveTo(d RelativeDirection) ClientMessage {
	return ClientMessage{Action: &Action{MoveTo: &d}}
}

func NewSolveChallenge(answer string) ClientMessage {
	return ClientMessage{Action: &Action{SolveChallenge: &SolveChallenge{Answer: answer}}}
}

type RegisterTeamOk struct {
	ExpectedPlayers   int    `json:"expected_players"`
	RegistrationToken string `json:"registration_token"`
}

// RegisterTeamResult is Ok or Error.
type RegisterTeamResult struct {
	Ok    *RegisterTeamOk `json:"Ok,omitempty"`
	Error *string         `json:"Error,omitempty"`
}

// SubscribePlayerResult encodes as the bare string "Ok" when Error is nil.
type SubscribePlayerResult struct {
	Error *string
}

func (r SubscribePlayerResult) MarshalJSON() ([]byte, error) {
	if r.Error == nil {
		return []byte(`"Ok"`), nil
	}
	return json.Marshal(struct {
		Error string `json:"Error"`
	}{Error: *r.Error})
}

func (r *SubscribePlayerResult) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Ok" {
			return fmt.Errorf("%w: SubscribePlayerResult %q", ErrUnknownMessage, s)
		}
		r.Error = nil
		return nil
	}

	var obj struct {
		Error *string `json:"Error"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Error == nil {
		return fmt.Errorf("%w: SubscribePlayerResult", ErrUnknownMessage)
	}
	r.Error = obj.Error
	return nil
}

type RelativeCompass struct {
	Angle float64 `json:"angle"`
}

// Hint carries either a compass angle towards the exit or a team secret.
type Hint struct {
	RelativeCompass *RelativeCompass `json:"RelativeCompass,omitempty"`
	Secret          *uint64          `json:"Secret,omitempty"`
}

type Challenge struct {
	SecretSumModulo *uint64 `json:"SecretSumModulo,omitempty"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	RegisterTeamResult    *RegisterTeamResult    `json:"RegisterTeamResult,omitempty"`
	SubscribePlayerResult *SubscribePlayerResult `json:"SubscribePlayerResult,omitempty"`
	RadarView             *string                `json:"RadarView,omitempty"`
	Hint                  *Hint                  `json:"Hint,omitempty"`
	Challenge             *Challenge             `json:"Challenge,omitempty"`
	FoundExit             bool                   `json:"FoundExit,omitempty"`
	CannotPassThroughWall bool                   `json:"CannotPassThroughWall,omitempty"`
}

// UnmarshalJSON also accepts the unit variants as bare strings.
func (m *ServerMessage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = ServerMessage{}
		switch s {
		case "FoundExit":
			m.FoundExit = true
		case "CannotPassThroughWall":
			m.CannotPassThroughWall = true
		default:
			return fmt.Errorf("%w: %q", ErrUnknownMessage, s)
		}
		return nil
	}

	type plain ServerMessage
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = ServerMessage(p)
	return nil
}

// Validate checks that exactly one variant is set.
func (m *ServerMessage) Validate() error {
	set := 0
	for _, ok := range []bool{
		m.RegisterTeamResult != nil, m.SubscribePlayerResult != nil, m.RadarView != nil,
		m.Hint != nil, m.Challenge != nil, m.FoundExit, m.CannotPassThroughWall,
	} {
		if ok {
			set++
		}
	}
	switch {
	case set == 0:
		return ErrUnknownMessage
	case set > 1:
		return ErrAmbiguousMessage
	case m.RegisterTeamResult != nil && (m.RegisterTeamResult.Ok == nil) == (m.RegisterTeamResult.Error == nil):
		return fmt.Errorf("%w: RegisterTeamResult", ErrUnknownMessage)
	case m.Hint != nil && (m.Hint.RelativeCompass == nil) == (m.Hint.Secret == nil):
		return fmt.Errorf("%w: Hint", ErrUnknownMessage)
	case m.Challenge != nil && m.Challenge.SecretSumModulo == nil:
		return fmt.Errorf("%w: Challenge", ErrUnknownMessage)
	}
	return nil
}

// Kind names the variant carried by m.
func (m *ServerMessage) Kind() string {
	switch {
	case m.RegisterTeamResult != nil:
		return "RegisterTeamResult"
	case m.SubscribePlayerResult != nil:
		return "SubscribePlayerResult"
	case m.RadarView != nil:
		return "RadarView"
	case m.Hint != nil:
		return "Hint"
	case m.Challenge != nil:
		return "Challenge"
	case m.FoundExit:
		return "FoundExit"
	case m.CannotPassThroughWall:
		return "CannotPassThroughWall"
	default:
		return "Unknown"
	}
}

func NewRegisterTeamOk(expectedPlayers int, token string) ServerMessage {
	return ServerMessage{RegisterTeamResult: &RegisterTeamResult{
		Ok: &RegisterTeamOk{ExpectedPlayers: expectedPlayers, RegistrationToken: token},
	}}
}

func NewRegisterTeamError(msg string) ServerMessage {
	return ServerMessage{RegisterTeamResult: &RegisterTeamResult{Error: &msg}}
}

func NewSubscribePlayerOk() ServerMessage {
	return ServerMessage{SubscribePlayerResult: &SubscribePlayerResult{}}
}

func NewSubscribePlayerError(msg string) ServerMessage {
	return ServerMessage{SubscribePlayerResult: &SubscribePlayerResult{Error: &msg}}
}

func NewRadarView(encoded string) ServerMessage {
	return ServerMessage{RadarView: &encoded}
}

func NewCompassHint(angle float64) ServerMessage {
	return ServerMessage{Hint: &Hint{RelativeCompass: &RelativeCompass{Angle: angle}}}
}

func NewSecretHint(secret uint64) ServerMessage {
	return ServerMessage{Hint: &Hint{Secret: &secret}}
}

func NewChallenge(modulo uint64) ServerMessage {
	return ServerMessage{Challenge: &Challenge{SecretSumModulo: &modulo}}
}

func NewFoundExit() ServerMessage {
	return ServerMessage{FoundExit: true}
}

func NewCannotPassThroughWall() ServerMessage {
	return ServerMessage{CannotPassThroughWall: true}
}

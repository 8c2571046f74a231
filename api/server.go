package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-labyrinth/maze"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
)

var ErrMissingGameState = errors.New("observer needs a game state")

type Server struct {
	game i.GameState

	UnimplementedObserverServer
}

func RegisterNewObserver(gsr grpc.ServiceRegistrar, gs i.GameState) error {
	if gs == nil {
		return ErrMissingGameState
	}
	server := &Server{
		game: gs,
	}

	RegisterObserverServer(gsr, server)
	return nil
}

func (s *Server) Snapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snap := s.game.Snapshot()

	teams := make([]any, 0, len(snap.Teams))
	for _, t := range snap.Teams {
		players := make([]any, 0, len(t.Players))
		for _, p := range t.Players {
			players = append(players, p)
		}
		teams = append(teams, map[string]any{
			"name":             t.Name,
			"expected_players": t.ExpectedPlayers,
			"players":          players,
		})
	}

	players := make([]any, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, map[string]any{
			"id":        p.ID.String(),
			"name":      p.Name,
			"team":      p.Team,
			"position":  position(p.Position),
			"facing":    p.Facing.String(),
			"moves":     p.Moves,
			"exited":    p.Exited,
			"challenge": p.Challenge,
		})
	}

	out, err := structpb.NewStruct(map[string]any{
		"width":   snap.Width,
		"height":  snap.Height,
		"start":   position(snap.Start),
		"exit":    position(snap.Exit),
		"map":     snap.Map,
		"teams":   teams,
		"players": players,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("building snapshot: %s", err))
	}
	return out, nil
}

func position(p maze.Position) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}

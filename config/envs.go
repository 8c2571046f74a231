package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Configuration errors.
var (
	ErrInvalidMazeSize = errors.New("maze size must be W,H with positive integers")
	ErrInvalidAddress  = errors.New("address must be host:port")
	ErrUsage           = errors.New("usage error")
)

// Config holds the application's configuration values.
type Config struct {
	HostAddress string // Address the game server binds to
	Port        int    // Port for the game server
	AdminPort   int    // Port for the observer gRPC server, 0 disables it

	MazeWidth  int
	MazeHeight int
	MazeSeed   uint64 // 0 picks a random seed

	ExpectedPlayers   int // Players per team
	HintInterval      int // Moves between secret hints
	ChallengeInterval int // Moves between challenges, negative disables them
	ChallengePenalty  int // Moves added on a wrong challenge answer

	MoveIntervalMS int    // Client pause between moves (in milliseconds)
	TeamName       string // Client team name
	Navigator      string // Client strategy: "frontier" or "wall"
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file when one exists.
func initConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[APP] [INFO] .env file could not be loaded: %v", err)
	}

	w, h, err := ParseMazeSize(getEnv("MAZE", "5,5"))
	if err != nil {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable MAZE: %v", ColorGreen, ColorReset, ColorRed, ColorReset, err)
	}

	return Config{
		HostAddress: getEnv("HOST_ADDRESS", "127.0.0.1"),
		Port:        getEnvAsInt("PORT", 8778),
		AdminPort:   getEnvAsInt("ADMIN_PORT", 8779),

		MazeWidth:  w,
		MazeHeight: h,
		MazeSeed:   getEnvAsUint64("MAZE_SEED", 0),

		ExpectedPlayers:   getEnvAsInt("EXPECTED_PLAYERS", 3),
		HintInterval:      getEnvAsInt("HINT_INTERVAL", 8),
		ChallengeInterval: getEnvAsInt("CHALLENGE_INTERVAL", 16),
		ChallengePenalty:  getEnvAsInt("CHALLENGE_PENALTY", 5),

		MoveIntervalMS: getEnvAsInt("MOVE_INTERVAL_MS", 20),
		TeamName:       getEnv("TEAM_NAME", "curious_team"),
		Navigator:      getEnv("NAVIGATOR", "frontier"),
	}
}

// getEnv retrieves the value of an environment variable or returns fallback if not set.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or logs a fatal error if it cannot be parsed.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsUint64 retrieves an environment variable as an unsigned integer or logs a fatal error if it cannot be parsed.
func getEnvAsUint64(key string, fallback uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := parseUint64(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an unsigned integer: %v", key, err)
	}
	return value
}

func parseUint64(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
}

// ParseMazeSize parses "W,H".
func ParseMazeSize(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMazeSize, s)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMazeSize, s)
	}
	return w, h, nil
}

// ParseServerFlags applies the server command line on top of base.
func ParseServerFlags(args []string, base Config) (Config, error) {
	c := base
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&c.Port, "port", base.Port, "port to listen on")
	fs.StringVar(&c.HostAddress, "host-address", base.HostAddress, "address to bind")
	fs.IntVar(&c.AdminPort, "admin-port", base.AdminPort, "observer gRPC port, 0 disables it")
	fs.Uint64Var(&c.MazeSeed, "seed", base.MazeSeed, "maze seed, 0 picks a random one")
	mazeSize := fs.String("maze", fmt.Sprintf("%d,%d", base.MazeWidth, base.MazeHeight), "maze size as W,H")

	if err := fs.Parse(args); err != nil {
		return base, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return base, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	w, h, err := ParseMazeSize(*mazeSize)
	if err != nil {
		return base, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	c.MazeWidth, c.MazeHeight = w, h
	if c.Port < 0 || c.Port > 65535 || c.AdminPort < 0 || c.AdminPort > 65535 {
		return base, fmt.Errorf("%w: port out of range", ErrUsage)
	}
	return c, nil
}

// ParseClientArgs parses "[--team NAME] [--navigator frontier|wall] [--move-interval MS] <host:port>".
func ParseClientArgs(args []string, base Config) (string, Config, error) {
	c := base
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.TeamName, "team", base.TeamName, "team name")
	fs.StringVar(&c.Navigator, "navigator", base.Navigator, "frontier or wall")
	fs.IntVar(&c.MoveIntervalMS, "move-interval", base.MoveIntervalMS, "pause between moves in milliseconds")

	if err := fs.Parse(args); err != nil {
		return "", base, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return "", base, fmt.Errorf("%w: expected exactly one <host:port> argument", ErrUsage)
	}
	addr := fs.Arg(0)
	if err := ValidateAddress(addr); err != nil {
		return "", base, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if c.Navigator != "frontier" && c.Navigator != "wall" {
		return "", base, fmt.Errorf("%w: unknown navigator %q", ErrUsage, c.Navigator)
	}
	return addr, c, nil
}

// ValidateAddress checks that addr is host:port with a numeric port.
func ValidateAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return nil
}

// Package settings persists the first-run state and last window position.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sandeepkv93/tasks/internal/fileio"
	"github.com/sandeepkv93/tasks/internal/paths"
)

// InitState records whether any list id has ever been allocated.
type InitState int

const (
	// Fresh means no id has been allocated on this installation yet.
	Fresh InitState = iota
	// Initialized is latched on the first allocation and never reset by
	// normal operation.
	Initialized
)

func (s InitState) String() string {
	if s == Initialized {
		return "initialized"
	}
	return "fresh"
}

const (
	DefaultX = 100
	DefaultY = 100
)

// Position is the last known window position, supplied by the caller.
type Position struct {
	X int
	Y int
}

// Settings is the single record stored in settings.json.
type Settings struct {
	State    InitState
	Position Position
}

// Default returns the record seeded on first access.
func Default() Settings {
	return Settings{State: Fresh, Position: Position{X: DefaultX, Y: DefaultY}}
}

// record is the on-disk shape. The latch stays a boolean named run.
type record struct {
	Run bool `json:"run"`
	X   int  `json:"x"`
	Y   int  `json:"y"`
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{Run: s.State == Initialized, X: s.Position.X, Y: s.Position.Y})
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	s.State = Fresh
	if rec.Run {
		s.State = Initialized
	}
	s.Position = Position{X: rec.X, Y: rec.Y}
	return nil
}

const lockName = "settings"

// Store reads and writes settings.json.
type Store struct {
	resolver *paths.Resolver
	locker   *fileio.Locker
}

func NewStore(resolver *paths.Resolver, locker *fileio.Locker) *Store {
	return &Store{resolver: resolver, locker: locker}
}

// Read returns the stored settings. A missing file is seeded with Default
// before reading. Malformed content yields fileio.ErrParse and unreadable
// files fileio.ErrIO; neither is replaced with defaults.
func (s *Store) Read(ctx context.Context) (Settings, error) {
	path := s.resolver.SettingsPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		def := Default()
		if err := s.Write(ctx, def.State, def.Position); err != nil {
			return Settings{}, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: read settings: %w", fileio.ErrIO, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return Settings{}, fmt.Errorf("%w: settings file is empty", fileio.ErrParse)
	}
	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}, fmt.Errorf("%w: settings: %w", fileio.ErrParse, err)
	}
	return out, nil
}

// Write replaces the stored record with state and pos. The JSON payload is
// fully built before the file is touched.
func (s *Store) Write(ctx context.Context, state InitState, pos Position) error {
	payload, err := json.MarshalIndent(Settings{State: state, Position: pos}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	release, err := s.locker.Acquire(ctx, lockName)
	if err != nil {
		return err
	}
	defer release()

	path := s.resolver.SettingsPath()
	if err := paths.EnsureExists(path); err != nil {
		return err
	}
	return fileio.WriteAtomic(path, s.resolver.StagingDir(), payload)
}

// Reset overwrites whatever is on disk, including a corrupted file, with
// the defaults.
func (s *Store) Reset(ctx context.Context) error {
	def := Default()
	return s.Write(ctx, def.State, def.Position)
}

package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

const (
	roomsPathKey              = "rooms.path"
	roomsFile                 = "rooms.toml"
	currentRoomsSchemaVersion = 1
)

type RoomRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.RoomRepository = (*RoomRepository)(nil)

func NewRoomRepository(cfg *viper.Viper) (*RoomRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	path := cfg.GetString(roomsPathKey)
	if path == "" {
		path = filepath.Join(homeDir, accountsConfigDir, roomsFile)
	}

	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &RoomRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *RoomRepository) Save(ctx context.Context, room domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := roomSchema{ID: int64(room.ID), Label: room.Label}
	updated := false
	for i := range file.Rooms {
		if file.Rooms[i].ID == encoded.ID {
			file.Rooms[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Rooms = append(file.Rooms, encoded)
	}

	return writeTOMLFile(r.path, file)
}

func (r *RoomRepository) Delete(ctx context.Context, id domain.RoomID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	for i := range file.Rooms {
		if file.Rooms[i].ID == int64(id) {
			file.Rooms = append(file.Rooms[:i], file.Rooms[i+1:]...)
			return writeTOMLFile(r.path, file)
		}
	}

	return domain.ErrRoomNotFound
}

func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	rooms := make([]domain.Room, 0, len(file.Rooms))
	for _, entry := range file.Rooms {
		rooms = append(rooms, domain.Room{ID: domain.RoomID(entry.ID), Label: entry.Label})
	}

	return rooms, nil
}

func (r *RoomRepository) readSchema() (roomsFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return roomsFileSchema{}, nil
		}
		return roomsFileSchema{}, fmt.Errorf("read rooms file: %w", err)
	}

	var file roomsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return roomsFileSchema{}, fmt.Errorf("decode rooms file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return roomsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

type roomsFileSchema struct {
	Version int          `toml:"version"`
	Rooms   []roomSchema `toml:"rooms"`
}

func (s *roomsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentRoomsSchemaVersion
	}
}

func (s roomsFileSchema) validateVersion() error {
	if s.Version > currentRoomsSchemaVersion {
		return fmt.Errorf("unsupported rooms schema version %d (current %d)", s.Version, currentRoomsSchemaVersion)
	}

	return nil
}

type roomSchema struct {
	ID    int64  `toml:"id"`
	Label string `toml:"label,omitempty"`
}

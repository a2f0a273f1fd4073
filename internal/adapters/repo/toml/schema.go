package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID          string            `toml:"id"`
	Nickname    string            `toml:"nickname"`
	Active      bool              `toml:"active"`
	Tasks       tasksSchema       `toml:"tasks"`
	Credentials credentialsSchema `toml:"credentials"`
}

type tasksSchema struct {
	DoSign      bool `toml:"do_sign"`
	TreasureBox bool `toml:"treasure_box"`
	EventRooms  bool `toml:"event_rooms"`
}

type credentialsSchema struct {
	AccessTokenRef string `toml:"access_token_ref"`
	CookieRef      string `toml:"cookie_ref"`
}

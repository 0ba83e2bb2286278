package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"boss-challenge-bot/model"
)

type resourceRow struct {
	GuildID      string    `db:"guild_id"`
	ResourceType string    `db:"resource_type"`
	ResourceID   string    `db:"resource_id"`
	Metadata     string    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
}

// GetResource returns the binding of a logical resource or model.ErrNotFound.
func (s *Store) GetResource(guildID string, resourceType model.ResourceType) (*model.ResourceBinding, error) {
	var row resourceRow
	err := s.db.Get(&row, `SELECT guild_id, resource_type, resource_id, metadata, created_at
		FROM discord_resources WHERE guild_id = ? AND resource_type = ?`, guildID, resourceType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resource %s for guild %s: %w", resourceType, guildID, err)
	}
	return row.binding()
}

// ListResources returns every binding of a guild.
func (s *Store) ListResources(guildID string) ([]model.ResourceBinding, error) {
	var rows []resourceRow
	err := s.db.Select(&rows, `SELECT guild_id, resource_type, resource_id, metadata, created_at
		FROM discord_resources WHERE guild_id = ? ORDER BY resource_type`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources for guild %s: %w", guildID, err)
	}
	bindings := make([]model.ResourceBinding, 0, len(rows))
	for _, r := range rows {
		b, err := r.binding()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, *b)
	}
	return bindings, nil
}

// BoundGuilds lists guilds that have at least one leaderboard binding.
func (s *Store) BoundGuilds() ([]string, error) {
	var guilds []string
	err := s.db.Select(&guilds, `SELECT DISTINCT guild_id FROM discord_resources
		WHERE resource_type LIKE 'leaderboard_%' ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bound guilds: %w", err)
	}
	return guilds, nil
}

// StoreResource upserts a binding after validating its metadata.
func (s *Store) StoreResource(guildID string, resourceType model.ResourceType, resourceID string, meta model.ResourceMetadata) error {
	if err := meta.Validate(resourceType); err != nil {
		return err
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", resourceType, err)
	}
	_, err = s.db.Exec(`INSERT INTO discord_resources (guild_id, resource_type, resource_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (guild_id, resource_type) DO UPDATE SET
			resource_id = excluded.resource_id,
			metadata = excluded.metadata,
			created_at = excluded.created_at`,
		guildID, resourceType, resourceID, string(raw), s.timestamp())
	if err != nil {
		return fmt.Errorf("failed to store resource %s for guild %s: %w", resourceType, guildID, err)
	}
	return nil
}

// RemoveResource drops a binding; removing a missing binding is not an error.
func (s *Store) RemoveResource(guildID string, resourceType model.ResourceType) error {
	_, err := s.db.Exec("DELETE FROM discord_resources WHERE guild_id = ? AND resource_type = ?", guildID, resourceType)
	if err != nil {
		return fmt.Errorf("failed to remove resource %s for guild %s: %w", resourceType, guildID, err)
	}
	return nil
}

func (r resourceRow) binding() (*model.ResourceBinding, error) {
	var meta model.ResourceMetadata
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &meta); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", r.ResourceType, err)
		}
	}
	return &model.ResourceBinding{
		GuildID:      r.GuildID,
		ResourceType: model.ResourceType(r.ResourceType),
		ResourceID:   r.ResourceID,
		Metadata:     meta,
		CreatedAt:    r.CreatedAt,
	}, nil
}

// IsLocked reports whether submissions are paused in a guild.
func (s *Store) IsLocked(guildID string) (bool, error) {
	var locked bool
	err := s.db.Get(&locked, "SELECT locked FROM guild_settings WHERE guild_id = ?", guildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read lock state for guild %s: %w", guildID, err)
	}
	return locked, nil
}

func (s *Store) SetLocked(guildID string, locked bool) error {
	_, err := s.db.Exec(`INSERT INTO guild_settings (guild_id, locked) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET locked = excluded.locked`, guildID, locked)
	if err != nil {
		return fmt.Errorf("failed to set lock state for guild %s: %w", guildID, err)
	}
	return nil
}

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	petsdk "github.com/cyberFlowTech/zapry-pets-sdk-go"
)

// SQLiteSnapshotStore implements petsdk.SnapshotStore on a local SQLite
// database. Each entity table holds the JSON record keyed by its id, so the
// schema survives field additions without migrations.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

// NewSQLiteSnapshotStore opens (and if needed initializes) a SQLite-backed
// store at the given path. Use ":memory:" for tests.
func NewSQLiteSnapshotStore(path string) (*SQLiteSnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Snapshot writes are serialized per pet upstream; a single connection
	// avoids SQLITE_BUSY on concurrent profile writes.
	db.SetMaxOpenConns(1)
	s := &SQLiteSnapshotStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSnapshotStore) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS pets (
			pet_id TEXT PRIMARY KEY,
			record TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS beliefs (
			pet_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			record TEXT NOT NULL,
			PRIMARY KEY (pet_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			record TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSnapshotStore) loadRow(query string, out any, args ...any) (bool, error) {
	var raw string
	err := s.db.QueryRow(query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode record: %w", err)
	}
	return true, nil
}

func (s *SQLiteSnapshotStore) LoadPet(petID string) (*petsdk.Pet, error) {
	var pet petsdk.Pet
	ok, err := s.loadRow(`SELECT record FROM pets WHERE pet_id = ?`, &pet, petID)
	if err != nil || !ok {
		return nil, err
	}
	return &pet, nil
}

func (s *SQLiteSnapshotStore) SavePet(pet *petsdk.Pet) error {
	data, err := json.Marshal(pet)
	if err != nil {
		return fmt.Errorf("encode pet: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO pets (pet_id, record) VALUES (?, ?)
		 ON CONFLICT(pet_id) DO UPDATE SET record = excluded.record`,
		pet.ID, string(data))
	return err
}

func (s *SQLiteSnapshotStore) LoadBelief(petID, userID string) (*petsdk.BeliefState, error) {
	var belief petsdk.BeliefState
	ok, err := s.loadRow(`SELECT record FROM beliefs WHERE pet_id = ? AND user_id = ?`, &belief, petID, userID)
	if err != nil || !ok {
		return nil, err
	}
	return &belief, nil
}

func (s *SQLiteSnapshotStore) SaveBelief(belief *petsdk.BeliefState) error {
	data, err := json.Marshal(belief)
	if err != nil {
		return fmt.Errorf("encode belief: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO beliefs (pet_id, user_id, record) VALUES (?, ?, ?)
		 ON CONFLICT(pet_id, user_id) DO UPDATE SET record = excluded.record`,
		belief.PetID, belief.UserID, string(data))
	return err
}

func (s *SQLiteSnapshotStore) LoadProfile(userID string) (*petsdk.UserProfile, error) {
	var profile petsdk.UserProfile
	ok, err := s.loadRow(`SELECT record FROM profiles WHERE user_id = ?`, &profile, userID)
	if err != nil || !ok {
		return nil, err
	}
	return &profile, nil
}

func (s *SQLiteSnapshotStore) SaveProfile(profile *petsdk.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO profiles (user_id, record) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET record = excluded.record`,
		profile.UserID, string(data))
	return err
}

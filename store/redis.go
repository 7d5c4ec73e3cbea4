// Package store provides SnapshotStore adapters for external persistence
// engines (redis, sqlite). The core hands entities over as plain structured
// records after each atomic update and never reads back partial state.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	petsdk "github.com/cyberFlowTech/zapry-pets-sdk-go"
)

// RedisSnapshotStore implements petsdk.SnapshotStore on Redis. Records are
// stored as JSON under namespaced keys:
//
//	{prefix}:pet:{pet_id}
//	{prefix}:belief:{pet_id}:{user_id}
//	{prefix}:profile:{user_id}
type RedisSnapshotStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Prefix string        // key prefix, default "pets"
	TTL    time.Duration // per-record TTL, 0 = no expiry
}

// NewRedisSnapshotStore creates a SnapshotStore backed by Redis.
func NewRedisSnapshotStore(client redis.UniversalClient, config ...RedisConfig) *RedisSnapshotStore {
	cfg := RedisConfig{Prefix: "pets"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "pets"
	}
	return &RedisSnapshotStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisSnapshotStore) petKey(petID string) string {
	return fmt.Sprintf("%s:pet:%s", r.prefix, petID)
}

func (r *RedisSnapshotStore) beliefKey(petID, userID string) string {
	return fmt.Sprintf("%s:belief:%s:%s", r.prefix, petID, userID)
}

func (r *RedisSnapshotStore) profileKey(userID string) string {
	return fmt.Sprintf("%s:profile:%s", r.prefix, userID)
}

func (r *RedisSnapshotStore) load(key string, out any) (bool, error) {
	raw, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisSnapshotStore) save(key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.client.Set(r.ctx, key, data, r.ttl).Err()
}

func (r *RedisSnapshotStore) LoadPet(petID string) (*petsdk.Pet, error) {
	var pet petsdk.Pet
	ok, err := r.load(r.petKey(petID), &pet)
	if err != nil || !ok {
		return nil, err
	}
	return &pet, nil
}

func (r *RedisSnapshotStore) SavePet(pet *petsdk.Pet) error {
	return r.save(r.petKey(pet.ID), pet)
}

func (r *RedisSnapshotStore) LoadBelief(petID, userID string) (*petsdk.BeliefState, error) {
	var belief petsdk.BeliefState
	ok, err := r.load(r.beliefKey(petID, userID), &belief)
	if err != nil || !ok {
		return nil, err
	}
	return &belief, nil
}

func (r *RedisSnapshotStore) SaveBelief(belief *petsdk.BeliefState) error {
	return r.save(r.beliefKey(belief.PetID, belief.UserID), belief)
}

func (r *RedisSnapshotStore) LoadProfile(userID string) (*petsdk.UserProfile, error) {
	var profile petsdk.UserProfile
	ok, err := r.load(r.profileKey(userID), &profile)
	if err != nil || !ok {
		return nil, err
	}
	return &profile, nil
}

func (r *RedisSnapshotStore) SaveProfile(profile *petsdk.UserProfile) error {
	return r.save(r.profileKey(profile.UserID), profile)
}

package dungeons

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	redisclient "github.com/questforge/questmap/internal/redis"
)

const (
	dungeonKeyPrefix   = "dungeon:"
	dungeonIndexKey    = "dungeons"
	zoneDungeonsPrefix = "zone:"
	zoneDungeonsSuffix = ":dungeons"

	errDungeonNil      = "dungeon cannot be nil"
	errDungeonIDEmpty  = "dungeon ID cannot be empty"
	errZoneIDEmpty     = "zone ID cannot be empty"
	errCategoryEmpty   = "dungeon category cannot be empty"
	errPositionInvalid = "dungeon position must be finite"
)

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis-backed dungeon repository
func NewRedisRepository(client redisclient.Client) Repository {
	return &redisRepository{
		client: client,
	}
}

func zoneIndexKeyFor(zoneID string) string {
	return zoneDungeonsPrefix + zoneID + zoneDungeonsSuffix
}

func validateDungeon(d *entities.Dungeon) error {
	if d == nil {
		return errors.InvalidArgument(errDungeonNil)
	}
	if d.ID == "" {
		return errors.InvalidArgument(errDungeonIDEmpty)
	}
	if d.ZoneID == "" {
		return errors.InvalidArgument(errZoneIDEmpty)
	}
	if d.Category == "" {
		return errors.InvalidArgument(errCategoryEmpty)
	}
	// Non-finite positions are rejected at the storage boundary so they
	// can never reach frame evaluation through a reload.
	if !geometry.IsFinite(d.Position) {
		return errors.InvalidArgument(errPositionInvalid).
			WithMeta("dungeon_id", d.ID)
	}
	return nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateDungeon(input.Dungeon); err != nil {
		return nil, err
	}

	key := dungeonKeyPrefix + input.Dungeon.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check dungeon existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("dungeon with ID %s already exists", input.Dungeon.ID)
	}

	data, err := json.Marshal(input.Dungeon)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dungeon")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, dungeonIndexKey, input.Dungeon.ID)
	pipe.SAdd(ctx, zoneIndexKeyFor(input.Dungeon.ZoneID), input.Dungeon.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create dungeon")
	}

	return &CreateOutput{Dungeon: input.Dungeon}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDungeonIDEmpty)
	}

	key := dungeonKeyPrefix + input.ID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("dungeon with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get dungeon")
	}

	var dungeon entities.Dungeon
	if err := json.Unmarshal([]byte(result), &dungeon); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal dungeon")
	}

	return &GetOutput{Dungeon: &dungeon}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateDungeon(input.Dungeon); err != nil {
		return nil, err
	}

	// Fetch the stored copy so a zone move keeps both indexes honest.
	getOutput, err := r.Get(ctx, GetInput{ID: input.Dungeon.ID})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Dungeon)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dungeon")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, dungeonKeyPrefix+input.Dungeon.ID, data, 0)
	if getOutput.Dungeon.ZoneID != input.Dungeon.ZoneID {
		pipe.SRem(ctx, zoneIndexKeyFor(getOutput.Dungeon.ZoneID), input.Dungeon.ID)
		pipe.SAdd(ctx, zoneIndexKeyFor(input.Dungeon.ZoneID), input.Dungeon.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update dungeon")
	}

	return &UpdateOutput{Dungeon: input.Dungeon}, nil
}

func (r *redisRepository) ListByZone(ctx context.Context, input ListByZoneInput) (*ListByZoneOutput, error) {
	if input.ZoneID == "" {
		return nil, errors.InvalidArgument(errZoneIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, zoneIndexKeyFor(input.ZoneID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list zone dungeon IDs")
	}

	output := &ListByZoneOutput{}
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				r.client.SRem(ctx, zoneIndexKeyFor(input.ZoneID), id)
				continue
			}
			return nil, err
		}
		output.Dungeons = append(output.Dungeons, getOutput.Dungeon)
	}

	return output, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, dungeonIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list dungeon IDs")
	}

	output := &ListOutput{}
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				r.client.SRem(ctx, dungeonIndexKey, id)
				continue
			}
			return nil, err
		}
		output.Dungeons = append(output.Dungeons, getOutput.Dungeon)
	}

	return output, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDungeonIDEmpty)
	}

	// Get the dungeon to find its zone index.
	getOutput, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, dungeonKeyPrefix+input.ID)
	pipe.SRem(ctx, dungeonIndexKey, input.ID)
	pipe.SRem(ctx, zoneIndexKeyFor(getOutput.Dungeon.ZoneID), input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete dungeon")
	}

	return &DeleteOutput{}, nil
}

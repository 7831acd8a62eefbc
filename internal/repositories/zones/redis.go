package zones

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	redisclient "github.com/questforge/questmap/internal/redis"
)

const (
	zoneKeyPrefix = "zone:"
	zoneIndexKey  = "zones"

	errZoneNil     = "zone cannot be nil"
	errZoneIDEmpty = "zone ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis-backed zone repository
func NewRedisRepository(client redisclient.Client) Repository {
	return &redisRepository{
		client: client,
	}
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Zone == nil {
		return nil, errors.InvalidArgument(errZoneNil)
	}
	if input.Zone.ID == "" {
		return nil, errors.InvalidArgument(errZoneIDEmpty)
	}
	if !input.Zone.Bounds.IsValid() {
		return nil, errors.InvalidArgument("zone bounds must be a valid rectangle")
	}

	key := zoneKeyPrefix + input.Zone.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check zone existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("zone with ID %s already exists", input.Zone.ID)
	}

	data, err := json.Marshal(input.Zone)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal zone")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, zoneIndexKey, input.Zone.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create zone")
	}

	return &CreateOutput{Zone: input.Zone}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errZoneIDEmpty)
	}

	key := zoneKeyPrefix + input.ID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("zone with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get zone")
	}

	var zone entities.Zone
	if err := json.Unmarshal([]byte(result), &zone); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal zone")
	}

	return &GetOutput{Zone: &zone}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, zoneIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list zone IDs")
	}

	output := &ListOutput{}
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			// Index entries without a backing key are stale; skip and
			// clean up rather than failing the whole list.
			if errors.IsNotFound(err) {
				r.client.SRem(ctx, zoneIndexKey, id)
				continue
			}
			return nil, err
		}
		output.Zones = append(output.Zones, getOutput.Zone)
	}

	return output, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errZoneIDEmpty)
	}

	key := zoneKeyPrefix + input.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check zone existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("zone with ID %s not found", input.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, zoneIndexKey, input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete zone")
	}

	return &DeleteOutput{}, nil
}

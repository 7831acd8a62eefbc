package dungeons_test

import (
	"context"
	"math"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	"github.com/questforge/questmap/internal/repositories/dungeons"
	"github.com/questforge/questmap/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	cleanup   func()
	repo      dungeons.Repository
	ctx       context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedisClient(s.T())
	s.miniRedis = mr
	s.cleanup = cleanup

	s.repo = dungeons.NewRedisRepository(client)
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) testDungeon(id, zoneID string) *entities.Dungeon {
	return &entities.Dungeon{
		ID:       id,
		ZoneID:   zoneID,
		Name:     "Spider Cave",
		Category: "cave",
		Position: geometry.Point{X: 200, Y: 200},
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	dungeon := s.testDungeon("dungeon_1", "zone_1")

	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: dungeon})
	s.Require().NoError(err)
	s.True(s.miniRedis.Exists("dungeon:dungeon_1"))

	getOut, err := s.repo.Get(s.ctx, dungeons.GetInput{ID: "dungeon_1"})
	s.Require().NoError(err)
	s.Equal(dungeon.ID, getOut.Dungeon.ID)
	s.Equal(dungeon.Position, getOut.Dungeon.Position)
	s.Equal("cave", getOut.Dungeon.Category)
}

func (s *RedisRepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	noZone := s.testDungeon("dungeon_1", "")
	_, err = s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: noZone})
	s.True(errors.IsInvalidArgument(err))

	noCategory := s.testDungeon("dungeon_1", "zone_1")
	noCategory.Category = ""
	_, err = s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: noCategory})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestNonFinitePositionRejected() {
	bad := s.testDungeon("dungeon_1", "zone_1")
	bad.Position = geometry.Point{X: math.NaN(), Y: 0}

	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: bad})
	s.True(errors.IsInvalidArgument(err))
	s.Equal("dungeon_1", errors.GetMeta(err)["dungeon_id"])
}

func (s *RedisRepositoryTestSuite) TestUpdatePosition() {
	dungeon := s.testDungeon("dungeon_1", "zone_1")
	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: dungeon})
	s.Require().NoError(err)

	dungeon.Position = geometry.Point{X: 350, Y: 350}
	_, err = s.repo.Update(s.ctx, dungeons.UpdateInput{Dungeon: dungeon})
	s.Require().NoError(err)

	getOut, err := s.repo.Get(s.ctx, dungeons.GetInput{ID: "dungeon_1"})
	s.Require().NoError(err)
	s.Equal(geometry.Point{X: 350, Y: 350}, getOut.Dungeon.Position)
}

func (s *RedisRepositoryTestSuite) TestUpdateMovesZoneIndex() {
	dungeon := s.testDungeon("dungeon_1", "zone_1")
	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: dungeon})
	s.Require().NoError(err)

	dungeon.ZoneID = "zone_2"
	_, err = s.repo.Update(s.ctx, dungeons.UpdateInput{Dungeon: dungeon})
	s.Require().NoError(err)

	oldZone, err := s.repo.ListByZone(s.ctx, dungeons.ListByZoneInput{ZoneID: "zone_1"})
	s.Require().NoError(err)
	s.Empty(oldZone.Dungeons)

	newZone, err := s.repo.ListByZone(s.ctx, dungeons.ListByZoneInput{ZoneID: "zone_2"})
	s.Require().NoError(err)
	s.Len(newZone.Dungeons, 1)
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	_, err := s.repo.Update(s.ctx, dungeons.UpdateInput{Dungeon: s.testDungeon("missing", "zone_1")})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListByZone() {
	for _, id := range []string{"dungeon_1", "dungeon_2"} {
		_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: s.testDungeon(id, "zone_1")})
		s.Require().NoError(err)
	}
	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: s.testDungeon("dungeon_3", "zone_2")})
	s.Require().NoError(err)

	listOut, err := s.repo.ListByZone(s.ctx, dungeons.ListByZoneInput{ZoneID: "zone_1"})
	s.Require().NoError(err)
	s.Len(listOut.Dungeons, 2)

	allOut, err := s.repo.List(s.ctx, dungeons.ListInput{})
	s.Require().NoError(err)
	s.Len(allOut.Dungeons, 3)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	dungeon := s.testDungeon("dungeon_1", "zone_1")
	_, err := s.repo.Create(s.ctx, dungeons.CreateInput{Dungeon: dungeon})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, dungeons.DeleteInput{ID: "dungeon_1"})
	s.Require().NoError(err)
	s.False(s.miniRedis.Exists("dungeon:dungeon_1"))

	listOut, err := s.repo.ListByZone(s.ctx, dungeons.ListByZoneInput{ZoneID: "zone_1"})
	s.Require().NoError(err)
	s.Empty(listOut.Dungeons)

	_, err = s.repo.Delete(s.ctx, dungeons.DeleteInput{ID: "dungeon_1"})
	s.True(errors.IsNotFound(err))
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

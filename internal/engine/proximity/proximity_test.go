package proximity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/engine/proximity"
	"github.com/questforge/questmap/internal/entities"
)

func floatPtr(v float64) *float64 { return &v }
func int32Ptr(v int32) *int32     { return &v }

func openDungeon(x, y float64) *entities.Dungeon {
	return &entities.Dungeon{
		ID:       "dungeon_1",
		ZoneID:   "zone_1",
		Category: "cave",
		Position: geometry.Point{X: x, Y: y},
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("near tier in range", func(t *testing.T) {
		state, err := proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos:         geometry.Point{X: 150, Y: 150},
			Dungeon:          openDungeon(100, 100),
			InteractionRange: 100,
		})

		require.NoError(t, err)
		assert.InDelta(t, 70.7, state.Distance, 0.1)
		assert.True(t, state.IsInRange)
		assert.Equal(t, proximity.TierNear, state.Tier)
		assert.True(t, state.IsEligible)
		assert.False(t, state.IsLocked)
	})

	t.Run("ineligible actor is locked regardless of distance", func(t *testing.T) {
		dungeon := openDungeon(100, 100)
		dungeon.Requirements = entities.Requirements{MinTrustScore: floatPtr(10)}

		// Standing directly on the dungeon.
		state, err := proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos:         geometry.Point{X: 100, Y: 100},
			ActorStats:       entities.ActorStats{TrustScore: 5},
			Dungeon:          dungeon,
			InteractionRange: 100,
		})

		require.NoError(t, err)
		assert.False(t, state.IsEligible)
		assert.True(t, state.IsLocked)
		assert.Empty(t, state.VisualEffects)
		// Tier is still assigned so UI can show "close but locked".
		assert.Equal(t, proximity.TierClose, state.Tier)
	})

	t.Run("tier thresholds", func(t *testing.T) {
		tests := []struct {
			name     string
			distance float64
			want     proximity.Tier
		}{
			{"at zero", 0, proximity.TierClose},
			{"at close boundary", 40, proximity.TierClose},
			{"just past close", 40.01, proximity.TierNear},
			{"at near boundary", 80, proximity.TierNear},
			{"just past near", 80.01, proximity.TierFar},
			{"past interaction range", 150, proximity.TierFar},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				state, err := proximity.Evaluate(&proximity.EvaluateInput{
					ActorPos:         geometry.Point{X: tc.distance, Y: 0},
					Dungeon:          openDungeon(0, 0),
					InteractionRange: 100,
				})

				require.NoError(t, err)
				assert.Equal(t, tc.want, state.Tier)
			})
		}
	})

	t.Run("tier is assigned even when out of range", func(t *testing.T) {
		state, err := proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos:         geometry.Point{X: 500, Y: 0},
			Dungeon:          openDungeon(0, 0),
			InteractionRange: 100,
		})

		require.NoError(t, err)
		assert.False(t, state.IsInRange)
		assert.Equal(t, proximity.TierFar, state.Tier)
		assert.True(t, state.IsEligible)
		assert.Empty(t, state.VisualEffects, "out of range means no effects")
	})

	t.Run("effects for eligible in-range actor", func(t *testing.T) {
		t.Run("glow only when near", func(t *testing.T) {
			state, err := proximity.Evaluate(&proximity.EvaluateInput{
				ActorPos:         geometry.Point{X: 70, Y: 0},
				Dungeon:          openDungeon(0, 0),
				InteractionRange: 100,
			})

			require.NoError(t, err)
			require.Len(t, state.VisualEffects, 1)
			assert.Equal(t, proximity.EffectGlow, state.VisualEffects[0].Kind)
			assert.Equal(t, 1.0, state.VisualEffects[0].Intensity)
		})

		t.Run("glow then particles when close", func(t *testing.T) {
			state, err := proximity.Evaluate(&proximity.EvaluateInput{
				ActorPos:         geometry.Point{X: 20, Y: 0},
				Dungeon:          openDungeon(0, 0),
				InteractionRange: 100,
			})

			require.NoError(t, err)
			require.Len(t, state.VisualEffects, 2)
			assert.Equal(t, proximity.EffectGlow, state.VisualEffects[0].Kind)
			assert.Equal(t, proximity.EffectParticles, state.VisualEffects[1].Kind)
			assert.Equal(t, 0.8, state.VisualEffects[1].Intensity)
		})
	})

	t.Run("eligibility rules", func(t *testing.T) {
		stats := entities.ActorStats{
			TrustScore: 20,
			Level:      5,
			Badges:     []string{"starter", "finisher"},
		}

		tests := []struct {
			name string
			req  entities.Requirements
			want bool
		}{
			{"no requirements", entities.Requirements{}, true},
			{"trust met", entities.Requirements{MinTrustScore: floatPtr(20)}, true},
			{"trust unmet", entities.Requirements{MinTrustScore: floatPtr(21)}, false},
			{"level met", entities.Requirements{MinLevel: int32Ptr(5)}, true},
			{"level unmet", entities.Requirements{MinLevel: int32Ptr(6)}, false},
			{"badges subset", entities.Requirements{RequiredBadges: []string{"starter"}}, true},
			{"badge missing", entities.Requirements{RequiredBadges: []string{"starter", "veteran"}}, false},
			{"all combined", entities.Requirements{
				MinTrustScore:  floatPtr(10),
				MinLevel:       int32Ptr(3),
				RequiredBadges: []string{"finisher"},
			}, true},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				dungeon := openDungeon(0, 0)
				dungeon.Requirements = tc.req

				state, err := proximity.Evaluate(&proximity.EvaluateInput{
					ActorPos:   geometry.Point{X: 10, Y: 0},
					ActorStats: stats,
					Dungeon:    dungeon,
				})

				require.NoError(t, err)
				assert.Equal(t, tc.want, state.IsEligible)
				assert.Equal(t, !tc.want, state.IsLocked)
			})
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		input := &proximity.EvaluateInput{
			ActorPos:         geometry.Point{X: 30, Y: 40},
			ActorStats:       entities.ActorStats{TrustScore: 7, Level: 2},
			Dungeon:          openDungeon(0, 0),
			InteractionRange: 100,
		}

		first, err := proximity.Evaluate(input)
		require.NoError(t, err)
		second, err := proximity.Evaluate(input)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rejects non-finite positions", func(t *testing.T) {
		_, err := proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos: geometry.Point{X: math.NaN(), Y: 0},
			Dungeon:  openDungeon(0, 0),
		})
		assert.Error(t, err)

		_, err = proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos: geometry.Point{X: 0, Y: 0},
			Dungeon:  openDungeon(math.Inf(1), 0),
		})
		assert.Error(t, err)
	})

	t.Run("rejects nil input and nil dungeon", func(t *testing.T) {
		_, err := proximity.Evaluate(nil)
		assert.Error(t, err)

		_, err = proximity.Evaluate(&proximity.EvaluateInput{})
		assert.Error(t, err)
	})

	t.Run("defaults the interaction range when unset", func(t *testing.T) {
		state, err := proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos: geometry.Point{X: 90, Y: 0},
			Dungeon:  openDungeon(0, 0),
		})

		require.NoError(t, err)
		assert.True(t, state.IsInRange)
	})
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/questforge/questmap/internal/config"
	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	worldorch "github.com/questforge/questmap/internal/orchestrators/world"
	"github.com/questforge/questmap/internal/pkg/clock"
	"github.com/questforge/questmap/internal/pkg/idgen"
	redisclient "github.com/questforge/questmap/internal/redis"
	"github.com/questforge/questmap/internal/repositories/dungeons"
	"github.com/questforge/questmap/internal/repositories/zones"
	worldsvc "github.com/questforge/questmap/internal/services/world"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a world definition file into storage",
	Long:  `Seed reads a YAML world file, creates its zones and dungeons through the placement pipeline, and runs a separation pass per zone.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	seedCmd.Flags().StringVar(&seedFile, "file", "world.yaml", "path to the world definition file")
}

// seedWorld is the on-disk world definition format.
type seedWorld struct {
	Zones []seedZone `yaml:"zones"`
}

type seedZone struct {
	Name     string        `yaml:"name"`
	Bounds   seedRect      `yaml:"bounds"`
	Dungeons []seedDungeon `yaml:"dungeons"`
}

type seedRect struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type seedDungeon struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	X        float64  `yaml:"x"`
	Y        float64  `yaml:"y"`
	MinTrust *float64 `yaml:"min_trust,omitempty"`
	MinLevel *int32   `yaml:"min_level,omitempty"`
	Badges   []string `yaml:"badges,omitempty"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read world file: %w", err)
	}

	var world seedWorld
	if err := yaml.Unmarshal(data, &world); err != nil {
		return fmt.Errorf("failed to parse world file: %w", err)
	}

	client, err := redisclient.NewClient(cfg.Redis.Address, &redisclient.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	worldService, err := worldorch.NewOrchestrator(&worldorch.Config{
		ZoneRepo:    zones.NewRedisRepository(client),
		DungeonRepo: dungeons.NewRedisRepository(client),
		IDGenerator: idgen.NewUUID("qm"),
		Clock:       clock.New(),
		Margin:      cfg.Tuning.Margin,
		MinDistance: cfg.Tuning.MinDistance,
	})
	if err != nil {
		return fmt.Errorf("failed to create world service: %w", err)
	}

	for _, zoneDef := range world.Zones {
		zoneOut, err := worldService.CreateZone(ctx, &worldsvc.CreateZoneInput{
			Name: zoneDef.Name,
			Bounds: geometry.Rect{
				MinX: zoneDef.Bounds.MinX, MinY: zoneDef.Bounds.MinY,
				MaxX: zoneDef.Bounds.MaxX, MaxY: zoneDef.Bounds.MaxY,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create zone %q: %w", zoneDef.Name, err)
		}

		for _, dungeonDef := range zoneDef.Dungeons {
			placeOut, err := worldService.PlaceDungeon(ctx, &worldsvc.PlaceDungeonInput{
				ZoneID:   zoneOut.Zone.ID,
				Name:     dungeonDef.Name,
				Category: dungeonDef.Category,
				Position: geometry.Point{X: dungeonDef.X, Y: dungeonDef.Y},
				Requirements: entities.Requirements{
					MinTrustScore:  dungeonDef.MinTrust,
					MinLevel:       dungeonDef.MinLevel,
					RequiredBadges: dungeonDef.Badges,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to place dungeon %q: %w", dungeonDef.Name, err)
			}
			if placeOut.Clamped {
				slog.Info("Seed position clamped",
					"dungeon", dungeonDef.Name,
					"placed", placeOut.Dungeon.Position,
				)
			}
		}

		resolveOut, err := worldService.ResolveZone(ctx, &worldsvc.ResolveZoneInput{
			ZoneID: zoneOut.Zone.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve zone %q: %w", zoneDef.Name, err)
		}
		slog.Info("Zone seeded",
			"zone", zoneDef.Name,
			"dungeons", len(zoneDef.Dungeons),
			"moved", len(resolveOut.MovedIDs),
			"conflicts", len(resolveOut.Conflicts),
		)
	}

	return nil
}

package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	v1alpha1 "github.com/questforge/questmap/internal/handlers/api/v1alpha1"
	framesvc "github.com/questforge/questmap/internal/services/frame"
	worldsvc "github.com/questforge/questmap/internal/services/world"
)

// stubWorldService lets each test provide just the methods it exercises.
type stubWorldService struct {
	createZoneFunc     func(ctx context.Context, input *worldsvc.CreateZoneInput) (*worldsvc.CreateZoneOutput, error)
	getZoneFunc        func(ctx context.Context, input *worldsvc.GetZoneInput) (*worldsvc.GetZoneOutput, error)
	listZonesFunc      func(ctx context.Context, input *worldsvc.ListZonesInput) (*worldsvc.ListZonesOutput, error)
	deleteZoneFunc     func(ctx context.Context, input *worldsvc.DeleteZoneInput) (*worldsvc.DeleteZoneOutput, error)
	placeDungeonFunc   func(ctx context.Context, input *worldsvc.PlaceDungeonInput) (*worldsvc.PlaceDungeonOutput, error)
	moveDungeonFunc    func(ctx context.Context, input *worldsvc.MoveDungeonInput) (*worldsvc.MoveDungeonOutput, error)
	getDungeonFunc     func(ctx context.Context, input *worldsvc.GetDungeonInput) (*worldsvc.GetDungeonOutput, error)
	listDungeonsFunc   func(ctx context.Context, input *worldsvc.ListDungeonsInput) (*worldsvc.ListDungeonsOutput, error)
	deleteDungeonFunc  func(ctx context.Context, input *worldsvc.DeleteDungeonInput) (*worldsvc.DeleteDungeonOutput, error)
	resolveZoneFunc    func(ctx context.Context, input *worldsvc.ResolveZoneInput) (*worldsvc.ResolveZoneOutput, error)
	getWorldBoundsFunc func(ctx context.Context, input *worldsvc.GetWorldBoundsInput) (*worldsvc.GetWorldBoundsOutput, error)
}

func (s *stubWorldService) CreateZone(ctx context.Context, input *worldsvc.CreateZoneInput) (*worldsvc.CreateZoneOutput, error) {
	return s.createZoneFunc(ctx, input)
}

func (s *stubWorldService) GetZone(ctx context.Context, input *worldsvc.GetZoneInput) (*worldsvc.GetZoneOutput, error) {
	return s.getZoneFunc(ctx, input)
}

func (s *stubWorldService) ListZones(ctx context.Context, input *worldsvc.ListZonesInput) (*worldsvc.ListZonesOutput, error) {
	return s.listZonesFunc(ctx, input)
}

func (s *stubWorldService) DeleteZone(ctx context.Context, input *worldsvc.DeleteZoneInput) (*worldsvc.DeleteZoneOutput, error) {
	return s.deleteZoneFunc(ctx, input)
}

func (s *stubWorldService) PlaceDungeon(ctx context.Context, input *worldsvc.PlaceDungeonInput) (*worldsvc.PlaceDungeonOutput, error) {
	return s.placeDungeonFunc(ctx, input)
}

func (s *stubWorldService) MoveDungeon(ctx context.Context, input *worldsvc.MoveDungeonInput) (*worldsvc.MoveDungeonOutput, error) {
	return s.moveDungeonFunc(ctx, input)
}

func (s *stubWorldService) GetDungeon(ctx context.Context, input *worldsvc.GetDungeonInput) (*worldsvc.GetDungeonOutput, error) {
	return s.getDungeonFunc(ctx, input)
}

func (s *stubWorldService) ListDungeons(ctx context.Context, input *worldsvc.ListDungeonsInput) (*worldsvc.ListDungeonsOutput, error) {
	return s.listDungeonsFunc(ctx, input)
}

func (s *stubWorldService) DeleteDungeon(ctx context.Context, input *worldsvc.DeleteDungeonInput) (*worldsvc.DeleteDungeonOutput, error) {
	return s.deleteDungeonFunc(ctx, input)
}

func (s *stubWorldService) ResolveZone(ctx context.Context, input *worldsvc.ResolveZoneInput) (*worldsvc.ResolveZoneOutput, error) {
	return s.resolveZoneFunc(ctx, input)
}

func (s *stubWorldService) GetWorldBounds(ctx context.Context, input *worldsvc.GetWorldBoundsInput) (*worldsvc.GetWorldBoundsOutput, error) {
	return s.getWorldBoundsFunc(ctx, input)
}

type stubFrameService struct {
	reloadFunc        func(ctx context.Context, input *framesvc.ReloadInput) (*framesvc.ReloadOutput, error)
	evaluateFrameFunc func(ctx context.Context, input *framesvc.EvaluateFrameInput) (*framesvc.EvaluateFrameOutput, error)
	resetFunc         func(ctx context.Context, input *framesvc.ResetSpriteCacheInput) (*framesvc.ResetSpriteCacheOutput, error)
	metricsFunc       func(ctx context.Context, input *framesvc.CacheMetricsInput) (*framesvc.CacheMetricsOutput, error)
}

func (s *stubFrameService) Reload(ctx context.Context, input *framesvc.ReloadInput) (*framesvc.ReloadOutput, error) {
	return s.reloadFunc(ctx, input)
}

func (s *stubFrameService) EvaluateFrame(ctx context.Context, input *framesvc.EvaluateFrameInput) (*framesvc.EvaluateFrameOutput, error) {
	return s.evaluateFrameFunc(ctx, input)
}

func (s *stubFrameService) ResetSpriteCache(ctx context.Context, input *framesvc.ResetSpriteCacheInput) (*framesvc.ResetSpriteCacheOutput, error) {
	return s.resetFunc(ctx, input)
}

func (s *stubFrameService) CacheMetrics(ctx context.Context, input *framesvc.CacheMetricsInput) (*framesvc.CacheMetricsOutput, error) {
	return s.metricsFunc(ctx, input)
}

type HandlerTestSuite struct {
	suite.Suite
	worldService *stubWorldService
	frameService *stubFrameService
	router       *mux.Router
}

func (s *HandlerTestSuite) SetupTest() {
	s.worldService = &stubWorldService{}
	s.frameService = &stubFrameService{}

	handler, err := v1alpha1.NewHandler(&v1alpha1.Config{
		WorldService: s.worldService,
		FrameService: s.frameService,
	})
	s.Require().NoError(err)

	s.router = mux.NewRouter()
	handler.RegisterRoutes(s.router)
}

func (s *HandlerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *HandlerTestSuite) TestNewHandlerValidation() {
	_, err := v1alpha1.NewHandler(nil)
	s.Error(err)

	_, err = v1alpha1.NewHandler(&v1alpha1.Config{WorldService: s.worldService})
	s.Error(err)
}

func (s *HandlerTestSuite) TestCreateZone() {
	s.worldService.createZoneFunc = func(_ context.Context, input *worldsvc.CreateZoneInput) (*worldsvc.CreateZoneOutput, error) {
		s.Equal("Meadow", input.Name)
		return &worldsvc.CreateZoneOutput{
			Zone: &entities.Zone{ID: "zone_1", Name: input.Name, Bounds: input.Bounds},
		}, nil
	}

	recorder := s.do(http.MethodPost, "/v1alpha1/zones", map[string]interface{}{
		"name":   "Meadow",
		"bounds": geometry.Rect{MinX: 0, MinY: 0, MaxX: 400, MaxY: 400},
	})

	s.Equal(http.StatusCreated, recorder.Code)

	var output worldsvc.CreateZoneOutput
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &output))
	s.Equal("zone_1", output.Zone.ID)
}

func (s *HandlerTestSuite) TestCreateZoneInvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/v1alpha1/zones", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *HandlerTestSuite) TestGetZoneNotFound() {
	s.worldService.getZoneFunc = func(_ context.Context, input *worldsvc.GetZoneInput) (*worldsvc.GetZoneOutput, error) {
		return nil, errors.NotFoundf("zone with ID %s not found", input.ZoneID)
	}

	recorder := s.do(http.MethodGet, "/v1alpha1/zones/missing", nil)

	s.Equal(http.StatusNotFound, recorder.Code)

	var httpErr errors.HTTPError
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &httpErr))
	s.Equal("NOT_FOUND", httpErr.Code)
}

func (s *HandlerTestSuite) TestPlaceDungeon() {
	s.worldService.placeDungeonFunc = func(_ context.Context, input *worldsvc.PlaceDungeonInput) (*worldsvc.PlaceDungeonOutput, error) {
		s.Equal("zone_1", input.ZoneID)
		s.Equal("cave", input.Category)
		return &worldsvc.PlaceDungeonOutput{
			Dungeon: &entities.Dungeon{
				ID: "dungeon_1", ZoneID: input.ZoneID,
				Category: input.Category,
				Position: geometry.Point{X: 350, Y: 350},
			},
			Clamped: true,
		}, nil
	}

	recorder := s.do(http.MethodPost, "/v1alpha1/zones/zone_1/dungeons", map[string]interface{}{
		"category": "cave",
		"position": geometry.Point{X: 500, Y: 500},
	})

	s.Equal(http.StatusCreated, recorder.Code)

	var output worldsvc.PlaceDungeonOutput
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &output))
	s.True(output.Clamped)
	s.Equal(geometry.Point{X: 350, Y: 350}, output.Dungeon.Position)
}

func (s *HandlerTestSuite) TestMoveDungeon() {
	s.worldService.moveDungeonFunc = func(_ context.Context, input *worldsvc.MoveDungeonInput) (*worldsvc.MoveDungeonOutput, error) {
		s.Equal("dungeon_1", input.DungeonID)
		return &worldsvc.MoveDungeonOutput{
			Dungeon: &entities.Dungeon{ID: input.DungeonID, Position: input.Position},
		}, nil
	}

	recorder := s.do(http.MethodPut, "/v1alpha1/dungeons/dungeon_1/position", map[string]interface{}{
		"position": geometry.Point{X: 100, Y: 200},
	})

	s.Equal(http.StatusOK, recorder.Code)
}

func (s *HandlerTestSuite) TestResolveZoneReportsConflicts() {
	s.worldService.resolveZoneFunc = func(_ context.Context, input *worldsvc.ResolveZoneInput) (*worldsvc.ResolveZoneOutput, error) {
		s.Equal("zone_1", input.ZoneID)
		return &worldsvc.ResolveZoneOutput{MovedIDs: []string{"dungeon_2"}}, nil
	}

	recorder := s.do(http.MethodPost, "/v1alpha1/zones/zone_1/resolve", nil)

	s.Equal(http.StatusOK, recorder.Code)

	var output worldsvc.ResolveZoneOutput
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &output))
	s.Equal([]string{"dungeon_2"}, output.MovedIDs)
}

func (s *HandlerTestSuite) TestGetWorldBounds() {
	s.worldService.getWorldBoundsFunc = func(_ context.Context, input *worldsvc.GetWorldBoundsInput) (*worldsvc.GetWorldBoundsOutput, error) {
		s.Equal(100.0, input.Padding)
		return &worldsvc.GetWorldBoundsOutput{
			Bounds: geometry.Rect{MinX: -100, MinY: -100, MaxX: 900, MaxY: 500},
		}, nil
	}

	recorder := s.do(http.MethodGet, "/v1alpha1/world/bounds?padding=100", nil)

	s.Equal(http.StatusOK, recorder.Code)
}

func (s *HandlerTestSuite) TestGetWorldBoundsBadPadding() {
	recorder := s.do(http.MethodGet, "/v1alpha1/world/bounds?padding=lots", nil)
	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *HandlerTestSuite) TestEvaluateFrame() {
	s.frameService.evaluateFrameFunc = func(_ context.Context, input *framesvc.EvaluateFrameInput) (*framesvc.EvaluateFrameOutput, error) {
		s.Equal(geometry.Point{X: 150, Y: 150}, input.ActorPos)
		return &framesvc.EvaluateFrameOutput{
			States: []framesvc.DungeonState{{DungeonID: "dungeon_1", SpriteKey: "sprite_cave"}},
		}, nil
	}

	recorder := s.do(http.MethodPost, "/v1alpha1/frame/evaluate", map[string]interface{}{
		"actor_pos": geometry.Point{X: 150, Y: 150},
	})

	s.Equal(http.StatusOK, recorder.Code)

	var output framesvc.EvaluateFrameOutput
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &output))
	s.Require().Len(output.States, 1)
	s.Equal("dungeon_1", output.States[0].DungeonID)
}

func (s *HandlerTestSuite) TestCacheMetrics() {
	s.frameService.metricsFunc = func(_ context.Context, _ *framesvc.CacheMetricsInput) (*framesvc.CacheMetricsOutput, error) {
		out := &framesvc.CacheMetricsOutput{}
		out.Metrics.CachedCount = 3
		return out, nil
	}

	recorder := s.do(http.MethodGet, "/v1alpha1/frame/sprites/metrics", nil)

	s.Equal(http.StatusOK, recorder.Code)

	var output framesvc.CacheMetricsOutput
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &output))
	s.Equal(3, output.Metrics.CachedCount)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

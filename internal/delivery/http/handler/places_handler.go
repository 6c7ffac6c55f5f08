package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/pkg/utils"
	"github.com/petmap-service/internal/pkg/validator"
	"github.com/petmap-service/internal/usecase"
	"github.com/petmap-service/internal/usecase/dto"
)

// PlacesHandler - поиск заведений без сессии
type PlacesHandler struct {
	searchUC *usecase.PlaceSearchUseCase
	settings usecase.MapSettings
	logger   *zap.Logger
}

// NewPlacesHandler - создание нового PlacesHandler
func NewPlacesHandler(searchUC *usecase.PlaceSearchUseCase, settings usecase.MapSettings, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{
		searchUC: searchUC,
		settings: settings,
		logger:   logger,
	}
}

// Options godoc
// @Summary Опции поиска
// @Description Таблица допустимых радиусов, категорий и координата по умолчанию
// @Tags Places
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchOptionsResponse}
// @Router /api/v1/search/options [get]
func (h *PlacesHandler) Options(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.NewSearchOptionsResponse(
		h.settings.RadiusOptions,
		h.settings.DefaultRadius,
		h.settings.Fallback,
	), nil)
}

// Nearby godoc
// @Summary Заведения рядом
// @Description Ищет заведения вокруг точки. Ошибка backend не ломает ответ: возвращается пустой результат и notice.
// @Tags Places
// @Produce json
// @Param lat query number true "Широта"
// @Param lng query number true "Долгота"
// @Param radius query int false "Радиус в метрах (1000, 3000, 5000, 10000)"
// @Param keyword query string false "Ключевое слово"
// @Param category query string false "Категория"
// @Success 200 {object} utils.SuccessResponse{data=domain.SearchResult}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/nearby [get]
func (h *PlacesHandler) Nearby(c *fiber.Ctx) error {
	origin, filter, err := h.parseNearby(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, searchErr := h.searchUC.Search(c.UserContext(), origin, filter)

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:  len(result.Places),
		Notice: usecase.NoticeFor(searchErr),
	})
}

// NearbyGeoJSON godoc
// @Summary Заведения рядом в GeoJSON
// @Description То же, что /places/nearby, но маркеры и origin как FeatureCollection
// @Tags Places
// @Produce json
// @Param lat query number true "Широта"
// @Param lng query number true "Долгота"
// @Param radius query int false "Радиус в метрах"
// @Param keyword query string false "Ключевое слово"
// @Param category query string false "Категория"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/nearby.geojson [get]
func (h *PlacesHandler) NearbyGeoJSON(c *fiber.Ctx) error {
	origin, filter, err := h.parseNearby(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, searchErr := h.searchUC.Search(c.UserContext(), origin, filter)
	if notice := usecase.NoticeFor(searchErr); notice != "" {
		c.Set("X-Notice", notice)
	}

	return c.JSON(dto.ToFeatureCollection(result), "application/geo+json")
}

func (h *PlacesHandler) parseNearby(c *fiber.Ctx) (domain.Coordinate, domain.SearchFilter, error) {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		return domain.Coordinate{}, domain.SearchFilter{}, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": "required",
			"lng": "required",
		})
	}

	var req dto.NearbyRequest
	if err := c.QueryParser(&req); err != nil {
		return domain.Coordinate{}, domain.SearchFilter{}, errors.Wrap(errors.ErrInvalidRequest, err)
	}
	if err := validator.Validate(&req); err != nil {
		return domain.Coordinate{}, domain.SearchFilter{}, err
	}

	if !utils.ValidateCoordinates(req.Lat, req.Lng) {
		return domain.Coordinate{}, domain.SearchFilter{}, errors.ErrInvalidCoordinates
	}

	filter, err := h.settings.NormalizeFilter(req.Filter())
	if err != nil {
		return domain.Coordinate{}, domain.SearchFilter{}, err
	}
	return req.Origin(), filter, nil
}

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

// SessionHandler - экран поиска: разрешение, локация, поиск, синхронизация списка и карты
type SessionHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

// NewSessionHandler - создание нового SessionHandler
func NewSessionHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// Start godoc
// @Summary Открыть экран поиска
// @Description Создаёт сессию. Если передан отчёт устройства, сразу определяет локацию.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest false "Отчёт устройства"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.Wrap(errors.ErrInvalidRequest, err))
		}
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	var report *domain.DeviceReport
	if req.Device != nil {
		r := req.Device.ToDomain()
		report = &r
	}

	state, err := h.sessionUC.Start(c.UserContext(), report)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return h.sendState(c, state)
}

// Get godoc
// @Summary Состояние экрана поиска
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	state, err := h.sessionUC.State(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.sendState(c, state)
}

// Locate godoc
// @Summary Определить локацию
// @Description Автоматический поток: проверка разрешения, не более одного запроса за сессию, снимок координаты
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.DeviceRequest true "Отчёт устройства"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/locate [post]
func (h *SessionHandler) Locate(c *fiber.Ctx) error {
	report, err := parseDevice(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.Locate(c.UserContext(), c.Params("id"), report)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.sendState(c, state)
}

// RequestPermission godoc
// @Summary Явный запрос разрешения
// @Description Пользователь сам попросил доступ к геолокации: запрос показывается даже после отказа
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.DeviceRequest true "Отчёт устройства"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/permission [post]
func (h *SessionHandler) RequestPermission(c *fiber.Ctx) error {
	report, err := parseDevice(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.RequestPermission(c.UserContext(), c.Params("id"), report)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.sendState(c, state)
}

// Search godoc
// @Summary Поиск в сессии
// @Description Выполняет поиск и применяет результат, если за это время не был выдан более новый поиск
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SearchRequest true "Фильтры"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/search [post]
func (h *SessionHandler) Search(c *fiber.Ctx) error {
	req, err := parseSearch(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.Search(c.UserContext(), c.Params("id"), req.Filter())
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.sendState(c, state)
}

// SearchAsync godoc
// @Summary Асинхронный поиск
// @Description Ставит поиск в очередь воркера. Результат применяется к сессии, если он ещё актуален.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SearchRequest true "Фильтры"
// @Success 202 {object} utils.SuccessResponse{data=dto.AsyncSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/search/async [post]
func (h *SessionHandler) SearchAsync(c *fiber.Ctx) error {
	req, err := parseSearch(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	event, err := h.sessionUC.EnqueueSearch(c.UserContext(), c.Params("id"), req.Filter())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusAccepted)
	return utils.SendSuccess(c, dto.NewAsyncSearchResponse(event), &utils.Meta{Seq: event.Seq})
}

// Focus godoc
// @Summary Выбор элемента списка
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.FocusRequest true "Координата элемента"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/focus [post]
func (h *SessionHandler) Focus(c *fiber.Ctx) error {
	var req dto.FocusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.Wrap(errors.ErrInvalidRequest, err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.Focus(c.UserContext(), c.Params("id"), domain.NewCoordinate(req.Lat, req.Lng))
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.sendState(c, state)
}

// TapMarker godoc
// @Summary Нажатие на маркер
// @Description Устаревший маркер возвращает found=false и ничего не меняет
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Param marker_id path string true "ID маркера"
// @Success 200 {object} utils.SuccessResponse{data=dto.MarkerTapResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/{marker_id}/tap [post]
func (h *SessionHandler) TapMarker(c *fiber.Ctx) error {
	place, state, err := h.sessionUC.TapMarker(c.UserContext(), c.Params("id"), c.Params("marker_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.MarkerTapResponse{Found: place != nil, Place: place}
	if place != nil {
		resp.Focus = state.Focus
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Seq: state.AppliedSeq})
}

// MapError godoc
// @Summary Ошибка загрузки карты
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.MapErrorRequest true "Причина"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Router /api/v1/sessions/{id}/map-error [post]
func (h *SessionHandler) MapError(c *fiber.Ctx) error {
	var req dto.MapErrorRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.Wrap(errors.ErrInvalidRequest, err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.ReportMapError(c.UserContext(), c.Params("id"), req.Reason)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.sendState(c, state)
}

func (h *SessionHandler) sendState(c *fiber.Ctx, state *domain.ViewState) error {
	center, zoom := h.sessionUC.ViewSync().MapCenter(state)

	meta := &utils.Meta{
		Seq:    state.AppliedSeq,
		Notice: state.Notice,
	}
	if state.Result != nil {
		meta.Total = len(state.Result.Places)
	}
	return utils.SendSuccess(c, dto.NewSessionResponse(state, center, zoom), meta)
}

func parseDevice(c *fiber.Ctx) (domain.DeviceReport, error) {
	var req dto.DeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.DeviceReport{}, errors.Wrap(errors.ErrInvalidRequest, err)
	}
	if err := validator.Validate(&req); err != nil {
		return domain.DeviceReport{}, err
	}
	return req.Device.ToDomain(), nil
}

func parseSearch(c *fiber.Ctx) (dto.SearchRequest, error) {
	var req dto.SearchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return dto.SearchRequest{}, errors.Wrap(errors.ErrInvalidRequest, err)
		}
	}
	if err := validator.Validate(&req); err != nil {
		return dto.SearchRequest{}, err
	}
	return req, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/pkg/metrics"
)

// DeviceBridgeFactory оборачивает отчёт устройства в SDK разрешений и геолокации
type DeviceBridgeFactory func(report domain.DeviceReport) repository.DeviceCapabilities

// SessionUseCase - цикл событий экрана поиска: разрешение -> локация -> поиск -> применение результата.
// Отображаемый результат меняет только последний выданный поиск (по seq).
type SessionUseCase struct {
	sessions   repository.SessionRepository
	streamRepo repository.StreamRepository
	gate       *PermissionGate
	locator    *LocationProvider
	search     *PlaceSearchUseCase
	viewSync   *ViewSync
	bridge     DeviceBridgeFactory
	settings   MapSettings
	logger     *zap.Logger
}

// NewSessionUseCase - streamRepo может быть nil, тогда асинхронный поиск недоступен
func NewSessionUseCase(
	sessions repository.SessionRepository,
	streamRepo repository.StreamRepository,
	gate *PermissionGate,
	locator *LocationProvider,
	search *PlaceSearchUseCase,
	viewSync *ViewSync,
	bridge DeviceBridgeFactory,
	settings MapSettings,
	logger *zap.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		sessions:   sessions,
		streamRepo: streamRepo,
		gate:       gate,
		locator:    locator,
		search:     search,
		viewSync:   viewSync,
		bridge:     bridge,
		settings:   settings,
		logger:     logger,
	}
}

// ViewSync отдаёт синхронизатор для слоя доставки
func (uc *SessionUseCase) ViewSync() *ViewSync {
	return uc.viewSync
}

// Start открывает новый экран поиска. Если передан отчёт устройства, сразу определяет локацию.
func (uc *SessionUseCase) Start(ctx context.Context, report *domain.DeviceReport) (*domain.ViewState, error) {
	state := domain.NewViewState(uuid.NewString(), uc.locator.Fallback(), uc.settings.DefaultFilter())
	if err := uc.sessions.Create(ctx, state); err != nil {
		uc.logger.Error("Failed to create session", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Session started", zap.String("session_id", state.SessionID))

	if report == nil {
		return state, nil
	}
	return uc.Locate(ctx, state.SessionID, *report)
}

// State возвращает текущее состояние сессии
func (uc *SessionUseCase) State(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	return uc.sessions.Get(ctx, sessionID)
}

// Locate - автоматический поток: проверка разрешения, не более одного запроса за сессию
// и никогда после отказа, затем снимок координаты.
func (uc *SessionUseCase) Locate(ctx context.Context, sessionID string, report domain.DeviceReport) (*domain.ViewState, error) {
	current, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	device := uc.bridge(report)

	permission := uc.gate.CheckGranted(ctx, device)
	// Сбой опроса не отменяет уже известное состояние, в том числе отказ
	if permission == domain.PermissionUnknown {
		permission = current.Permission
	}

	prompted := false
	var guidance *domain.PermissionGuidance
	if permission == domain.PermissionUnknown && !current.Prompted {
		permission, guidance = uc.gate.RequestPermission(ctx, device)
		prompted = true
	}
	if permission == domain.PermissionDenied && guidance == nil {
		guidance = uc.gate.DeniedGuidance()
	}

	origin, source := uc.locator.ResolveCoordinate(ctx, device, permission)

	return uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		applyLocation(s, permission, guidance, origin, source)
		if prompted {
			s.Prompted = true
		}
		return nil
	})
}

// RequestPermission - явный запрос пользователя: показывает запрос даже после отказа
func (uc *SessionUseCase) RequestPermission(ctx context.Context, sessionID string, report domain.DeviceReport) (*domain.ViewState, error) {
	if _, err := uc.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	device := uc.bridge(report)
	permission, guidance := uc.gate.RequestPermission(ctx, device)
	origin, source := uc.locator.ResolveCoordinate(ctx, device, permission)

	return uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		applyLocation(s, permission, guidance, origin, source)
		s.Prompted = true
		return nil
	})
}

func applyLocation(
	s *domain.ViewState,
	permission domain.PermissionState,
	guidance *domain.PermissionGuidance,
	origin domain.Coordinate,
	source domain.LocationSource,
) {
	s.Permission = permission
	s.Origin = origin
	s.OriginSource = source
	s.Located = true
	s.Guidance = guidance
	if guidance != nil {
		s.Notice = guidance.Message
	}
}

// Search - синхронный поиск: выдать seq, выполнить, применить результат если он ещё актуален
func (uc *SessionUseCase) Search(ctx context.Context, sessionID string, filter domain.SearchFilter) (*domain.ViewState, error) {
	seq, filter, err := uc.IssueSearch(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}

	state, _, err := uc.CompleteSearch(ctx, sessionID, seq, filter)
	return state, err
}

// IssueSearch проверяет фильтр, сохраняет его и выдаёт следующий seq
func (uc *SessionUseCase) IssueSearch(ctx context.Context, sessionID string, filter domain.SearchFilter) (uint64, domain.SearchFilter, error) {
	filter, err := uc.settings.NormalizeFilter(filter)
	if err != nil {
		return 0, domain.SearchFilter{}, err
	}

	var seq uint64
	_, err = uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		s.IssuedSeq++
		s.Filter = filter
		seq = s.IssuedSeq
		return nil
	})
	if err != nil {
		return 0, domain.SearchFilter{}, err
	}

	uc.logger.Debug("Search issued",
		zap.String("session_id", sessionID),
		zap.Uint64("seq", seq))
	return seq, filter, nil
}

// CompleteSearch выполняет поиск с seq и применяет результат.
// Если к моменту старта или завершения выдан более новый поиск, результат отбрасывается (applied=false).
func (uc *SessionUseCase) CompleteSearch(
	ctx context.Context,
	sessionID string,
	seq uint64,
	filter domain.SearchFilter,
) (*domain.ViewState, bool, error) {
	current, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if seq != current.IssuedSeq {
		uc.discardStale(sessionID, seq, current.IssuedSeq)
		return current, false, nil
	}

	result, searchErr := uc.search.Search(ctx, current.Origin, filter)

	applied := false
	state, err := uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		var next *domain.ViewState
		next, applied = ApplySearchResult(s, seq, result, searchErr)
		*s = *next
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !applied {
		uc.discardStale(sessionID, seq, state.IssuedSeq)
	}
	return state, applied, nil
}

func (uc *SessionUseCase) discardStale(sessionID string, seq, latest uint64) {
	metrics.StaleResponses.Inc()
	uc.logger.Debug("Stale search response discarded",
		zap.String("session_id", sessionID),
		zap.Uint64("seq", seq),
		zap.Uint64("latest_seq", latest),
		zap.Error(errors.ErrStaleResponse))
}

// ApplySearchResult - чистый переход состояния после завершения поиска.
// Устаревший seq: состояние без изменений, applied=false.
// Ошибка: остаётся последний удачный результат, в Notice - сообщение; если показывать нечего, пустой результат.
// Успех: результат заменяется, уведомление и фокус сбрасываются.
func ApplySearchResult(state *domain.ViewState, seq uint64, result *domain.SearchResult, searchErr error) (*domain.ViewState, bool) {
	if seq != state.IssuedSeq || seq <= state.AppliedSeq {
		return state, false
	}

	next := state.Clone()
	next.AppliedSeq = seq

	if searchErr != nil {
		next.Notice = NoticeFor(searchErr)
		if next.Result == nil {
			next.Result = result
		}
		return next, true
	}

	next.Result = result
	next.Notice = ""
	next.Focus = nil
	return next, true
}

// NoticeFor - текст транзиентного уведомления для нефатальной ошибки поиска
func NoticeFor(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return errors.ErrSearchTransport.Message
}

// EnqueueSearch выдаёт seq и публикует запрос в стрим для воркера
func (uc *SessionUseCase) EnqueueSearch(ctx context.Context, sessionID string, filter domain.SearchFilter) (*domain.SearchRequestedEvent, error) {
	if uc.streamRepo == nil {
		return nil, errors.ErrAsyncSearchDisabled
	}

	seq, filter, err := uc.IssueSearch(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}

	event := &domain.SearchRequestedEvent{
		RequestID: uuid.New(),
		SessionID: sessionID,
		Seq:       seq,
		Filter:    filter,
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamPlacesSearch, event); err != nil {
		uc.logger.Error("Failed to enqueue search", zap.String("session_id", sessionID), zap.Error(err))
		return nil, errors.Wrap(errors.ErrInternalServer, fmt.Errorf("enqueue search: %w", err))
	}

	return event, nil
}

// Focus - выбор элемента списка: фокус карты без нового поиска
func (uc *SessionUseCase) Focus(ctx context.Context, sessionID string, coordinate domain.Coordinate) (*domain.ViewState, error) {
	focus, err := uc.viewSync.Focus(coordinate)
	if err != nil {
		return nil, err
	}

	return uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		s.Focus = &focus
		return nil
	})
}

// TapMarker ищет заведение по маркеру в текущем результате и фокусирует на нём карту.
// Устаревший маркер - (nil, state, nil): состояние не меняется.
func (uc *SessionUseCase) TapMarker(ctx context.Context, sessionID, markerID string) (*domain.NormalizedPlace, *domain.ViewState, error) {
	state, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	var places []domain.NormalizedPlace
	if state.Result != nil {
		places = state.Result.Places
	}

	place, found := uc.viewSync.OnMarkerTap(markerID, places)
	if !found {
		uc.logger.Debug("Marker not found in current results",
			zap.String("session_id", sessionID),
			zap.String("marker_id", markerID))
		return nil, state, nil
	}

	focus, err := uc.viewSync.Focus(place.Coordinate)
	if err != nil {
		return nil, nil, err
	}

	stillShown := false
	state, err = uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		// Между чтением и записью мог примениться новый результат
		_, stillShown = s.Result.FindPlace(markerID)
		if stillShown {
			s.Focus = &focus
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !stillShown {
		return nil, state, nil
	}
	return place, state, nil
}

// ReportMapError - карта не загрузилась: только уведомление, список остаётся
func (uc *SessionUseCase) ReportMapError(ctx context.Context, sessionID, reason string) (*domain.ViewState, error) {
	uc.logger.Warn("Map failed to load",
		zap.String("session_id", sessionID),
		zap.String("reason", reason))

	return uc.sessions.Update(ctx, sessionID, func(s *domain.ViewState) error {
		s.Notice = "Map failed to load, showing the list only"
		return nil
	})
}

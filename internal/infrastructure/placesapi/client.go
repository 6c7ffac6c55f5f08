package placesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/petmap-service/internal/config"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// envelope - общий формат ответа backend: code == 0 означает успех
type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewPlacesClient создает клиент удалённого поиска заведений
func NewPlacesClient(cfg *config.PlacesConfig, logger *zap.Logger) repository.PlaceRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		logger:  logger,
	}
}

// SearchNearby вызывает GET /places/nearby и возвращает сырые записи из data.
// Сетевые и HTTP ошибки - ErrSearchTransport, ненулевой code - ErrSearchApplication.
func (c *client) SearchNearby(ctx context.Context, query repository.NearbyQuery) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(query.Origin.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(query.Origin.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(query.Filter.RadiusMeters))
	if query.Filter.Keyword != "" {
		params.Set("keyword", query.Filter.Keyword)
	}
	if query.Filter.Category != "" {
		params.Set("category", string(query.Filter.Category))
	}

	endpoint := fmt.Sprintf("%s/places/nearby?%s", c.baseURL, params.Encode())

	c.logger.Debug("Calling places nearby API",
		zap.String("url", endpoint),
		zap.Int("radius", query.Filter.RadiusMeters))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, errors.Wrap(errors.ErrSearchTransport, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to execute request", zap.Error(err))
		return nil, errors.Wrap(errors.ErrSearchTransport, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Places API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, errors.Wrap(errors.ErrSearchTransport,
			fmt.Errorf("places API error: status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.Warn("Failed to decode response", zap.Error(err))
		return nil, errors.Wrap(errors.ErrSearchTransport, fmt.Errorf("failed to decode response: %w", err))
	}

	if env.Code != 0 {
		c.logger.Warn("Places API returned non-zero code",
			zap.Int("code", env.Code),
			zap.String("message", env.Message))
		appErr := errors.ErrSearchApplication
		if env.Message != "" {
			appErr = appErr.WithMessage(env.Message)
		}
		return nil, appErr.WithDetails(map[string]interface{}{"code": env.Code})
	}

	if env.Data == nil {
		env.Data = []json.RawMessage{}
	}

	c.logger.Debug("Places API call successful", zap.Int("records", len(env.Data)))

	return env.Data, nil
}

package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidCategory = New(
		"INVALID_CATEGORY",
		"Unknown place category",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Search session not found or expired",
		http.StatusNotFound,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// Нефатальные ошибки пайплайна поиска. До клиента доходят только как notice.
var (
	ErrPermissionDenied = New(
		"PERMISSION_DENIED",
		"Location permission is not granted",
		http.StatusOK,
	)

	ErrLocationUnavailable = New(
		"LOCATION_UNAVAILABLE",
		"Device location is unavailable",
		http.StatusOK,
	)

	ErrSearchTransport = New(
		"SEARCH_TRANSPORT_ERROR",
		"Place search is temporarily unavailable",
		http.StatusBadGateway,
	)

	ErrSearchApplication = New(
		"SEARCH_APPLICATION_ERROR",
		"Place search failed",
		http.StatusBadGateway,
	)

	ErrMalformedRecord = New(
		"MALFORMED_RECORD",
		"Place record has no valid coordinate",
		http.StatusOK,
	)

	ErrStaleResponse = New(
		"STALE_RESPONSE",
		"Search response superseded by a newer search",
		http.StatusOK,
	)

	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"Place not found in current results",
		http.StatusNotFound,
	)
)

var (
	ErrAsyncSearchDisabled = New(
		"ASYNC_SEARCH_DISABLED",
		"Asynchronous search is not configured",
		http.StatusServiceUnavailable,
	)
)

package domain

// PermissionState - состояние доступа к геолокации
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// GuidanceOpenSettings - действие, которое вызывающая сторона предлагает пользователю после отказа
const GuidanceOpenSettings = "open_settings"

// PermissionGuidance - подсказка после отказа в доступе. Навигацию выполняет вызывающая сторона.
type PermissionGuidance struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// LocationSource - откуда взята координата
type LocationSource string

const (
	LocationFromDevice   LocationSource = "device"
	LocationFromFallback LocationSource = "fallback"
)

// DeviceReport - то, что мини-программа сообщает о возможностях устройства в запросе.
// nil-поля означают что соответствующий вызов SDK не выполнялся или не вернул результат.
type DeviceReport struct {
	AuthStatus    *bool       `json:"auth_status,omitempty"`
	AuthError     string      `json:"auth_error,omitempty"`
	PromptResult  *bool       `json:"prompt_result,omitempty"`
	PromptError   string      `json:"prompt_error,omitempty"`
	Coordinate    *Coordinate `json:"coordinate,omitempty"`
	LocationError string      `json:"location_error,omitempty"`
}

package domain

import "errors"

// Domain errors (для бизнес-логики)
var (
	// Snapshot errors
	ErrEmptySnapshot       = errors.New("metrics snapshot is empty")
	ErrInvalidSnapshot     = errors.New("invalid metrics snapshot")
	ErrMonthSeriesMismatch = errors.New("monthly series does not match month labels")
	ErrUnknownOutcome      = errors.New("unknown review outcome")
	ErrSnapshotNotFound    = errors.New("no metrics snapshot published")

	// View errors
	ErrUnknownMount = errors.New("unknown view mount point")
	ErrChartMounted = errors.New("chart already mounted at mount point")

	// Renderer errors
	ErrAlreadyInitialized = errors.New("dashboard already initialized")
	ErrRefreshInProgress  = errors.New("dashboard refresh already in progress")
)

// ProviderError описывает сбой источника метрик (транспорт, авторизация, формат ответа).
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError создает ProviderError с сообщением для пользователя и исходной причиной.
func NewProviderError(message string, cause error) *ProviderError {
	return &ProviderError{Message: message, Err: cause}
}

// HTTPError для JSON-ответов об ошибках
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrRefreshInProgress:   {Code: "REFRESH_IN_PROGRESS", Message: "dashboard refresh already in progress"},
	ErrEmptySnapshot:       {Code: "INVALID_SNAPSHOT", Message: "metrics provider returned no snapshot"},
	ErrInvalidSnapshot:     {Code: "INVALID_SNAPSHOT", Message: "metrics snapshot failed validation"},
	ErrMonthSeriesMismatch: {Code: "INVALID_SNAPSHOT", Message: "monthly series does not match month labels"},
	ErrUnknownOutcome:      {Code: "INVALID_SNAPSHOT", Message: "metrics snapshot has unknown review outcome"},
	ErrSnapshotNotFound:    {Code: "NOT_FOUND", Message: "no metrics snapshot published"},
	ErrUnknownMount:        {Code: "VIEW_MISCONFIGURED", Message: "dashboard view is missing a mount point"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку.
// Обернутые ошибки разворачиваются через errors.Is, прочие ProviderError отдают свое сообщение.
func ToHTTPError(err error) (HTTPError, bool) {
	for domainErr, httpErr := range ErrorMapping {
		if errors.Is(err, domainErr) {
			return httpErr, true
		}
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return HTTPError{Code: "PROVIDER_ERROR", Message: providerErr.Message}, true
	}
	return HTTPError{}, false
}

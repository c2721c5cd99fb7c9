// Package errors defines the application error taxonomy and the policies
// (retry, circuit breaking, reporting) applied to failures.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries both the operator-facing description and the user-facing
// Persian message for a failure.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewQuoteError covers upstream price retrieval failures.
func NewQuoteError(instrument string, cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("quote retrieval failed: %s", instrument),
		UserMessage: "خطا در دریافت اطلاعات قیمت. لطفاً بعداً تلاش کنید.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewRateLimitError covers per-user throttling.
func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     fmt.Sprintf("rate limit exceeded: retry after %d seconds", retryAfter),
		UserMessage: fmt.Sprintf("درخواست‌های شما بیش از حد مجاز است. %d ثانیه دیگر تلاش کنید.", retryAfter),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewInternalError covers unexpected faults recovered by the panic handler.
func NewInternalError(cause error) *AppError {
	var msg string
	if cause != nil {
		msg = cause.Error()
	}

	return &AppError{
		Code:        "E900",
		Message:     fmt.Sprintf("internal error: %s", msg),
		UserMessage: "مشکلی پیش آمد. لطفاً بعداً تلاش کنید.",
		Severity:    SeverityHigh,
		Retryable:   false,
		cause:       cause,
	}
}

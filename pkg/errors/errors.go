package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound               = "NOT_FOUND"
	CodeBadRequest             = "BAD_REQUEST"
	CodeConflict               = "CONFLICT"
	CodeFreeTrial              = "FREE_TRIAL"
	CodeNoSubscription         = "NO_SUBSCRIPTION"
	CodeNothingToRestore       = "NOTHING_TO_RESTORE"
	CodeInsufficientBalance    = "INSUFFICIENT_BALANCE"
	CodeHouseInsufficientFunds = "HOUSE_INSUFFICIENT_FUNDS"
	CodeHouseAccountMissing    = "HOUSE_ACCOUNT_MISSING"
	CodeBelowMinimum           = "BELOW_MINIMUM"
	CodeInvalidEmail           = "INVALID_EMAIL"
	CodeListingLimitReached    = "LISTING_LIMIT_REACHED"
	CodePaymentProcessed       = "PAYMENT_ALREADY_PROCESSED"
	CodeAccountDisabled        = "ACCOUNT_DISABLED"
	CodeTooManyRequests        = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// Domain errors. Each carries a user-facing message that the API returns as-is.

func FreeTrial() *AppError {
	return New(CodeFreeTrial, "Cannot revoke a free trial subscription", http.StatusUnprocessableEntity, nil)
}

func NoSubscription() *AppError {
	return New(CodeNoSubscription, "Host has no subscription", http.StatusUnprocessableEntity, nil)
}

func NothingToRestore() *AppError {
	return New(CodeNothingToRestore, "No previous subscription to restore", http.StatusUnprocessableEntity, nil)
}

func InsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient wallet balance", http.StatusUnprocessableEntity, nil)
}

func HouseInsufficientFunds() *AppError {
	return New(CodeHouseInsufficientFunds, "Payouts are temporarily unavailable, please try again later", http.StatusServiceUnavailable, nil)
}

func HouseAccountMissing() *AppError {
	return New(CodeHouseAccountMissing, "Payout account is not configured", http.StatusServiceUnavailable, nil)
}

func BelowMinimum(min float64) *AppError {
	return New(CodeBelowMinimum, fmt.Sprintf("Minimum withdrawal amount is %.2f", min), http.StatusBadRequest, nil)
}

func InvalidEmail() *AppError {
	return New(CodeInvalidEmail, "Please enter a valid payout email", http.StatusBadRequest, nil)
}

func ListingLimitReached(max int) *AppError {
	return New(CodeListingLimitReached, fmt.Sprintf("Your plan allows %d active listing(s). Upgrade to add more.", max), http.StatusForbidden, nil)
}

func PaymentAlreadyProcessed(paymentID string) *AppError {
	return New(CodePaymentProcessed, fmt.Sprintf("Payment %s has already been credited", paymentID), http.StatusConflict, nil)
}

func AccountDisabled(reason string) *AppError {
	message := "Your account is disabled"
	if reason != "" {
		message += ": " + reason
	}
	return New(CodeAccountDisabled, message, http.StatusForbidden, nil)
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

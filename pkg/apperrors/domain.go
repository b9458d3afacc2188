package apperrors

import "net/http"

// Domain-specific helpers. Domains mirror the service packages.

// --- notifications ---

func NewNotificationNotFound() *AppError {
	return New(CodeNotFound, "notifications", "Notification not found", http.StatusNotFound)
}

func NewNotificationAccessDenied() *AppError {
	return New(CodeForbidden, "notifications", "Notification belongs to another user", http.StatusForbidden)
}

func NewInvalidNotificationType(t string) *AppError {
	return New(CodeValidationFailed, "notifications", "Invalid notification type", http.StatusBadRequest).
		WithDetails(map[string]string{"type": t})
}

// --- users ---

func NewUserNotFound() *AppError {
	return New(CodeNotFound, "users", "User not found", http.StatusNotFound)
}

func NewEmailAlreadyTaken() *AppError {
	return New(CodeAlreadyExists, "users", "Email is already registered", http.StatusConflict)
}

func NewInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}

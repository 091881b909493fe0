package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок:
чат, офферы, уведомления, аутентификация.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidTransition - переход состояния оффера невозможен из текущего статуса.
// Текущий статус кладется в Details, чтобы клиент мог пересинхронизироваться.
func ErrInvalidTransition(message, currentStatus string) *AppError {
	return New(CodeInvalidStatus, "offer", message, http.StatusConflict).
		WithDetails(map[string]string{"current_status": currentStatus})
}

// --- Offers ---

// ErrOwnRequestOffer - владелец запроса пытается сделать оффер на свой же запрос.
var ErrOwnRequestOffer = New(
	CodeInvalidOperation,
	"offer",
	"You cannot make an offer on your own request",
	http.StatusBadRequest,
)

// ErrOfferAccessDenied - вызывающий не является донором/получателем оффера.
var ErrOfferAccessDenied = New(
	CodeForbidden,
	"offer",
	"Only a party to this offer may perform this action",
	http.StatusForbidden,
)

// ErrOfferNotFound - оффер не найден.
var ErrOfferNotFound = New(
	CodeNotFound,
	"offer",
	"Offer not found",
	http.StatusNotFound,
)

// ErrRequestNotFound - запрос на донорство не найден.
var ErrRequestNotFound = New(
	CodeNotFound,
	"request",
	"Donation request not found",
	http.StatusNotFound,
)

// ErrRequestClosed - запрос закрыт, новые офферы не принимаются.
var ErrRequestClosed = New(
	CodeInvalidStatus,
	"request",
	"Donation request is closed",
	http.StatusConflict,
)

// --- Chat ---

// ErrSelfMessage - отправитель и получатель совпадают.
var ErrSelfMessage = New(
	CodeInvalidOperation,
	"chat",
	"Sender and recipient must be different users",
	http.StatusBadRequest,
)

// ErrRecipientNotFound - получатель сообщения не найден.
var ErrRecipientNotFound = New(
	CodeNotFound,
	"chat",
	"Recipient not found",
	http.StatusNotFound,
)

// --- Notifications ---

// ErrNotificationNotFound - уведомление не найдено.
var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)

// ErrNotificationAccessDenied - уведомление принадлежит другому пользователю.
var ErrNotificationAccessDenied = New(
	CodeForbidden,
	"notification",
	"Access to notification denied",
	http.StatusForbidden,
)

// --- Auth & Users ---

// ErrWeakPassword - пароль слишком слабый.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserNotFound - пользователь не найден.
var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

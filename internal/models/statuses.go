package models

// OfferStatus - статус оффера. Переходы только вперед:
// pending -> accepted -> fulfilled -> rated, плюс отмена (удаление) из pending.
type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusFulfilled OfferStatus = "fulfilled"
	OfferStatusRated     OfferStatus = "rated"
)

// RequestKind - вид запроса на донорство (и, соответственно, оффера)
type RequestKind string

const (
	RequestKindBlood   RequestKind = "blood"
	RequestKindGeneral RequestKind = "general"
)

func (k RequestKind) IsValid() bool {
	return k == RequestKindBlood || k == RequestKindGeneral
}

// RequestStatus - статус запроса на донорство
type RequestStatus string

const (
	RequestStatusOpen   RequestStatus = "open"
	RequestStatusClosed RequestStatus = "closed"
)

// OfferRole - роль пользователя в оффере
type OfferRole string

const (
	OfferRoleDonor     OfferRole = "donor"
	OfferRoleRecipient OfferRole = "recipient"
)

// MessageKind - вид сообщения чата
type MessageKind string

const (
	MessageKindText         MessageKind = "text"
	MessageKindBloodOffer   MessageKind = "blood_offer"
	MessageKindGeneralOffer MessageKind = "general_offer"
	MessageKindSystem       MessageKind = "system"
)

func (k MessageKind) IsValid() bool {
	switch k {
	case MessageKindText, MessageKindBloodOffer, MessageKindGeneralOffer, MessageKindSystem:
		return true
	}
	return false
}

// NotificationType - закрытый набор типов уведомлений
type NotificationType string

const (
	NotificationTypeMessage        NotificationType = "message"
	NotificationTypeBloodOffer     NotificationType = "blood_offer"
	NotificationTypeGeneralOffer   NotificationType = "general_offer"
	NotificationTypeOfferAccepted  NotificationType = "offer_accepted"
	NotificationTypeOfferFulfilled NotificationType = "offer_fulfilled"
	NotificationTypeOfferRated     NotificationType = "offer_rated"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeMessage, NotificationTypeBloodOffer, NotificationTypeGeneralOffer,
		NotificationTypeOfferAccepted, NotificationTypeOfferFulfilled, NotificationTypeOfferRated:
		return true
	}
	return false
}

// NotificationTypeForRequestKind - явная таблица соответствия
// вид запроса -> тип уведомления о новом оффере
func NotificationTypeForRequestKind(kind RequestKind) NotificationType {
	switch kind {
	case RequestKindBlood:
		return NotificationTypeBloodOffer
	default:
		return NotificationTypeGeneralOffer
	}
}

// NotificationTypeForMessageKind - вид сообщения -> тип уведомления.
// Обычный текст дает "message", офферные сообщения - более специфичный тип.
func NotificationTypeForMessageKind(kind MessageKind) NotificationType {
	switch kind {
	case MessageKindBloodOffer:
		return NotificationTypeBloodOffer
	case MessageKindGeneralOffer:
		return NotificationTypeGeneralOffer
	default:
		return NotificationTypeMessage
	}
}

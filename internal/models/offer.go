package models

import "time"

// Offer - предложение донора по конкретному запросу.
// Kind копируется из запроса: "кровяные" и "общие" офферы живут в одном
// сторе за закрытым дискриминатором.
// Pending-оффер удаляется при отмене донором; все прочие статусы хранятся
// бессрочно как аудит.
type Offer struct {
	BaseModel
	Kind        RequestKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	RequestID   string      `gorm:"not null;index" json:"request_id"`
	DonorID     string      `gorm:"not null;index" json:"donor_id"`
	RecipientID string      `gorm:"not null;index" json:"recipient_id"` // владелец запроса
	Message     string      `json:"message"`
	ProposedAt  *time.Time  `json:"proposed_at,omitempty"`
	Method      string      `json:"method,omitempty"`
	Status      OfferStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Каждое поле пишет строго одна сторона: RatingByDonor ставит получатель
	// (оценивая донора), RatingByRecipient - донор.
	RatingByDonor     *int `gorm:"check:rating_by_donor IS NULL OR (rating_by_donor >= 1 AND rating_by_donor <= 5)" json:"rating_by_donor,omitempty"`
	RatingByRecipient *int `gorm:"check:rating_by_recipient IS NULL OR (rating_by_recipient >= 1 AND rating_by_recipient <= 5)" json:"rating_by_recipient,omitempty"`

	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`

	Request *DonationRequest `gorm:"foreignKey:RequestID" json:"-"`
	Donor   *User            `gorm:"foreignKey:DonorID" json:"-"`
}

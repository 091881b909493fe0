package models

// DonationRequest - запрос на донорство. Сам CRUD запросов - тонкий:
// модель нужна офферам (проверка владельца, листинг по запросу).
type DonationRequest struct {
	BaseModel
	OwnerID     string        `gorm:"not null;index" json:"owner_id"`
	Kind        RequestKind   `gorm:"type:varchar(20);not null" json:"kind"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `json:"description"`
	City        string        `json:"city"`
	BloodType   string        `json:"blood_type,omitempty"` // только для kind=blood
	Status      RequestStatus `gorm:"type:varchar(20);default:'open'" json:"status"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

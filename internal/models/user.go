package models

// RatingAggregate - денормализованный кеш рейтинга (среднее + количество).
// Никогда не авторитетен: всегда пересчитывается заново из офферов.
type RatingAggregate struct {
	Avg   float64 `gorm:"default:0" json:"avg"`
	Count int     `gorm:"default:0" json:"count"`
}

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `gorm:"not null" json:"display_name"`
	AvatarURL    string `json:"avatar_url"`

	// Агрегаты пишутся только рейтинг-сервисом
	RatingAsDonor     RatingAggregate `gorm:"embedded;embeddedPrefix:rating_donor_" json:"rating_as_donor"`
	RatingAsRecipient RatingAggregate `gorm:"embedded;embeddedPrefix:rating_recipient_" json:"rating_as_recipient"`
}

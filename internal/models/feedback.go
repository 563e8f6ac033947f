package models

import "time"

type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Contact   string    `json:"contact" gorm:"default:''"`
	Title     string    `json:"title" gorm:"default:''"`
	Content   string    `json:"content" gorm:"default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "user_feedbacks"
}

package models

import "time"

type StatusCheck struct {
	ID         string    `gorm:"primary_key" json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `gorm:"column:checked_at" json:"timestamp"`
}

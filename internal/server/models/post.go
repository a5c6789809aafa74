package models

import "time"

// Owner is the author reference populated on read with the email only.
type Owner struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Owner       Owner     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

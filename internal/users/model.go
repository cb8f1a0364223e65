package users

import "time"

// User is a firm member; FirmID scopes everything the user can see.
type User struct {
	ID         string    `json:"id"`
	FirmID     string    `json:"firmId"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

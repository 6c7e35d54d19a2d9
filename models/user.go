package models

// User is the account record issued by the CMS alongside a bearer token.
// This service never sees or stores credentials, only this record.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

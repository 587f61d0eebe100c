package domain

import "time"

type Volunteer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"created_on"`
}

func (v *Volunteer) FullName() string {
	return v.FirstName + " " + v.LastName
}

type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedOn time.Time `json:"created_on"`
}

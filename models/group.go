package models

// Group repräsentiert eine Gruppe. Gruppen werden von dieser API nur gelesen.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

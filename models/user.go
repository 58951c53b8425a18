package models

// User repräsentiert eine Zeile der Tabelle users.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"` // lose Referenz auf Group.ID, kein Fremdschlüssel
}

// UserWithGroup ist das Lesemodell der User-Liste inklusive Gruppenname aus dem LEFT JOIN.
// GroupID ist nil bei Altbeständen ohne Gruppe, GroupName, wenn keine passende Gruppe existiert.
type UserWithGroup struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	GroupID   *int64  `json:"group_id"`
	GroupName *string `json:"group_name"`
}

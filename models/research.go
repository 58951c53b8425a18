package models

// Research repräsentiert einen Eintrag der Tabelle research.
type Research struct {
	ID    int64  `json:"id"`
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
	Name3 string `json:"name3"`
	Name4 string `json:"name4"`
	Name5 string `json:"name5"`
	Name6 string `json:"name6"`
	Name7 string `json:"name7"`
	Name8 string `json:"name8"`
	Name9 string `json:"name9"`
}

// NewResearch erstellt einen Eintrag, bei dem alle neun Namensfelder denselben Wert tragen.
func NewResearch(id int64, value string) Research {
	return Research{
		ID:    id,
		Name1: value,
		Name2: value,
		Name3: value,
		Name4: value,
		Name5: value,
		Name6: value,
		Name7: value,
		Name8: value,
		Name9: value,
	}
}

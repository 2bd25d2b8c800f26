package model

type Role string

const (
	Farmer     Role = "farmer"
	Researcher Role = "researcher"
	Trainer    Role = "trainer"
	Builder    Role = "builder"
)

// Roles in recruitment draw order.
var Roles = []Role{Farmer, Researcher, Trainer, Builder}

// Talent is a recruited helper.
type Talent struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       Role    `json:"role"`
	Level      int     `json:"level"`
	Efficiency float64 `json:"efficiency"`
}

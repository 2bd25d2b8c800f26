package model

type StructureKind string

const (
	PetHouse      StructureKind = "petHouse"
	Farm          StructureKind = "farm"
	Lab           StructureKind = "lab"
	Workshop      StructureKind = "workshop"
	RecruitCenter StructureKind = "recruitCenter"
)

// StructureKinds lists the buildable kinds in menu order.
var StructureKinds = []StructureKind{PetHouse, Farm, Lab, Workshop, RecruitCenter}

func (k StructureKind) Valid() bool {
	for _, v := range StructureKinds {
		if v == k {
			return true
		}
	}
	return false
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Structure is a placed base building. Position is its center.
type Structure struct {
	ID             string        `json:"id"`
	Type           StructureKind `json:"type"`
	Level          int           `json:"level"`
	Position       Position      `json:"position"`
	AssignedTalent string        `json:"assignedTalent,omitempty"`
}

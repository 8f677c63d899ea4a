package db

import "time"

// RecipeRow is a stored recipe header. The id is assigned by the store.
type RecipeRow struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// Instruction is one stored instruction step.
type Instruction struct {
	StepNumber int
	Text       string
}

// Macro is one stored nutrition value.
type Macro struct {
	Name  string
	Value float64
}

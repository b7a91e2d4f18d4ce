package model

// PassageID uniquely identifies a typing passage
type PassageID string

// Passage is a block of text both players race to type
type Passage struct {
	ID     PassageID
	Text   string
	Source string // attribution, may be empty
}

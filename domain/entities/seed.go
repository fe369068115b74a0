package entities

// Seed is the randomness a source produced for one lottery draw
type Seed struct {
	Value  uint64
	Proof  []byte // source specific, empty when the source is not verifiable
	Source string
}

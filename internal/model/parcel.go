package model

import "fmt"

// Parcel identifies a piece of real property by borough, tax block, and lot.
type Parcel struct {
	Borough int `json:"borough"`
	Block   int `json:"block"`
	Lot     int `json:"lot"`
}

// Valid reports whether the parcel carries a usable borough/block/lot triple.
func (p Parcel) Valid() bool {
	return p.Borough >= 1 && p.Borough <= 5 && p.Block > 0 && p.Lot > 0
}

// Key returns the canonical "borough-block-lot" map key.
func (p Parcel) Key() string {
	return fmt.Sprintf("%d-%d-%d", p.Borough, p.Block, p.Lot)
}

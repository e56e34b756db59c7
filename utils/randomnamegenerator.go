package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique human-readable session names for
// clouds uploaded without a file name.
type RandomNameGenerator map[string]int

func (rng *RandomNameGenerator) RandomName() string {
	if *rng == nil {
		*rng = make(map[string]int)
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	name := randomdata.SillyName()
	(*rng)[name]++
	if n := (*rng)[name]; n > 1 {
		return fmt.Sprintf("%s%d", name, n)
	}
	return name
}

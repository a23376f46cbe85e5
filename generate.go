package minext

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// GenOptions controls random instance generation.
type GenOptions struct {
	Population int
	Opinions   int
	// Budget is ct as a fraction of the cost of moving everyone one step.
	Budget float64
	// MaxMoves is maxM; 0 means Population.
	MaxMoves int
	// EmptyRatio is the chance that an opinion starts without people.
	EmptyRatio float64
}

func (o GenOptions) validate() error {
	if o.Population <= 0 {
		return errors.Errorf("population must be positive, got %d", o.Population)
	}
	if o.Opinions <= 0 {
		return errors.Errorf("opinions must be positive, got %d", o.Opinions)
	}
	if o.Budget < 0 {
		return errors.Errorf("budget must not be negative, got %.2f", o.Budget)
	}
	if o.EmptyRatio < 0 || o.EmptyRatio >= 1 {
		return errors.Errorf("empty ratio must be in [0, 1), got %.2f", o.EmptyRatio)
	}
	return nil
}

// GenerateInstance draws a well-formed instance: the population is spread over
// the non-empty opinions, extremism grows towards both ends of the opinion
// scale and moving between distant opinions costs more.
func GenerateInstance(rng *rand.Rand, opts GenOptions) (*Instance, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	m := opts.Opinions
	inst := &Instance{
		N:    opts.Population,
		M:    m,
		P:    make([]int, m),
		Ext:  make([]float64, m),
		Ce:   make([]float64, m),
		C:    make([][]float64, m),
		MaxM: opts.MaxMoves,
	}
	if inst.MaxM == 0 {
		inst.MaxM = opts.Population
	}

	var occupied []int
	for i := 0; i < m; i++ {
		if rng.Float64() >= opts.EmptyRatio {
			occupied = append(occupied, i)
		}
	}
	if len(occupied) == 0 {
		occupied = append(occupied, rng.Intn(m))
	}
	for k := 0; k < opts.Population; k++ {
		inst.P[occupied[rng.Intn(len(occupied))]]++
	}

	step := 0.0
	for i := 0; i < m; i++ {
		if m > 1 {
			// distance from the centre of the scale, in [0, 1]
			inst.Ext[i] = round(math.Abs(2*float64(i)/float64(m-1)-1), 3)
		}
		inst.Ce[i] = round(rng.Float64()*10, 2)
		inst.C[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			if i == j {
				continue
			}
			d := math.Abs(float64(i - j))
			inst.C[i][j] = round(d*(1+rng.Float64()), 2)
			if d == 1 {
				step += inst.C[i][j]
			}
		}
	}
	if m > 1 {
		step /= float64(2 * (m - 1))
	}
	inst.Ct = round(opts.Budget*step*float64(opts.Population), 2)
	return inst, nil
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

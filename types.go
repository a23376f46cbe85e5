package minext

// Instance is one MinExt problem: how many people hold each opinion and what it
// costs to move them around.
type Instance struct {
	N    int         `json:"n" yaml:"n"`
	M    int         `json:"m" yaml:"m"`
	P    []int       `json:"p" yaml:"p"`
	Ext  []float64   `json:"ext" yaml:"ext"`
	Ce   []float64   `json:"ce" yaml:"ce"`
	C    [][]float64 `json:"c" yaml:"c"`
	Ct   float64     `json:"ct" yaml:"ct"`
	MaxM int         `json:"maxM" yaml:"maxM"`
}

// Metrics is what could be mined from the console output of one solver run.
// A nil pointer means the corresponding line was not found.
type Metrics struct {
	TotalExtremism *float64 `json:"extremismo_total" yaml:"extremismo_total"`
	CostUsed       *float64 `json:"costo_usado" yaml:"costo_usado"`
	CostLimit      *float64 `json:"costo_limite" yaml:"costo_limite"`
	MovesUsed      *int     `json:"movimientos_usados" yaml:"movimientos_usados"`
	MovesLimit     *int     `json:"movimientos_limite" yaml:"movimientos_limite"`
	ActiveMoves    int      `json:"num_movimientos_activos" yaml:"num_movimientos_activos"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string `json:"platform" yaml:"platform"`
	CPU      string `json:"cpu" yaml:"cpu"`
	RAM      string `json:"ram" yaml:"ram"`
}

// HasSolution reports whether the run produced an objective value.
func (m Metrics) HasSolution() bool {
	return m.TotalExtremism != nil
}

// CostUsage returns the used budget as a percentage of the limit.
func (m Metrics) CostUsage() (float64, bool) {
	if m.CostUsed == nil || m.CostLimit == nil || *m.CostLimit == 0 {
		return 0, false
	}
	return *m.CostUsed / *m.CostLimit * 100, true
}

// MoveUsage returns the used movements as a percentage of the limit.
func (m Metrics) MoveUsage() (float64, bool) {
	if m.MovesUsed == nil || m.MovesLimit == nil || *m.MovesLimit == 0 {
		return 0, false
	}
	return float64(*m.MovesUsed) / float64(*m.MovesLimit) * 100, true
}

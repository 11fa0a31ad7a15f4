package solver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/trussim/internal/boundary"
	"github.com/san-kum/trussim/internal/matrix"
	"github.com/san-kum/trussim/internal/metrics"
	"github.com/san-kum/trussim/internal/stiffness"
	"github.com/san-kum/trussim/internal/truss"
)

// IllConditioned is the condition number above which a warning is logged.
const IllConditioned = 1e12

type Solver struct {
	model   *truss.Model
	tol     float64
	logger  *log.Logger
	metrics []metrics.Metric

	solved        bool
	displacements []float64
	forces        []float64
	elongations   []float64
	reactions     []float64
	reactionDOFs  []int
	freeDOFs      int
	condition     float64
	metricValues  map[string]float64
}

type Option func(*Solver)

// WithTolerance sets the relative pivot tolerance; see PivotTolerance.
func WithTolerance(tol float64) Option {
	return func(s *Solver) {
		if tol > 0 {
			s.tol = tol
		}
	}
}

// WithLogger routes stage-by-stage debug output to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics replaces the default metric set.
func WithMetrics(ms ...metrics.Metric) Option {
	return func(s *Solver) { s.metrics = ms }
}

func New(model *truss.Model, opts ...Option) *Solver {
	s := &Solver{
		model:   model,
		tol:     matrix.DefaultTolerance,
		logger:  log.New(io.Discard),
		metrics: metrics.Defaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }

// Model returns the truss being solved.
func (s *Solver) Model() *truss.Model { return s.model }

// Solve runs the full pipeline. On failure all previous results are
// discarded so accessors report ErrNotSolved.
func (s *Solver) Solve() error {
	s.reset()
	start := time.Now()

	if err := s.model.Validate(); err != nil {
		return err
	}

	K, err := stiffness.Assemble(s.model)
	if err != nil {
		return err
	}
	s.logger.Debug("assembled global stiffness", "dofs", K.Rows(), "members", s.model.NumMembers())

	sys, err := boundary.Apply(K, s.model)
	if err != nil {
		return err
	}
	s.logger.Debug("applied supports", "free", len(sys.Free), "constrained", len(sys.Constrained))

	reduced := []float64{}
	if sys.K != nil {
		tol := PivotTolerance(sys.K, s.tol)
		s.logger.Debug("eliminating", "pivot_tolerance", tol)
		reduced, err = sys.K.SolveTol(sys.F, tol)
		if err != nil {
			return s.unstable(sys, err)
		}
		s.condition = Condition(sys.K)
		if s.condition > IllConditioned {
			s.logger.Warn("stiffness is ill-conditioned", "cond", s.condition)
		}
	}

	d, err := sys.Expand(reduced, s.model.NumDOF())
	if err != nil {
		return err
	}

	forces, elong, err := memberForces(s.model, d)
	if err != nil {
		return err
	}

	reactions, err := supportReactions(K, sys, d)
	if err != nil {
		return err
	}

	s.displacements = d
	s.forces = forces
	s.elongations = elong
	s.reactions = reactions
	s.reactionDOFs = append([]int(nil), sys.Constrained...)
	s.freeDOFs = len(sys.Free)
	s.solved = true

	s.observe(sys.Load)
	s.logger.Debug("solved", "elapsed", time.Since(start),
		"equilibrium_x", s.metricValues["equilibrium_x"], "equilibrium_y", s.metricValues["equilibrium_y"])
	return nil
}

// PivotTolerance is rel times the largest diagonal entry of K, or rel
// when the diagonal is all zero.
func PivotTolerance(K *matrix.Dense, rel float64) float64 {
	maxDiag := 0.0
	for i := 0; i < K.Rows() && i < K.Cols(); i++ {
		v, _ := K.At(i, i)
		maxDiag = math.Max(maxDiag, math.Abs(v))
	}
	if maxDiag == 0 {
		return rel
	}
	return rel * maxDiag
}

func (s *Solver) reset() {
	s.solved = false
	s.displacements = nil
	s.forces = nil
	s.elongations = nil
	s.reactions = nil
	s.reactionDOFs = nil
	s.freeDOFs = 0
	s.condition = 0
	s.metricValues = nil
}

func (s *Solver) unstable(sys *boundary.System, err error) error {
	var se *matrix.SingularError
	if !errors.As(err, &se) || se.Row >= len(sys.Free) {
		return err
	}
	dof := sys.Free[se.Row]
	axis := "x"
	if dof%2 == 1 {
		axis = "y"
	}
	s.logger.Debug("truss is a mechanism", "node", dof/2, "axis", axis, "pivot", se.Pivot)
	return &UnstableError{DOF: dof, Node: dof / 2, Axis: axis, Wrapped: err}
}

// memberForces projects end displacement differences onto each member axis.
func memberForces(model *truss.Model, d []float64) (forces, elongations []float64, err error) {
	forces = make([]float64, model.NumMembers())
	elongations = make([]float64, model.NumMembers())
	for _, mem := range model.Members() {
		c, s, err := model.DirectionCosines(mem.ID)
		if err != nil {
			return nil, nil, err
		}
		loc := stiffness.Locations(mem)
		du := d[loc[2]] - d[loc[0]]
		dv := d[loc[3]] - d[loc[1]]
		delta := c*du + s*dv
		elongations[mem.ID] = delta
		forces[mem.ID] = mem.Rigidity() / mem.Length * delta
	}
	return forces, elongations, nil
}

// supportReactions evaluates K[I,:] . d - F[I] at every constrained DOF I.
func supportReactions(K *matrix.Dense, sys *boundary.System, d []float64) ([]float64, error) {
	r := make([]float64, len(sys.Constrained))
	for k, I := range sys.Constrained {
		row, err := K.Row(I)
		if err != nil {
			return nil, err
		}
		sum := 0.0
		for j, v := range row {
			sum += v * d[j]
		}
		r[k] = sum - sys.Load[I]
	}
	return r, nil
}

func (s *Solver) observe(load []float64) {
	obs := metrics.Observation{
		Displacements: s.displacements,
		Load:          load,
		Forces:        s.forces,
		Elongations:   s.elongations,
		Reactions:     s.reactions,
		ReactionDOFs:  s.reactionDOFs,
	}
	s.metricValues = make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(obs)
		s.metricValues[m.Name()] = m.Value()
	}
}

// Displacements returns nodal displacements ordered (ux0, uy0, ux1, uy1, ...).
func (s *Solver) Displacements() ([]float64, error) {
	if !s.solved {
		return nil, ErrNotSolved
	}
	return clone(s.displacements), nil
}

// Forces returns member axial forces in member order; tension is positive.
func (s *Solver) Forces() ([]float64, error) {
	if !s.solved {
		return nil, ErrNotSolved
	}
	return clone(s.forces), nil
}

// Reactions returns support reactions in the order of ReactionDOFs.
func (s *Solver) Reactions() ([]float64, error) {
	if !s.solved {
		return nil, ErrNotSolved
	}
	return clone(s.reactions), nil
}

// ReactionDOFs returns the global DOF index of each reaction.
func (s *Solver) ReactionDOFs() ([]int, error) {
	if !s.solved {
		return nil, ErrNotSolved
	}
	return append([]int(nil), s.reactionDOFs...), nil
}

// Result is a self-contained snapshot of a solve.
type Result struct {
	Name          string             `json:"name,omitempty"`
	Nodes         []truss.Node       `json:"nodes"`
	Members       []truss.Member     `json:"members"`
	Displacements []float64          `json:"displacements"`
	Forces        []float64          `json:"forces"`
	Stresses      []float64          `json:"stresses"`
	Reactions     []float64          `json:"reactions"`
	ReactionDOFs  []int              `json:"reaction_dofs"`
	FreeDOFs      int                `json:"free_dofs"`
	Condition     float64            `json:"condition"`
	Metrics       map[string]float64 `json:"metrics"`
}

func (s *Solver) Result() (*Result, error) {
	if !s.solved {
		return nil, ErrNotSolved
	}
	members := s.model.Members()
	stresses := make([]float64, len(members))
	for i, m := range members {
		stresses[i] = s.forces[i] / m.Area
	}
	mv := make(map[string]float64, len(s.metricValues))
	for k, v := range s.metricValues {
		mv[k] = v
	}
	return &Result{
		Name:          s.model.Name,
		Nodes:         s.model.Nodes(),
		Members:       members,
		Displacements: clone(s.displacements),
		Forces:        clone(s.forces),
		Stresses:      stresses,
		Reactions:     clone(s.reactions),
		ReactionDOFs:  append([]int(nil), s.reactionDOFs...),
		FreeDOFs:      s.freeDOFs,
		Condition:     s.condition,
		Metrics:       mv,
	}, nil
}

// NodeDisplacement returns (ux, uy) of node i from a result.
func (r *Result) NodeDisplacement(i int) (float64, float64, error) {
	ix, iy := truss.DOFs(i)
	if i < 0 || iy >= len(r.Displacements) {
		return 0, 0, fmt.Errorf("node %d: %w", i, truss.ErrInvalidReference)
	}
	return r.Displacements[ix], r.Displacements[iy], nil
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

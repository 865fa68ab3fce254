package FEM2D

import (
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/flamefront/utils"
	"github.com/notargets/flamefront/weakform"
)

var ErrNoMatrixForms = errors.New("weak form has no matrix forms to assemble")

/*
DiscreteProblem assembles a WeakForm over one Space per equation. The global unknown
vector stacks the free dofs of each space in equation order.

Elements and boundary edges are split into ParallelDegree partitions. Each partition
collects its contributions privately, then the contributions are summed in partition
order, so the assembled values do not depend on the number of goroutines.
*/
type DiscreteProblem struct {
	WF             *weakform.WeakForm
	Spaces         []*Space
	Mesh           *Mesh
	Offsets        []int
	ParallelDegree int
	ndof           int
	elemPM, edgePM *utils.PartitionMap
	// Gauss points per direction for each form, fixed by the order estimate
	matPoints, vecPoints []int
	volRules             map[int]*Rule
	edgeRules            map[edgeRuleKey]*Rule
	volN                 []int // sorted keys of volRules
	edgeKeys             []edgeRuleKey
}

type edgeRuleKey struct {
	n    int
	side Side
}

type contrib struct {
	i, j int
	val  float64
}

type partitionResult struct {
	volJ, surfJ []contrib
	volR, surfR []contrib
}

func NewDiscreteProblem(wf *weakform.WeakForm, spaces []*Space, ProcLimit int) (dp *DiscreteProblem, err error) {
	if wf == nil {
		err = fmt.Errorf("discrete problem needs a weak form")
		return
	}
	if len(spaces) != wf.NEq {
		err = fmt.Errorf("weak form has %d equations, have %d spaces", wf.NEq, len(spaces))
		return
	}
	dp = &DiscreteProblem{
		WF:        wf,
		Spaces:    spaces,
		Mesh:      spaces[0].Mesh,
		Offsets:   make([]int, len(spaces)),
		volRules:  make(map[int]*Rule),
		edgeRules: make(map[edgeRuleKey]*Rule),
	}
	for eq, sp := range spaces {
		if sp.Mesh != dp.Mesh {
			err = fmt.Errorf("space %d lives on a different mesh than space 0", eq)
			return nil, err
		}
		dp.Offsets[eq] = dp.ndof
		dp.ndof += sp.NDOF()
	}
	if dp.ndof == 0 {
		err = fmt.Errorf("discrete problem has no free degrees of freedom")
		return nil, err
	}
	dp.ParallelDegree = utils.ParallelDegree(ProcLimit, dp.Mesh.K())
	dp.elemPM = utils.NewPartitionMap(dp.ParallelDegree, dp.Mesh.K())
	dp.edgePM = utils.NewPartitionMap(dp.ParallelDegree, len(dp.Mesh.BEdges))
	dp.estimateOrders()
	log.Debugf("discrete problem: %d equations, %d dofs, %d elements, %d goroutines",
		wf.NEq, dp.ndof, dp.Mesh.K(), dp.ParallelDegree)
	return
}

func (dp *DiscreteProblem) NDOF() int { return dp.ndof }

// estimateOrders runs the Ord instantiation of every form once to choose its quadrature.
func (dp *DiscreteProblem) estimateOrders() {
	var (
		wt   = []float64{1}
		uExt = make([]*weakform.Func[weakform.Ord], len(dp.Spaces))
	)
	for eq, sp := range dp.Spaces {
		uExt[eq] = weakform.NewOrdFunc(sp.Order)
	}
	ordExt := func(needs []weakform.FieldName) (ext weakform.Ext[weakform.Ord]) {
		ext = make(weakform.Ext[weakform.Ord], len(needs))
		for _, name := range needs {
			mf, _ := dp.WF.Ext(name)
			ext[name] = weakform.NewOrdFunc(mf.Order())
		}
		return
	}
	addRules := func(n int, key weakform.FormKey) {
		if key.Domain == weakform.Volume {
			if _, ok := dp.volRules[n]; !ok {
				dp.volRules[n] = TensorRule(n)
			}
			return
		}
		for side := Bottom; side < NumSides; side++ {
			if dp.Mesh.Markers[side] != key.Marker {
				continue
			}
			rk := edgeRuleKey{n, side}
			if _, ok := dp.edgeRules[rk]; !ok {
				dp.edgeRules[rk] = EdgeRule(n, side)
			}
		}
	}
	dp.matPoints = make([]int, len(dp.WF.MatrixForms))
	for f, mf := range dp.WF.MatrixForms {
		o := mf.Ord(1, wt, uExt,
			weakform.NewOrdFunc(dp.Spaces[mf.Key.J].Order),
			weakform.NewOrdFunc(dp.Spaces[mf.Key.I].Order),
			ordExt(mf.Needs))
		dp.matPoints[f] = PointsForOrder(o.Order)
		addRules(dp.matPoints[f], mf.Key)
		log.Debugf("%s %s: %s, %d Gauss points", mf.Name, mf.Key, o, dp.matPoints[f])
	}
	dp.vecPoints = make([]int, len(dp.WF.VectorForms))
	for f, vf := range dp.WF.VectorForms {
		o := vf.Ord(1, wt, uExt,
			weakform.NewOrdFunc(dp.Spaces[vf.Key.I].Order),
			ordExt(vf.Needs))
		dp.vecPoints[f] = PointsForOrder(o.Order)
		addRules(dp.vecPoints[f], vf.Key)
		log.Debugf("%s %s: %s, %d Gauss points", vf.Name, vf.Key, o, dp.vecPoints[f])
	}
	for n := range dp.volRules {
		dp.volN = append(dp.volN, n)
	}
	sort.Ints(dp.volN)
	for rk := range dp.edgeRules {
		dp.edgeKeys = append(dp.edgeKeys, rk)
	}
	sort.Slice(dp.edgeKeys, func(i, j int) bool {
		if dp.edgeKeys[i].side != dp.edgeKeys[j].side {
			return dp.edgeKeys[i].side < dp.edgeKeys[j].side
		}
		return dp.edgeKeys[i].n < dp.edgeKeys[j].n
	})
}

// Solutions splits a global vector into one Solution per equation.
func (dp *DiscreteProblem) Solutions(u []float64) (slns []*Solution) {
	slns = make([]*Solution, len(dp.Spaces))
	for eq, sp := range dp.Spaces {
		off := dp.Offsets[eq]
		slns[eq] = VectorToSolution(u[off:off+sp.NDOF()], sp)
	}
	return
}

func (dp *DiscreteProblem) Residual(u []float64) (R []float64, err error) {
	_, R, err = dp.Assemble(u, false, true)
	return
}

func (dp *DiscreteProblem) Jacobian(u []float64) (J utils.CSR, err error) {
	J, _, err = dp.Assemble(u, true, false)
	return
}

// Assemble integrates the matrix forms (withJacobian) and vector forms (withResidual) at u.
func (dp *DiscreteProblem) Assemble(u []float64, withJacobian, withResidual bool) (J utils.CSR, R []float64, err error) {
	if len(u) != dp.ndof {
		err = fmt.Errorf("coefficient vector has length %d, problem has %d dofs", len(u), dp.ndof)
		return
	}
	if withJacobian && !dp.WF.HasMatrixForms() {
		err = ErrNoMatrixForms
		return
	}
	var (
		NP    = dp.ParallelDegree
		slns  = dp.Solutions(u)
		parts = make([]partitionResult, NP)
		g     errgroup.Group
	)
	for np := 0; np < NP; np++ {
		np := np
		g.Go(func() error {
			return dp.assemblePartition(np, slns, withJacobian, withResidual, &parts[np])
		})
	}
	if err = g.Wait(); err != nil {
		return
	}
	if withJacobian {
		dok := utils.NewDOK(dp.ndof, dp.ndof)
		for np := range parts {
			for _, c := range parts[np].volJ {
				dok.AddAt(c.i, c.j, c.val)
			}
		}
		for np := range parts {
			for _, c := range parts[np].surfJ {
				dok.AddAt(c.i, c.j, c.val)
			}
		}
		J = dok.ToCSR()
	}
	if withResidual {
		R = make([]float64, dp.ndof)
		for np := range parts {
			for _, c := range parts[np].volR {
				R[c.i] += c.val
			}
		}
		for np := range parts {
			for _, c := range parts[np].surfR {
				R[c.i] += c.val
			}
		}
	}
	return
}

type batch struct {
	n      int
	pts    *weakform.Points
	wt     []float64
	shapes [4]*weakform.Func[weakform.Real]
	uExt   []*weakform.Func[weakform.Real]
	ext    weakform.Ext[weakform.Real]
}

func (dp *DiscreteProblem) newBatch(k int, rl *Rule, wt []float64, slns []*Solution) (b *batch) {
	b = &batch{
		n:    rl.N,
		pts:  dp.Mesh.points(k, rl),
		wt:   wt,
		uExt: make([]*weakform.Func[weakform.Real], len(slns)),
		ext:  make(weakform.Ext[weakform.Real]),
	}
	for a := 0; a < 4; a++ {
		b.shapes[a] = weakform.NewFunc[weakform.Real](rl.N)
		dp.Mesh.sampleShape(a, b.pts, b.shapes[a])
	}
	for eq, sln := range slns {
		b.uExt[eq] = weakform.NewFunc[weakform.Real](rl.N)
		sln.Sample(b.pts, b.uExt[eq])
	}
	return
}

func (b *batch) need(wf *weakform.WeakForm, names []weakform.FieldName) {
	for _, name := range names {
		if _, ok := b.ext[name]; ok {
			continue
		}
		mf, _ := wf.Ext(name)
		f := weakform.NewFunc[weakform.Real](b.n)
		mf.Sample(b.pts, f)
		b.ext[name] = f
	}
}

func (dp *DiscreteProblem) assemblePartition(np int, slns []*Solution, withJacobian, withResidual bool,
	res *partitionResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("assembling partition %d: %v", np, r)
		}
	}()
	var (
		wf         = dp.WF
		kMin, kMax = dp.elemPM.GetBucketRange(np)
		eMin, eMax = dp.edgePM.GetBucketRange(np)
	)
	accumulate := func(b *batch, k int, matForm func(f int) bool, vecForm func(f int) bool,
		jOut, rOut *[]contrib) {
		if withJacobian {
			for f, mf := range wf.MatrixForms {
				if !matForm(f) {
					continue
				}
				b.need(wf, mf.Needs)
				var (
					dofsI, dofsJ = dp.Spaces[mf.Key.I].ElementDOF(k), dp.Spaces[mf.Key.J].ElementDOF(k)
					offI, offJ   = dp.Offsets[mf.Key.I], dp.Offsets[mf.Key.J]
				)
				for a, i := range dofsI {
					if i < 0 {
						continue
					}
					for bb, j := range dofsJ {
						if j < 0 {
							continue
						}
						val := mf.Value(b.n, b.wt, b.uExt, b.shapes[bb], b.shapes[a], b.ext)
						*jOut = append(*jOut, contrib{offI + i, offJ + j, float64(val)})
					}
				}
			}
		}
		if withResidual {
			for f, vf := range wf.VectorForms {
				if !vecForm(f) {
					continue
				}
				b.need(wf, vf.Needs)
				var (
					dofsI = dp.Spaces[vf.Key.I].ElementDOF(k)
					offI  = dp.Offsets[vf.Key.I]
				)
				for a, i := range dofsI {
					if i < 0 {
						continue
					}
					val := vf.Value(b.n, b.wt, b.uExt, b.shapes[a], b.ext)
					*rOut = append(*rOut, contrib{offI + i, -1, float64(val)})
				}
			}
		}
	}
	for k := kMin; k < kMax; k++ {
		for _, n := range dp.volN {
			var (
				rl = dp.volRules[n]
				b  = dp.newBatch(k, rl, dp.Mesh.volumeWeights(rl), slns)
			)
			accumulate(b, k,
				func(f int) bool {
					return wf.MatrixForms[f].Key.Domain == weakform.Volume && dp.matPoints[f] == n
				},
				func(f int) bool {
					return wf.VectorForms[f].Key.Domain == weakform.Volume && dp.vecPoints[f] == n
				},
				&res.volJ, &res.volR)
		}
	}
	for e := eMin; e < eMax; e++ {
		edge := dp.Mesh.BEdges[e]
		for _, rk := range dp.edgeKeys {
			if rk.side != edge.Side {
				continue
			}
			var (
				n  = rk.n
				rl = dp.edgeRules[rk]
				b  = dp.newBatch(edge.Elem, rl, dp.Mesh.edgeWeights(edge.Side, rl), slns)
			)
			accumulate(b, edge.Elem,
				func(f int) bool {
					key := wf.MatrixForms[f].Key
					return key.Domain == weakform.Surface && key.Marker == edge.Marker && dp.matPoints[f] == n
				},
				func(f int) bool {
					key := wf.VectorForms[f].Key
					return key.Domain == weakform.Surface && key.Marker == edge.Marker && dp.vecPoints[f] == n
				},
				&res.surfJ, &res.surfR)
		}
	}
	return
}

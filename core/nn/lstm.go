package nn

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"petrasense/core/factory"
)

// lstmRUL is a single-layer LSTM with additive temporal attention and a
// two-layer regression head producing non-negative RUL hours.
type lstmRUL struct {
	equipmentType string
	features      []string
	stats         Stats
	hidden        int

	wx    *mat.Dense    // (4H × F)
	wh    *mat.Dense    // (4H × H)
	bias  *mat.VecDense // 4H
	attnW *mat.Dense    // (A × H)
	attnB *mat.VecDense // A
	attnV *mat.VecDense // A
	headW *mat.Dense    // (D × H)
	headB *mat.VecDense // D
	outW  *mat.VecDense // D
	outB  float64

	mu   sync.Mutex
	attn []float64 // attention distribution of the last Score call
}

func loadRUL(conf map[string]any) (Model, error) {
	var ck RULCheckpoint
	if err := factory.Decode(conf, &ck); err != nil {
		return nil, fmt.Errorf("decode rul checkpoint: %w", err)
	}
	return newLSTMRUL(ck)
}

func newLSTMRUL(ck RULCheckpoint) (*lstmRUL, error) {
	h := ck.Hidden
	f := len(ck.Features)
	if h <= 0 || f == 0 {
		return nil, fmt.Errorf("%w: hidden=%d features=%d", ErrShapeMismatch, h, f)
	}
	wx, err := ck.InputWeights.Dense()
	if err != nil {
		return nil, err
	}
	wh, err := ck.HiddenWeights.Dense()
	if err != nil {
		return nil, err
	}
	attnW, err := ck.AttnWeights.Dense()
	if err != nil {
		return nil, err
	}
	headW, err := ck.HeadWeights.Dense()
	if err != nil {
		return nil, err
	}
	if r, c := wx.Dims(); r != 4*h || c != f {
		return nil, fmt.Errorf("%w: input weights %dx%d, want %dx%d", ErrShapeMismatch, r, c, 4*h, f)
	}
	if r, c := wh.Dims(); r != 4*h || c != h {
		return nil, fmt.Errorf("%w: hidden weights %dx%d, want %dx%d", ErrShapeMismatch, r, c, 4*h, h)
	}
	if len(ck.Bias) != 4*h {
		return nil, fmt.Errorf("%w: bias length %d, want %d", ErrShapeMismatch, len(ck.Bias), 4*h)
	}
	a, c := attnW.Dims()
	if c != h || len(ck.AttnBias) != a || len(ck.AttnVector) != a {
		return nil, fmt.Errorf("%w: attention block", ErrShapeMismatch)
	}
	d, c := headW.Dims()
	if c != h || len(ck.HeadBias) != d || len(ck.OutWeights) != d {
		return nil, fmt.Errorf("%w: regression head", ErrShapeMismatch)
	}
	return &lstmRUL{
		equipmentType: ck.EquipmentType,
		features:      ck.Features,
		stats:         NewStats(ck.Means, ck.Stds),
		hidden:        h,
		wx:            wx,
		wh:            wh,
		bias:          mat.NewVecDense(4*h, ck.Bias),
		attnW:         attnW,
		attnB:         mat.NewVecDense(a, ck.AttnBias),
		attnV:         mat.NewVecDense(a, ck.AttnVector),
		headW:         headW,
		headB:         mat.NewVecDense(d, ck.HeadBias),
		outW:          mat.NewVecDense(d, ck.OutWeights),
		outB:          ck.OutBias,
	}, nil
}

func (m *lstmRUL) Kind() Kind            { return KindRUL }
func (m *lstmRUL) EquipmentType() string { return m.equipmentType }
func (m *lstmRUL) Features() []string    { return m.features }
func (m *lstmRUL) Stats() Stats          { return m.stats }

// AttentionWeights returns a copy of the per-timestep attention
// distribution from the last Score call, or nil before any call.
func (m *lstmRUL) AttentionWeights() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attn == nil {
		return nil
	}
	out := make([]float64, len(m.attn))
	copy(out, m.attn)
	return out
}

func (m *lstmRUL) Score(window *mat.Dense) (float64, error) {
	steps, cols := window.Dims()
	if cols != len(m.features) {
		return 0, fmt.Errorf("%w: window has %d features, model wants %d", ErrShapeMismatch, cols, len(m.features))
	}
	h := m.hidden

	hidden := mat.NewVecDense(h, nil)
	cell := mat.NewVecDense(h, nil)
	states := mat.NewDense(steps, h, nil)
	zx := mat.NewVecDense(4*h, nil)
	zh := mat.NewVecDense(4*h, nil)

	for t := 0; t < steps; t++ {
		x := window.RowView(t)
		zx.MulVec(m.wx, x)
		zh.MulVec(m.wh, hidden)
		zx.AddVec(zx, zh)
		zx.AddVec(zx, m.bias)
		for j := 0; j < h; j++ {
			in := sigmoid(zx.AtVec(j))
			fg := sigmoid(zx.AtVec(h + j))
			g := math.Tanh(zx.AtVec(2*h + j))
			out := sigmoid(zx.AtVec(3*h + j))
			c := fg*cell.AtVec(j) + in*g
			cell.SetVec(j, c)
			hidden.SetVec(j, out*math.Tanh(c))
		}
		states.SetRow(t, hidden.RawVector().Data)
	}

	// Additive attention over the hidden state sequence.
	a := m.attnB.Len()
	proj := mat.NewVecDense(a, nil)
	scores := make([]float64, steps)
	for t := 0; t < steps; t++ {
		proj.MulVec(m.attnW, states.RowView(t))
		proj.AddVec(proj, m.attnB)
		var e float64
		for j := 0; j < a; j++ {
			e += m.attnV.AtVec(j) * math.Tanh(proj.AtVec(j))
		}
		scores[t] = e
	}
	softmax(scores)

	context := mat.NewVecDense(h, nil)
	for t := 0; t < steps; t++ {
		context.AddScaledVec(context, scores[t], states.RowView(t))
	}

	d := m.headB.Len()
	u := mat.NewVecDense(d, nil)
	u.MulVec(m.headW, context)
	u.AddVec(u, m.headB)
	y := m.outB
	for j := 0; j < d; j++ {
		y += m.outW.AtVec(j) * relu(u.AtVec(j))
	}
	if y < 0 {
		y = 0
	}

	m.mu.Lock()
	m.attn = scores
	m.mu.Unlock()
	return y, nil
}

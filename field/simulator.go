package field

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Source yields uniform samples in [0, 1).
type Source interface {
	Float32() float32
}

// NewSource returns a PCG-backed Source. A zero seed is replaced by the wall clock.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Simulator owns a fixed pool of star particles stored as three parallel
// buffers indexed by particle id. positions is interleaved x,y,z.
//
// A Simulator is not safe for concurrent use. All mutation is expected to
// happen on the goroutine that calls Tick.
type Simulator struct {
	id  uuid.UUID
	cfg Config
	rng Source

	positions  []float32
	velocities []float32
	sizes      []float32

	clock float32
	frame uint64
	dirty bool
	torn  bool
}

// New allocates cfg.Count particles and scatters them through the spawn cube.
// A nil rng uses NewSource(cfg.Seed).
func New(cfg Config, rng Source) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(cfg.Seed)
	}

	n := cfg.Count
	s := &Simulator{
		id:         uuid.New(),
		cfg:        cfg,
		rng:        rng,
		positions:  make([]float32, n*3),
		velocities: make([]float32, n),
		sizes:      make([]float32, n),
		dirty:      true,
	}

	for i := 0; i < n; i++ {
		i3 := i * 3
		s.positions[i3] = s.spread()
		s.positions[i3+1] = s.spread()
		s.positions[i3+2] = s.spread()

		s.velocities[i] = lerp(cfg.VelocityMin, cfg.VelocityMax, rng.Float32())
		s.sizes[i] = lerp(cfg.SizeMin, cfg.SizeMax, rng.Float32())
	}

	return s, nil
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// spread samples one axis of the spawn cube, [-Bound, Bound).
func (s *Simulator) spread() float32 {
	return (s.rng.Float32() - 0.5) * 2 * s.cfg.Bound
}

// Tick advances every particle toward the viewer by velocity*GlobalSpeed and
// recycles the ones that crossed RespawnDepth. It returns the recycle count.
func (s *Simulator) Tick() int {
	if s.torn {
		return 0
	}

	speed := s.cfg.GlobalSpeed
	respawn := s.cfg.RespawnDepth
	far := s.cfg.FarDepth

	recycled := 0
	for i, v := range s.velocities {
		i3 := i * 3
		// explicit conversion keeps the step from being fused into the add
		s.positions[i3+2] += float32(v * speed)

		if s.positions[i3+2] > respawn {
			s.positions[i3] = s.spread()
			s.positions[i3+1] = s.spread()
			s.positions[i3+2] = far
			recycled++
		}
	}

	s.clock += s.cfg.ClockStep
	s.frame++
	s.dirty = true

	return recycled
}

// Teardown drops the particle buffers. The Simulator is inert afterwards.
func (s *Simulator) Teardown() {
	s.positions = nil
	s.velocities = nil
	s.sizes = nil
	s.dirty = false
	s.torn = true
}

// Apply updates live parameters. The change is rejected as a whole if the
// resulting configuration would be invalid.
func (s *Simulator) Apply(t Tunables) error {
	next := s.cfg
	if t.GlobalSpeed != nil {
		next.GlobalSpeed = *t.GlobalSpeed
	}
	if t.RespawnDepth != nil {
		next.RespawnDepth = *t.RespawnDepth
	}
	if t.FarDepth != nil {
		next.FarDepth = *t.FarDepth
	}
	if t.ClockStep != nil {
		next.ClockStep = *t.ClockStep
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("apply tunables: %w", err)
	}
	s.cfg = next
	return nil
}

// SetGlobalSpeed clamps negative speeds to zero.
func (s *Simulator) SetGlobalSpeed(speed float32) {
	if speed < 0 {
		speed = 0
	}
	s.cfg.GlobalSpeed = speed
}

func (s *Simulator) ID() uuid.UUID        { return s.id }
func (s *Simulator) Config() Config       { return s.cfg }
func (s *Simulator) GlobalSpeed() float32 { return s.cfg.GlobalSpeed }
func (s *Simulator) Len() int             { return len(s.velocities) }
func (s *Simulator) Clock() float32       { return s.clock }
func (s *Simulator) Frame() uint64        { return s.frame }
func (s *Simulator) TornDown() bool       { return s.torn }

// Positions returns the live interleaved x,y,z buffer. Callers must not retain
// it across ticks.
func (s *Simulator) Positions() []float32  { return s.positions }
func (s *Simulator) Velocities() []float32 { return s.velocities }
func (s *Simulator) Sizes() []float32      { return s.sizes }

// Dirty reports whether positions changed since the last ClearDirty.
// Renderers check it before re-uploading the position buffer.
func (s *Simulator) Dirty() bool { return s.dirty }
func (s *Simulator) ClearDirty() { s.dirty = false }

// Position returns particle i as x, y, z.
func (s *Simulator) Position(i int) (float32, float32, float32) {
	i3 := i * 3
	return s.positions[i3], s.positions[i3+1], s.positions[i3+2]
}

// SetPosition places particle i. It exists for scripted scenes and tests;
// the simulation itself only moves particles in Tick.
func (s *Simulator) SetPosition(i int, x, y, z float32) {
	i3 := i * 3
	s.positions[i3] = x
	s.positions[i3+1] = y
	s.positions[i3+2] = z
	s.dirty = true
}

// SetVelocity overrides particle i's forward speed.
func (s *Simulator) SetVelocity(i int, v float32) {
	s.velocities[i] = v
}

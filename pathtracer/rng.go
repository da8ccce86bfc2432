package pathtracer

import "math/rand"

// Sampler draws independent uniform reals. §5 requires a thread-safe
// source; the framebuffer driver satisfies that by handing each worker
// its own Sampler (backed by its own *rand.Rand) rather than sharing one
// across goroutines, so no locking is needed on the hot path.
type Sampler interface {
	// Float32 returns a value in [0,1). Implementations must clamp any
	// out-of-range draw rather than let it propagate (spec §7).
	Float32() float32
}

// randSampler adapts math/rand.Rand to the Sampler interface.
type randSampler struct {
	rnd *rand.Rand
}

// NewSampler returns a Sampler seeded with seed. Render() hands out one
// per worker goroutine, each seeded distinctly, so no two workers share
// generator state.
func NewSampler(seed int64) Sampler {
	return &randSampler{rnd: rand.New(rand.NewSource(seed))}
}

func (s *randSampler) Float32() float32 {
	v := s.rnd.Float32()
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return 0.9999999
	}
	return v
}

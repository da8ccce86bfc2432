package pathtracer

import (
	"runtime"
	"sync"

	"github.com/lumenforge/pathtracer/math"
)

// Framebuffer is the pixel_index -> 3-vector accumulator of §3/§8; pixels
// are stored row-major, (0,0) at the top-left.
type Framebuffer struct {
	Width, Height int
	Pixels        []math.Vec3
}

func newFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]math.Vec3, width*height)}
}

func (f *Framebuffer) At(row, col int) math.Vec3 {
	return f.Pixels[row*f.Width+col]
}

func (f *Framebuffer) set(row, col int, v math.Vec3) {
	f.Pixels[row*f.Width+col] = v
}

// rowTile is a contiguous band of scanlines handed to one worker; each
// worker renders its band fully before picking up the next one, so two
// workers never touch the same framebuffer row.
type rowTile struct {
	startRow, endRow int
}

// Render is the core's single exposed operation: for each pixel, it
// builds spp primary rays, averages their shaded radiance, and writes the
// result to the returned framebuffer. Workers are partitioned by
// disjoint row ranges, each with its own Sampler, so no locking is
// needed on the accumulator or the RNG (§5).
func Render(scene *Scene, spp, maxDepth int) *Framebuffer {
	scene.MaxDepth = maxDepth
	width, height := scene.Camera.Width, scene.Camera.Height
	fb := newFramebuffer(width, height)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 1
	}
	const tileRows = 8

	tileQueue := make(chan rowTile, numWorkers*4)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := NewSampler(int64(workerID)*9781 + 1)
			for tile := range tileQueue {
				renderRows(scene, fb, tile, spp, rng)
			}
		}(w)
	}

	for row := 0; row < height; row += tileRows {
		end := row + tileRows
		if end > height {
			end = height
		}
		tileQueue <- rowTile{startRow: row, endRow: end}
	}
	close(tileQueue)
	wg.Wait()

	return fb
}

func renderRows(scene *Scene, fb *Framebuffer, tile rowTile, spp int, rng Sampler) {
	for row := tile.startRow; row < tile.endRow; row++ {
		for col := 0; col < fb.Width; col++ {
			var sum math.Vec3
			for s := 0; s < spp; s++ {
				ray := scene.Camera.PrimaryRay(row, col)
				sum = sum.Add(Shade(scene, ray, rng))
			}
			fb.set(row, col, sum.Mul(1/float32(spp)))
		}
	}
}

// Package ebitenrender draws meshes onto an ebiten screen. Vertices are
// projected on the CPU and the resulting triangles are submitted with
// DrawTriangles, sorted back to front.
package ebitenrender

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/meshecs/geometry"
	"github.com/milk9111/meshecs/render"
	"golang.org/x/image/colornames"
)

const (
	DefaultMaxBufferBytes = 1_000_000

	// ebiten takes uint16 indices, so one submission holds at most this many
	// vertices. It is a multiple of 3.
	maxBatchVertices = 65535
)

type Options struct {
	Width, Height int
	Camera        render.Camera
	Clear         color.Color
	// MaxBufferBytes bounds the bytes held per buffer usage.
	MaxBufferBytes int
	WaveAmplitude  float32
	WaveSpeed      float32
}

type buffer struct {
	usage    render.BufferUsage
	size     int
	vertices []geometry.Vertex
	indices  []uint16
}

type triangle struct {
	vertices [3]ebiten.Vertex
	depth    float32
}

type Renderer struct {
	mu sync.Mutex

	opts     Options
	camera   render.Camera
	clear    color.Color
	width    int
	height   int
	time     float32
	uniforms render.GlobalUniforms

	next    render.BufferHandle
	buffers map[render.BufferHandle]*buffer
	used    map[render.BufferUsage]int

	screen *ebiten.Image
	queue  []triangle
	white  *ebiten.Image
}

var _ render.Renderer = (*Renderer)(nil)

func New(opts Options) *Renderer {
	if opts.MaxBufferBytes <= 0 {
		opts.MaxBufferBytes = DefaultMaxBufferBytes
	}
	if opts.Clear == nil {
		opts.Clear = colornames.Midnightblue
	}
	if opts.Camera.FOV == 0 {
		opts.Camera = render.DefaultCamera()
	}
	if opts.WaveAmplitude == 0 {
		opts.WaveAmplitude = 0.05
	}
	if opts.WaveSpeed == 0 {
		opts.WaveSpeed = 3
	}

	r := &Renderer{
		opts:    opts,
		camera:  opts.Camera,
		clear:   opts.Clear,
		width:   opts.Width,
		height:  opts.Height,
		buffers: make(map[render.BufferHandle]*buffer),
		used:    make(map[render.BufferUsage]int),
	}
	r.uniforms = r.camera.Uniforms(r.width, r.height, 0)
	return r
}

func (r *Renderer) SetCamera(c render.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = c
}

func (r *Renderer) SetClear(c color.Color) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear = c
}

// SetTime sets the time in seconds used by the next frame's uniforms.
func (r *Renderer) SetTime(t float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.time = t
}

func (r *Renderer) ViewportSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Renderer) GlobalUniforms() render.GlobalUniforms {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniforms
}

// Used returns the bytes currently held for a usage.
func (r *Renderer) Used(usage render.BufferUsage) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used[usage]
}

func (r *Renderer) CreateBuffer(label string, usage render.BufferUsage, data []byte) (render.BufferHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.used[usage]+len(data) > r.opts.MaxBufferBytes {
		return 0, fmt.Errorf("ebitenrender: %s %s buffer of %d bytes (%d in use): %w",
			label, usage, len(data), r.used[usage], render.ErrOutOfMemory)
	}

	b := &buffer{usage: usage, size: len(data)}
	var err error
	switch usage {
	case render.BufferUsageVertex:
		b.vertices, err = geometry.DecodeVertices(data)
	case render.BufferUsageIndex:
		b.indices, err = geometry.DecodeIndices(data)
	default:
		err = fmt.Errorf("unknown usage %d", usage)
	}
	if err != nil {
		return 0, fmt.Errorf("ebitenrender: %s: %w", label, err)
	}

	r.next++
	r.buffers[r.next] = b
	r.used[usage] += b.size
	return r.next, nil
}

func (r *Renderer) DestroyBuffer(h render.BufferHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[h]
	if !ok {
		return
	}
	r.used[b.usage] -= b.size
	delete(r.buffers, h)
}

// BeginFrame targets screen for the following draws and clears it.
func (r *Renderer) BeginFrame(screen *ebiten.Image) error {
	if screen == nil || screen.Bounds().Empty() {
		return render.ErrSurfaceUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	size := screen.Bounds().Size()
	r.width, r.height = size.X, size.Y
	r.uniforms = r.camera.Uniforms(r.width, r.height, r.time)
	r.screen = screen
	r.queue = r.queue[:0]
	screen.Fill(r.clear)
	return nil
}

func (r *Renderer) DrawIndexed(cmd render.DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil {
		return render.ErrSurfaceUnavailable
	}

	vb, ok := r.buffers[cmd.VertexBuffer]
	if !ok || vb.usage != render.BufferUsageVertex {
		return fmt.Errorf("ebitenrender: vertex buffer %d: %w", cmd.VertexBuffer, render.ErrUnknownBuffer)
	}
	ib, ok := r.buffers[cmd.IndexBuffer]
	if !ok || ib.usage != render.BufferUsageIndex {
		return fmt.Errorf("ebitenrender: index buffer %d: %w", cmd.IndexBuffer, render.ErrUnknownBuffer)
	}
	if int(cmd.IndexCount) > len(ib.indices) {
		return fmt.Errorf("ebitenrender: index count %d exceeds buffer of %d", cmd.IndexCount, len(ib.indices))
	}

	p := projector{
		mvp:       r.uniforms.Projection.Mul4(r.uniforms.View).Mul4(cmd.Model),
		model:     cmd.Model,
		time:      r.uniforms.Time[0],
		amplitude: r.opts.WaveAmplitude,
		speed:     r.opts.WaveSpeed,
		width:     float32(r.width),
		height:    float32(r.height),
	}

	indices := ib.indices[:cmd.IndexCount]
	for i := 0; i+2 < len(indices); i += 3 {
		var corners [3]geometry.Vertex
		valid := true
		for k := range corners {
			idx := int(indices[i+k])
			if idx >= len(vb.vertices) {
				valid = false
				break
			}
			corners[k] = vb.vertices[idx]
		}
		if !valid {
			return fmt.Errorf("ebitenrender: index out of range for %d vertices", len(vb.vertices))
		}
		if tri, ok := p.project(corners); ok {
			r.queue = append(r.queue, tri)
		}
	}
	return nil
}

// EndFrame submits the queued triangles far to near and releases the screen.
func (r *Renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil {
		return render.ErrSurfaceUnavailable
	}
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	sort.SliceStable(r.queue, func(i, j int) bool {
		return r.queue[i].depth > r.queue[j].depth
	})

	for start := 0; start < len(r.queue); {
		end := min(start+maxBatchVertices/3, len(r.queue))
		vertices := make([]ebiten.Vertex, 0, (end-start)*3)
		indices := make([]uint16, 0, (end-start)*3)
		for _, tri := range r.queue[start:end] {
			for _, v := range tri.vertices {
				indices = append(indices, uint16(len(vertices)))
				vertices = append(vertices, v)
			}
		}
		r.screen.DrawTriangles(vertices, indices, r.white, &ebiten.DrawTrianglesOptions{})
		start = end
	}

	r.queue = r.queue[:0]
	r.screen = nil
	return nil
}

// Queued returns the number of triangles waiting for EndFrame.
func (r *Renderer) Queued() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

var lightDir = mgl32.Vec3{0.3, 1, 0.5}.Normalize()

type projector struct {
	mvp       mgl32.Mat4
	model     mgl32.Mat4
	time      float32
	amplitude float32
	speed     float32
	width     float32
	height    float32
}

func (p projector) displace(v geometry.Vertex) mgl32.Vec3 {
	pos := v.Position
	if v.Wave {
		pos[1] += p.amplitude * float32(math.Sin(float64(p.time*p.speed+pos[0]*8)))
	}
	return pos
}

// project maps a triangle to screen space. ok is false when any corner lies
// behind the camera.
func (p projector) project(corners [3]geometry.Vertex) (triangle, bool) {
	var tri triangle
	var world [3]mgl32.Vec3

	for k, v := range corners {
		pos := p.displace(v)
		world[k] = geometry.TransformPoint(p.model, pos)

		clip := p.mvp.Mul4x1(pos.Vec4(1))
		if clip.W() <= 1e-6 {
			return triangle{}, false
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		tri.depth += ndc.Z() / 3
		tri.vertices[k] = ebiten.Vertex{
			DstX: (ndc.X() + 1) / 2 * p.width,
			DstY: (1 - ndc.Y()) / 2 * p.height,
			SrcX: 1,
			SrcY: 1,
		}
	}

	shade := float32(1)
	normal := world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))
	if normal.Len() > 0 {
		shade = 0.35 + 0.65*float32(math.Abs(float64(normal.Normalize().Dot(lightDir))))
	}
	for k, v := range corners {
		tri.vertices[k].ColorR = v.Color.X() * shade
		tri.vertices[k].ColorG = v.Color.Y() * shade
		tri.vertices[k].ColorB = v.Color.Z() * shade
		tri.vertices[k].ColorA = 1
	}
	return tri, true
}

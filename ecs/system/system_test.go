package system

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/meshecs/ecs"
	"github.com/milk9111/meshecs/ecs/component"
	"github.com/milk9111/meshecs/geometry"
	"github.com/milk9111/meshecs/render"
	"github.com/milk9111/meshecs/render/headless"
)

func newWorld() *ecs.World {
	return ecs.NewWorld(ecs.WithLogger(log.New(io.Discard, "", 0)))
}

func mustAdd(t *testing.T, w *ecs.World, e ecs.Entity, c component.Component) {
	t.Helper()
	if err := w.AddComponent(e, c); err != nil {
		t.Fatalf("add %s: %v", c.Kind(), err)
	}
}

func cubeEntity(t *testing.T, w *ecs.World, position mgl32.Vec3) (ecs.Entity, *component.Transform, *component.Mesh, *component.Collider) {
	t.Helper()
	e := w.CreateEntity()
	tr := component.NewTransform(position, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	vertices, indices := geometry.Cube(2, mgl32.Vec3{1, 1, 1})
	mesh := component.NewMesh(vertices, indices)
	col := component.NewCollider()
	mustAdd(t, w, e, tr)
	mustAdd(t, w, e, mesh)
	mustAdd(t, w, e, col)
	return e, tr, mesh, col
}

func TestMovementSystem(t *testing.T) {
	tests := []struct {
		name         string
		velocity     mgl32.Vec3
		acceleration mgl32.Vec3
		dt           float32
		wantPosition mgl32.Vec3
		wantVelocity mgl32.Vec3
	}{
		{"euler_step", mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}, 1, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, -1, 0}},
		{"half_step", mgl32.Vec3{0, -1, 0}, mgl32.Vec3{}, 0.5, mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{0, -1, 0}},
		{"zero_dt", mgl32.Vec3{3, 3, 3}, mgl32.Vec3{1, 1, 1}, 0, mgl32.Vec3{}, mgl32.Vec3{3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			e := w.CreateEntity()
			tr := component.IdentityTransform()
			mv := component.NewMovement(tt.velocity, tt.acceleration)
			mustAdd(t, w, e, tr)
			mustAdd(t, w, e, mv)

			w.Advance(tt.dt)
			if err := NewMovementSystem().Run(w, nil); err != nil {
				t.Fatalf("run: %v", err)
			}

			if !near(tr.Position, tt.wantPosition) {
				t.Fatalf("position = %v, want %v", tr.Position, tt.wantPosition)
			}
			if !near(mv.Velocity, tt.wantVelocity) {
				t.Fatalf("velocity = %v, want %v", mv.Velocity, tt.wantVelocity)
			}
			if !near(tr.Apply(mgl32.Vec3{}), tt.wantPosition) {
				t.Fatalf("model matrix not updated")
			}
		})
	}
}

func TestMovementSkipsIncompleteEntities(t *testing.T) {
	w := newWorld()

	still := w.CreateEntity()
	tr := component.NewTransform(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	mustAdd(t, w, still, tr)

	bodiless := w.CreateEntity()
	mv := component.NewMovement(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	mustAdd(t, w, bodiless, mv)

	w.Advance(1)
	if err := NewMovementSystem().Run(w, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if tr.Position != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("transform without movement moved to %v", tr.Position)
	}
	if mv.Velocity != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("movement without transform was integrated: %v", mv.Velocity)
	}
}

func TestMovementInvalidatesCollider(t *testing.T) {
	w := newWorld()
	e, _, _, col := cubeEntity(t, w, mgl32.Vec3{})
	mustAdd(t, w, e, component.NewMovement(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}))

	collision := NewCollisionSystem()
	if err := collision.Run(w, nil); err != nil {
		t.Fatalf("collision: %v", err)
	}
	if col.NeedsAABBUpdate || col.NeedsOBBUpdate {
		t.Fatalf("collision did not clear dirty flags")
	}

	w.Advance(1)
	if err := NewMovementSystem().Run(w, nil); err != nil {
		t.Fatalf("movement: %v", err)
	}
	if !col.NeedsAABBUpdate || !col.NeedsOBBUpdate {
		t.Fatalf("movement did not invalidate the collider")
	}
}

func TestCollisionRecomputesBounds(t *testing.T) {
	w := newWorld()
	_, tr, _, col := cubeEntity(t, w, mgl32.Vec3{})
	collision := NewCollisionSystem()

	if err := collision.Run(w, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if col.AABB == nil || !near(col.AABB.Min, mgl32.Vec3{-1, -1, -1}) || !near(col.AABB.Max, mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("initial aabb = %+v", col.AABB)
	}
	if col.OBB == nil || !near(col.OBB.HalfExtents, mgl32.Vec3{1, 1, 1}) || !near(col.OBB.Center, mgl32.Vec3{}) {
		t.Fatalf("initial obb = %+v", col.OBB)
	}

	tr.Translate(mgl32.Vec3{5, 0, 0})
	col.InvalidateBounds()
	if err := collision.Run(w, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !near(col.AABB.Min, mgl32.Vec3{4, -1, -1}) || !near(col.AABB.Max, mgl32.Vec3{6, 1, 1}) {
		t.Fatalf("translated aabb = %v..%v", col.AABB.Min, col.AABB.Max)
	}
	if !near(col.OBB.Center, mgl32.Vec3{5, 0, 0}) {
		t.Fatalf("translated obb center = %v", col.OBB.Center)
	}

	// clean colliders are left alone
	stale := col.AABB
	tr.Translate(mgl32.Vec3{100, 0, 0})
	if err := collision.Run(w, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if col.AABB != stale {
		t.Fatalf("aabb recomputed without a dirty flag")
	}
}

func TestCollisionPairHook(t *testing.T) {
	w := newWorld()
	a, _, _, _ := cubeEntity(t, w, mgl32.Vec3{})
	b, _, _, _ := cubeEntity(t, w, mgl32.Vec3{1, 0, 0})
	c, _, _, _ := cubeEntity(t, w, mgl32.Vec3{10, 0, 0})
	w.CreateEntity()

	collision := NewCollisionSystem()
	if err := collision.Run(w, nil); err != nil {
		t.Fatalf("inert run: %v", err)
	}

	type pair struct{ a, b ecs.Entity }
	var pairs []pair
	var overlapping int
	collision.OnPair = func(w *ecs.World, x, y ecs.Entity) {
		pairs = append(pairs, pair{x, y})
		cx, _ := ecs.Get(w, x, component.ColliderComponent)
		cy, _ := ecs.Get(w, y, component.ColliderComponent)
		if cx.AABB.Intersects(*cy.AABB) {
			overlapping++
		}
	}
	if err := collision.Run(w, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []pair{{a, b}, {a, c}, {b, c}}
	if len(pairs) != len(want) {
		t.Fatalf("pairs = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("pairs = %v, want %v", pairs, want)
		}
	}
	if overlapping != 1 {
		t.Fatalf("overlapping pairs = %d, want 1", overlapping)
	}
}

func TestTransformSystemPicksUpFieldWrites(t *testing.T) {
	w := newWorld()
	e := w.CreateEntity()
	tr := component.IdentityTransform()
	mustAdd(t, w, e, tr)

	tr.Position = mgl32.Vec3{0, 3, 0}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	if err := NewTransformSystem().Run(w, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := tr.Apply(mgl32.Vec3{1, 0, 0}); !near(got, mgl32.Vec3{2, 3, 0}) {
		t.Fatalf("Apply = %v", got)
	}
}

func TestMeshBufferUploadsOncePerChange(t *testing.T) {
	w := newWorld()
	_, _, mesh, _ := cubeEntity(t, w, mgl32.Vec3{})
	r := headless.New(640, 480)
	buffering := NewMeshBufferSystem()

	for i := 0; i < 3; i++ {
		if err := buffering.Run(w, r); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	uploads := r.Uploads()
	if len(uploads) != 2 {
		t.Fatalf("uploads = %d, want 2", len(uploads))
	}
	if uploads[0].Usage != render.BufferUsageVertex || uploads[0].Size != 8*geometry.VertexSize {
		t.Fatalf("vertex upload = %+v", uploads[0])
	}
	if uploads[1].Usage != render.BufferUsageIndex || uploads[1].Size != 36*geometry.IndexSize {
		t.Fatalf("index upload = %+v", uploads[1])
	}
	if mesh.NeedsUpload || !mesh.HasBuffers() || mesh.IndexCount != 36 {
		t.Fatalf("mesh after upload = %+v", mesh)
	}

	data, ok := r.Buffer(mesh.VertexBuffer)
	if !ok {
		t.Fatalf("vertex buffer missing")
	}
	decoded, err := geometry.DecodeVertices(data)
	if err != nil || decoded[7] != mesh.Vertices[7] {
		t.Fatalf("uploaded payload does not match mesh: %v", err)
	}

	oldVB, oldIB := mesh.VertexBuffer, mesh.IndexBuffer
	v, i := geometry.GroundQuad(mgl32.Vec3{0, 1, 0})
	mesh.Update(v, i)
	if err := buffering.Run(w, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(r.Uploads()) != 4 || mesh.IndexCount != 6 {
		t.Fatalf("re-upload: %d uploads, index count %d", len(r.Uploads()), mesh.IndexCount)
	}
	destroyed := r.Destroyed()
	if len(destroyed) != 2 || destroyed[0] != oldVB || destroyed[1] != oldIB {
		t.Fatalf("stale buffers not released: %v", destroyed)
	}
	if r.Live() != 2 {
		t.Fatalf("live buffers = %d, want 2", r.Live())
	}
}

func TestMeshBufferEmptyPayload(t *testing.T) {
	w := newWorld()
	e := w.CreateEntity()
	mesh := component.NewMesh(nil, nil)
	mustAdd(t, w, e, mesh)
	r := headless.New(640, 480)

	if err := NewMeshBufferSystem().Run(w, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(r.Uploads()) != 0 || mesh.NeedsUpload || mesh.HasBuffers() {
		t.Fatalf("empty mesh uploaded or left dirty: %+v", mesh)
	}
}

func TestMeshBufferReleasesRemovedMeshes(t *testing.T) {
	w := newWorld()
	e, _, _, _ := cubeEntity(t, w, mgl32.Vec3{})
	other, _, _, _ := cubeEntity(t, w, mgl32.Vec3{3, 0, 0})
	r := headless.New(640, 480)
	buffering := NewMeshBufferSystem()

	if err := buffering.Run(w, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.Live() != 4 {
		t.Fatalf("live = %d, want 4", r.Live())
	}

	w.RemoveEntity(e)
	w.RemoveComponent(other, component.KindMesh)
	if buffering.Pending() != 4 {
		t.Fatalf("pending = %d, want 4", buffering.Pending())
	}
	if err := buffering.Run(w, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.Live() != 0 || buffering.Pending() != 0 {
		t.Fatalf("live = %d pending = %d after release", r.Live(), buffering.Pending())
	}
}

func TestMeshBufferFollowsOneWorld(t *testing.T) {
	first := newWorld()
	oldCube, _, _, _ := cubeEntity(t, first, mgl32.Vec3{})
	leftover, _, _, _ := cubeEntity(t, first, mgl32.Vec3{2, 0, 0})
	second := newWorld()
	cubeEntity(t, second, mgl32.Vec3{})
	r := headless.New(640, 480)
	buffering := NewMeshBufferSystem()

	if err := buffering.Run(first, r); err != nil {
		t.Fatalf("run first: %v", err)
	}
	first.RemoveEntity(leftover)
	if buffering.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", buffering.Pending())
	}

	if err := buffering.Run(second, r); err != nil {
		t.Fatalf("run second: %v", err)
	}
	if buffering.Pending() != 0 {
		t.Fatalf("switching worlds left %d queued buffers", buffering.Pending())
	}
	if r.Live() != 4 {
		t.Fatalf("live = %d, want 4", r.Live())
	}

	first.RemoveEntity(oldCube)
	if buffering.Pending() != 0 {
		t.Fatalf("detached world still queues removals: pending = %d", buffering.Pending())
	}
}

func TestMeshBufferErrors(t *testing.T) {
	tests := []struct {
		name      string
		fail      error
		wantFatal bool
	}{
		{"out_of_memory", render.ErrOutOfMemory, true},
		{"device_lost", render.ErrDeviceLost, true},
		{"transient", errors.New("queue busy"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			_, _, mesh, _ := cubeEntity(t, w, mgl32.Vec3{})
			w.AddUpdateSystem(NewMeshBufferSystem())
			r := headless.New(640, 480)
			r.FailNext(tt.fail)

			err := w.RunUpdateSystems(r)
			if tt.wantFatal {
				if !errors.Is(err, tt.fail) || !render.IsFatal(err) {
					t.Fatalf("got %v, want fatal %v", err, tt.fail)
				}
				return
			}
			if err != nil {
				t.Fatalf("transient failure surfaced: %v", err)
			}
			if !mesh.NeedsUpload {
				t.Fatalf("failed upload cleared the dirty flag")
			}
			if err := w.RunUpdateSystems(r); err != nil {
				t.Fatalf("retry: %v", err)
			}
			if mesh.NeedsUpload || !mesh.HasBuffers() {
				t.Fatalf("retry did not upload")
			}
		})
	}
}

func TestMeshRenderSystem(t *testing.T) {
	w := newWorld()
	_, tr, mesh, _ := cubeEntity(t, w, mgl32.Vec3{0, 1, 0})

	unrendered := w.CreateEntity()
	v, i := geometry.GroundQuad(mgl32.Vec3{})
	mustAdd(t, w, unrendered, component.NewMesh(v, i))

	r := headless.New(640, 480)
	if err := NewMeshBufferSystem().Run(w, r); err != nil {
		t.Fatalf("buffer: %v", err)
	}
	if err := NewMeshRenderSystem().Run(w, r); err != nil {
		t.Fatalf("render: %v", err)
	}

	draws := r.Draws()
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1 (mesh without transform is skipped)", len(draws))
	}
	if draws[0].IndexCount != mesh.IndexCount || draws[0].VertexBuffer != mesh.VertexBuffer || draws[0].Model != tr.Model {
		t.Fatalf("draw = %+v", draws[0])
	}
}

func TestMeshRenderErrors(t *testing.T) {
	w := newWorld()
	_, _, mesh, _ := cubeEntity(t, w, mgl32.Vec3{})
	r := headless.New(640, 480)
	if err := NewMeshBufferSystem().Run(w, r); err != nil {
		t.Fatalf("buffer: %v", err)
	}
	draw := NewMeshRenderSystem()

	r.FailNext(render.ErrSurfaceUnavailable)
	if err := draw.Run(w, r); err != nil {
		t.Fatalf("surface unavailable surfaced: %v", err)
	}

	r.DestroyBuffer(mesh.VertexBuffer)
	if err := draw.Run(w, r); err != nil {
		t.Fatalf("stale buffer surfaced: %v", err)
	}
	if !mesh.NeedsUpload || mesh.HasBuffers() {
		t.Fatalf("stale buffer did not schedule a re-upload")
	}

	if err := NewMeshBufferSystem().Run(w, r); err != nil {
		t.Fatalf("buffer: %v", err)
	}
	r.FailNext(render.ErrDeviceLost)
	if err := draw.Run(w, r); !errors.Is(err, render.ErrDeviceLost) {
		t.Fatalf("got %v, want ErrDeviceLost", err)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range append(append([]string{}, DefaultUpdate...), DefaultDraw...) {
		if _, _, err := New(name); err != nil {
			t.Fatalf("default system %q: %v", name, err)
		}
	}
	if len(Names()) != 5 {
		t.Fatalf("names = %v", Names())
	}

	tests := []struct {
		name    string
		update  []string
		draw    []string
		wantErr bool
	}{
		{"defaults", DefaultUpdate, DefaultDraw, false},
		{"unknown", []string{"gravity"}, nil, true},
		{"wrong_phase", []string{"mesh_render"}, nil, true},
		{"draw_in_update", nil, []string{"movement"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			err := Register(w, tt.update, tt.draw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && (len(w.UpdateSystems()) != 0 || len(w.DrawSystems()) != 0) {
				t.Fatalf("failed Register left systems behind")
			}
			if !tt.wantErr && (len(w.UpdateSystems()) != len(tt.update) || len(w.DrawSystems()) != len(tt.draw)) {
				t.Fatalf("registered %d/%d systems", len(w.UpdateSystems()), len(w.DrawSystems()))
			}
		})
	}
}

func TestReleaseWorld(t *testing.T) {
	w := newWorld()
	_, _, mesh, _ := cubeEntity(t, w, mgl32.Vec3{})
	gone, _, _, _ := cubeEntity(t, w, mgl32.Vec3{})
	buffering := NewMeshBufferSystem()
	w.AddUpdateSystem(buffering)
	r := headless.New(640, 480)

	if err := w.RunUpdateSystems(r); err != nil {
		t.Fatalf("update: %v", err)
	}
	w.RemoveEntity(gone)

	ReleaseWorld(w, r)
	if r.Live() != 0 {
		t.Fatalf("live = %d after release", r.Live())
	}
	if !mesh.NeedsUpload || mesh.HasBuffers() {
		t.Fatalf("released mesh not marked for upload")
	}
}

func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-4
}

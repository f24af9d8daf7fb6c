// Package fih is a small 3D aquarium: the player steers a fish around a
// glass tank seen from a chase camera, among schooling fish, seaweed and a
// treasure chest that bubbles.
package fih

import (
	"math"
	"math/rand/v2"
)

// Tank dimensions in world units, centred on the origin.
const (
	TankW = 24.0
	TankH = 16.0
	TankD = 24.0
)

const (
	camDist      = 8.0
	startPitch   = 0.2
	pitchLimit   = 0.78
	moveSpeed    = 6.0
	vertSpeed    = 5.0
	damping      = 0.85
	npcCount     = 4
	bubbleChance = 0.15
	maxBubbles   = 30
	seaweedCount = 5

	// holdSeconds keeps a pressed key active until the terminal's key
	// repeat delivers the next press.
	holdSeconds = 0.2
)

// Vec3 is a point or direction in world space. Y points up.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Len() float64 { return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z) }
func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Len() }
func (a Vec3) Norm() Vec3 {
	l := a.Len()
	if l < 0.0001 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Camera is a yaw/pitch camera placed behind the player.
type Camera struct {
	Pos   Vec3
	Yaw   float64
	Pitch float64
}

// ToCamera transforms a world point into camera space, where +Z is forward.
func (c Camera) ToCamera(p Vec3) Vec3 {
	d := p.Sub(c.Pos)
	cy, sy := math.Cos(-c.Yaw), math.Sin(-c.Yaw)
	cp, sp := math.Cos(-c.Pitch), math.Sin(-c.Pitch)
	rx := d.X*cy + d.Z*sy
	rz := -d.X*sy + d.Z*cy
	ry := d.Y
	return Vec3{X: rx, Y: ry*cp - rz*sp, Z: ry*sp + rz*cp}
}

// Action is a movement the player can hold.
type Action int

const (
	Forward Action = iota
	Back
	Left
	Right
	Rise
	Sink
	numActions
)

// Player is the steered fish.
type Player struct {
	Pos         Vec3
	Vel         Vec3
	FacingRight bool
}

// NPC is a fish that swims between random targets.
type NPC struct {
	Pos         Vec3
	Target      Vec3
	Speed       float64
	Species     int
	FacingRight bool
	wait        float64
}

// Bubble rises from the chest and pops at the surface.
type Bubble struct {
	Pos   Vec3
	Speed float64
	Drift float64
	Size  float64
}

// Seaweed is a stalk rooted on the tank floor.
type Seaweed struct {
	BaseX  float64
	BaseZ  float64
	Height int
	Phase  float64
}

// World is the simulation. It knows nothing about the terminal.
type World struct {
	rng *rand.Rand

	Camera  Camera
	Player  Player
	NPCs    []NPC
	Bubbles []Bubble
	Seaweed []Seaweed
	Chest   Vec3
	// Time is the simulated clock in seconds.
	Time float64

	hold [numActions]float64
}

// NewWorld sets up the tank with the player in the middle.
func NewWorld(rng *rand.Rand) *World {
	w := &World{
		rng:    rng,
		Chest:  Vec3{X: 4, Y: -TankH/2 + 0.5, Z: 3},
		Player: Player{FacingRight: true},
		Camera: Camera{Pitch: startPitch},
	}
	for i := range npcCount {
		n := NPC{
			Pos:         w.randomPoint(),
			Speed:       1.5 + rng.Float64()*2,
			Species:     i % len(species),
			FacingRight: rng.Float64() > 0.5,
		}
		n.Target = w.randomPoint()
		w.NPCs = append(w.NPCs, n)
	}
	for range seaweedCount {
		w.Seaweed = append(w.Seaweed, Seaweed{
			BaseX:  (rng.Float64() - 0.5) * (TankW/2 - 2) * 2,
			BaseZ:  (rng.Float64() - 0.5) * (TankD/2 - 2) * 2,
			Height: 3 + rng.IntN(3),
			Phase:  rng.Float64() * math.Pi * 2,
		})
	}
	w.followPlayer()
	return w
}

func (w *World) randomPoint() Vec3 {
	return Vec3{
		X: (w.rng.Float64() - 0.5) * (TankW/2 - 2) * 2,
		Y: (w.rng.Float64() - 0.5) * (TankH/2 - 2) * 2,
		Z: (w.rng.Float64() - 0.5) * (TankD/2 - 2) * 2,
	}
}

// Press holds an action for a short while; repeated presses extend it.
func (w *World) Press(a Action) { w.hold[a] = holdSeconds }

// Release ends a held action immediately.
func (w *World) Release(a Action) { w.hold[a] = 0 }

// Holding reports whether an action is active.
func (w *World) Holding(a Action) bool { return w.hold[a] > 0 }

// Look turns the camera. Pitch is clamped so the view never flips.
func (w *World) Look(dYaw, dPitch float64) {
	w.Camera.Yaw += dYaw
	w.Camera.Pitch = min(max(w.Camera.Pitch+dPitch, -pitchLimit), pitchLimit)
	w.followPlayer()
}

// DepthPercent is how deep the player is, 0 at the surface.
func (w *World) DepthPercent() int {
	pct := (w.Player.Pos.Y + TankH/2) / TankH * 100
	return int(math.Round(100 - pct))
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	w.Time += dt
	w.updatePlayer(dt)
	w.followPlayer()
	w.updateNPCs(dt)
	w.updateBubbles(dt)
	for i := range w.hold {
		w.hold[i] = max(w.hold[i]-dt, 0)
	}
}

func (w *World) updatePlayer(dt float64) {
	yaw := w.Camera.Yaw
	forward := Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
	right := Vec3{X: math.Cos(yaw), Z: -math.Sin(yaw)}

	var move Vec3
	if w.Holding(Forward) {
		move = move.Add(forward)
	}
	if w.Holding(Back) {
		move = move.Sub(forward)
	}
	if w.Holding(Left) {
		move = move.Sub(right)
	}
	if w.Holding(Right) {
		move = move.Add(right)
	}

	p := &w.Player
	if move.Len() > 0.01 {
		move = move.Norm()
		p.Vel.X = move.X * moveSpeed
		p.Vel.Z = move.Z * moveSpeed
		if dot := move.X*right.X + move.Z*right.Z; math.Abs(dot) > 0.3 {
			p.FacingRight = dot > 0
		}
	} else {
		p.Vel.X *= damping
		p.Vel.Z *= damping
	}

	switch {
	case w.Holding(Rise):
		p.Vel.Y = vertSpeed
	case w.Holding(Sink):
		p.Vel.Y = -vertSpeed
	default:
		p.Vel.Y *= damping
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	hw, hh, hd := TankW/2-1, TankH/2-1, TankD/2-1
	p.Pos.X = min(max(p.Pos.X, -hw), hw)
	p.Pos.Y = min(max(p.Pos.Y, -hh), hh)
	p.Pos.Z = min(max(p.Pos.Z, -hd), hd)
}

func (w *World) followPlayer() {
	c := &w.Camera
	cp := math.Cos(c.Pitch)
	offset := Vec3{
		X: -math.Sin(c.Yaw) * camDist * cp,
		Y: camDist * math.Sin(c.Pitch),
		Z: -math.Cos(c.Yaw) * camDist * cp,
	}
	c.Pos = w.Player.Pos.Add(offset)
}

func (w *World) updateNPCs(dt float64) {
	for i := range w.NPCs {
		n := &w.NPCs[i]
		if n.wait > 0 {
			n.wait -= dt
			continue
		}
		to := n.Target.Sub(n.Pos)
		if to.Len() < 1.5 {
			n.Target = w.randomPoint()
			n.wait = w.rng.Float64() * 1.5
			continue
		}
		n.Pos = n.Pos.Add(to.Norm().Scale(n.Speed * dt))
		here := w.Camera.ToCamera(n.Pos)
		there := w.Camera.ToCamera(n.Target)
		switch {
		case there.X > here.X+0.5:
			n.FacingRight = true
		case there.X < here.X-0.5:
			n.FacingRight = false
		}
	}
}

func (w *World) updateBubbles(dt float64) {
	if w.rng.Float64() < bubbleChance && len(w.Bubbles) < maxBubbles {
		w.Bubbles = append(w.Bubbles, Bubble{
			Pos: Vec3{
				X: w.Chest.X + (w.rng.Float64()-0.5)*1.5,
				Y: w.Chest.Y + 1,
				Z: w.Chest.Z + (w.rng.Float64()-0.5)*1.5,
			},
			Speed: 1.5 + w.rng.Float64()*2,
			Drift: (w.rng.Float64() - 0.5) * 0.5,
			Size:  w.rng.Float64(),
		})
	}
	live := w.Bubbles[:0]
	for _, b := range w.Bubbles {
		b.Pos.Y += b.Speed * dt
		b.Pos.X += b.Drift * dt
		b.Pos.Z += math.Sin(b.Pos.Y*2) * 0.3 * dt
		if b.Pos.Y <= TankH/2 {
			live = append(live, b)
		}
	}
	w.Bubbles = live
}

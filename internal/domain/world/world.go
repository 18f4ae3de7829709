// Package world defines the static level of La Casa Oscura: the collision
// volumes of the room and the interactable objects with their rule records.
// This package is PURE and must NOT import any infrastructure packages.
package world

import (
	"fmt"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/geom"
)

// Kind classifies a world object.
type Kind string

const (
	KindCollision    Kind = "COLLISION"    // blocks player movement
	KindInteractable Kind = "INTERACTABLE" // can be targeted and examined
)

// Feedback is the visual-feedback hint attached to an object. It is a
// presentation hint only; game rules never branch on it.
type Feedback string

const (
	FeedbackNormal   Feedback = "NORMAL"
	FeedbackConsumed Feedback = "CONSUMED" // searched, reward taken (dimmed)
	FeedbackHidden   Feedback = "HIDDEN"
)

// Stable object identifiers. The presentation layer recomputes visuals by
// these IDs, so they never change across resets.
const (
	ExitDoorID   = "exit_door"
	DeskDrawerID = "desk_drawer"
	BookshelfID  = "bookshelf"
	MattressID   = "bed_mattress"
	WardrobeID   = "wardrobe_doors"
	PaintingID   = "family_painting"
)

// Object is a single entity of the level. Objects are created once at
// build time and only their visibility/feedback state mutates afterwards.
type Object struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Position geom.Vec3 `json:"position"`
	Yaw      float64   `json:"yaw"`
	Box      geom.Box  `json:"box"`
	Visible  bool      `json:"visible"`
	Feedback Feedback  `json:"feedback"`
}

// InteractionRecord holds the game rules for one interactable object.
// Examined is the per-session one-shot latch preventing repeated rewards.
// For exit doors RepeatMessage doubles as the locked-door text, since the
// exit is the only object that stays repeatedly interactable.
type InteractionRecord struct {
	HasKey        bool
	RewardMessage string
	RepeatMessage string
	IsExit        bool
	ScareTrigger  bool
	Examined      bool
}

// World is the full level: objects in stable build order plus the mapping
// from interactable ID to its rule record.
type World struct {
	Objects []*Object

	records map[string]*InteractionRecord
}

func collision(id string, pos geom.Vec3, w, h, d float64) *Object {
	return &Object{
		ID:       id,
		Kind:     KindCollision,
		Position: pos,
		Box:      geom.BoxAt(pos, w, h, d),
		Visible:  true,
		Feedback: FeedbackNormal,
	}
}

func interactable(id string, pos geom.Vec3, w, h, d float64) *Object {
	return &Object{
		ID:       id,
		Kind:     KindInteractable,
		Position: pos,
		Box:      geom.BoxAt(pos, w, h, d),
		Visible:  true,
		Feedback: FeedbackNormal,
	}
}

// Build constructs the fixed layout of the house: one 20x14 room with
// furniture, three hidden keys, one scare, one flavor object and the exit
// door on the east wall. Construction is deterministic and cannot fail.
func Build() *World {
	w := &World{}

	// Room shell. The floor sits below y=0 so it never collides with the
	// player box, whose feet rest exactly at y=0.
	w.Objects = append(w.Objects,
		collision("floor", geom.Vec3{X: 0, Y: -0.25, Z: 0}, 20.5, 0.5, 14.5),
		collision("wall_north", geom.Vec3{X: 0, Y: 1.5, Z: -7.25}, 21, 3, 0.5),
		collision("wall_south", geom.Vec3{X: 0, Y: 1.5, Z: 7.25}, 21, 3, 0.5),
		collision("wall_east", geom.Vec3{X: 10.25, Y: 1.5, Z: 0}, 0.5, 3, 14),
		collision("wall_west", geom.Vec3{X: -10.25, Y: 1.5, Z: 0}, 0.5, 3, 14),
	)

	// Furniture bodies.
	w.Objects = append(w.Objects,
		collision("writing_table", geom.Vec3{X: 3, Y: 0.4, Z: -2}, 2.4, 0.8, 1.2),
		collision("bookshelf_body", geom.Vec3{X: -9.5, Y: 1.1, Z: 3}, 0.9, 2.2, 2.4),
		collision("bed_frame", geom.Vec3{X: 6.5, Y: 0.3, Z: 4.5}, 2.2, 0.6, 3.4),
		collision("wardrobe_body", geom.Vec3{X: -4, Y: 1.25, Z: -6.5}, 1.6, 2.5, 0.9),
		collision("crate", geom.Vec3{X: -2.5, Y: 0.4, Z: 5.8}, 1, 0.8, 1),
	)

	// Interactables.
	w.Objects = append(w.Objects,
		interactable(ExitDoorID, geom.Vec3{X: 9.85, Y: 1.1, Z: 0}, 0.3, 2.2, 1.2),
		interactable(DeskDrawerID, geom.Vec3{X: 3, Y: 0.65, Z: -1.3}, 0.8, 0.3, 0.4),
		interactable(BookshelfID, geom.Vec3{X: -8.9, Y: 1.2, Z: 3}, 0.4, 2, 2.2),
		interactable(MattressID, geom.Vec3{X: 6.5, Y: 0.7, Z: 4.5}, 2, 0.2, 3.2),
		interactable(WardrobeID, geom.Vec3{X: -4, Y: 1.2, Z: -5.95}, 1.5, 2.3, 0.3),
		interactable(PaintingID, geom.Vec3{X: 0, Y: 1.7, Z: -6.9}, 1.2, 0.9, 0.2),
	)

	w.records = map[string]*InteractionRecord{
		ExitDoorID: {
			IsExit:        true,
			RewardMessage: "The lock turns three times. The door opens into the night.",
			RepeatMessage: "The door is locked. Three keyholes stare back at you.",
		},
		DeskDrawerID: {
			HasKey:        true,
			RewardMessage: "A small brass key lies inside the drawer.",
			RepeatMessage: "The drawer is empty now.",
		},
		BookshelfID: {
			HasKey:        true,
			RewardMessage: "An iron key was hidden behind the dusty books.",
			RepeatMessage: "Only dust remains between the books.",
		},
		MattressID: {
			HasKey:        true,
			RewardMessage: "Under the mattress, a rusted key.",
			RepeatMessage: "Nothing else under the mattress.",
		},
		WardrobeID: {
			ScareTrigger:  true,
			RewardMessage: "The doors burst open. For a moment, something looked back.",
			RepeatMessage: "You already searched the wardrobe. Nothing is in there. Nothing.",
		},
		PaintingID: {
			RewardMessage: "An oil portrait of the Viana family. The eyes are wrong.",
			RepeatMessage: "You already studied the portrait. Do not look at it again.",
		},
	}

	return w
}

// Validate checks the build-time contract: every interactable has exactly
// one record and every record points at an existing interactable. A missing
// record is the configuration defect handled at interact time with a
// generic "nothing happens" outcome.
func (w *World) Validate() error {
	seen := make(map[string]bool, len(w.records))
	for _, obj := range w.Objects {
		if obj.Kind != KindInteractable {
			continue
		}
		if _, ok := w.records[obj.ID]; !ok {
			return fmt.Errorf("interactable %q has no interaction record", obj.ID)
		}
		seen[obj.ID] = true
	}
	for id := range w.records {
		if !seen[id] {
			return fmt.Errorf("interaction record %q has no interactable object", id)
		}
	}
	return nil
}

// Record returns the rule record for an interactable ID.
func (w *World) Record(id string) (*InteractionRecord, bool) {
	r, ok := w.records[id]
	return r, ok
}

// CollisionBoxes returns the movement-blocking volumes.
func (w *World) CollisionBoxes() []geom.Box {
	boxes := make([]geom.Box, 0, len(w.Objects))
	for _, obj := range w.Objects {
		if obj.Kind == KindCollision {
			boxes = append(boxes, obj.Box)
		}
	}
	return boxes
}

// Interactables returns the currently visible interactable objects in
// build order. Hidden objects cannot be targeted.
func (w *World) Interactables() []*Object {
	objs := make([]*Object, 0, len(w.records))
	for _, obj := range w.Objects {
		if obj.Kind == KindInteractable && obj.Visible {
			objs = append(objs, obj)
		}
	}
	return objs
}

// Object returns an object by ID.
func (w *World) Object(id string) (*Object, bool) {
	for _, obj := range w.Objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return nil, false
}

// TotalKeys counts the key-bearing interactables. The exit needs all of
// them.
func (w *World) TotalKeys() int {
	n := 0
	for _, r := range w.records {
		if r.HasKey {
			n++
		}
	}
	return n
}

// Reset restores every examined latch, visibility flag and feedback state
// to its initial value without reallocating any object. IDs and pointers
// stay stable so the presentation layer can recompute visuals by ID.
func (w *World) Reset() {
	for _, obj := range w.Objects {
		obj.Visible = true
		obj.Feedback = FeedbackNormal
	}
	for _, r := range w.records {
		r.Examined = false
	}
}

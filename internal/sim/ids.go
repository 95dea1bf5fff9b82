package sim

import "sync/atomic"

// IDAllocator hands out unique entity IDs for one simulation instance.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: reserved (0 = no entity / missing reference)
//	0x10000000 - 0x1FFFFFFF: enemies
//	0x20000000 - 0x2FFFFFFF: bullets (player and enemy)
//	0x30000000 - 0x3FFFFFFF: pickups
//	0x40000000 - 0x4FFFFFFF: particles
//
// Ranges keep categories disjoint so a stray ID in a log or diagnostic dump
// identifies its category at a glance. IDs are never reused within a run.
type IDAllocator struct {
	nextEnemyID    atomic.Uint32
	nextBulletID   atomic.Uint32
	nextPickupID   atomic.Uint32
	nextParticleID atomic.Uint32
}

// NewIDAllocator creates an allocator with all ranges at their base.
func NewIDAllocator() *IDAllocator {
	a := &IDAllocator{}
	a.nextEnemyID.Store(0x10000000)
	a.nextBulletID.Store(0x20000000)
	a.nextPickupID.Store(0x30000000)
	a.nextParticleID.Store(0x40000000)
	return a
}

// NextEnemyID returns the next unique enemy ID.
func (a *IDAllocator) NextEnemyID() uint32 { return a.nextEnemyID.Add(1) }

// NextBulletID returns the next unique bullet ID.
func (a *IDAllocator) NextBulletID() uint32 { return a.nextBulletID.Add(1) }

// NextPickupID returns the next unique pickup ID.
func (a *IDAllocator) NextPickupID() uint32 { return a.nextPickupID.Add(1) }

// NextParticleID returns the next unique particle ID.
func (a *IDAllocator) NextParticleID() uint32 { return a.nextParticleID.Add(1) }

package world

import "math"

// Arena and player.
const (
	ArenaWidth  = 800.0
	ArenaHeight = 1200.0

	PlayerSize           = 24.0
	PlayerAttackRange    = 300.0
	PlayerCritChance     = 0.05
	PlayerCritMultiplier = 2.0
	InvincibilityTime    = 0.5
)

// Projectiles.
const (
	ProjectileSpeed  = 400.0
	ProjectileRadius = 6.0
	HomingStrength   = 3.0
	HomingRange      = 200.0
	RicochetRange    = 150.0
	RicochetFactor   = 0.7
)

// Leveling.
const (
	BaseXPThreshold = 50
	XPScaling       = 1.2
)

// Drops.
const (
	DropMagnetRange   = 60.0
	DropMagnetSpeed   = 300.0
	DropCollectRadius = 12.0
	DropJitter        = 16.0
	HPDropChance      = 0.1
	HPDropRestore     = 0.2 // fraction of max HP
)

// Enemies.
const (
	EnemySpawnTime     = 0.4
	BossSpawnTime      = 0.8
	EnemyDeathTime     = 0.3
	AttackWindupTime   = 0.3
	SeparationRadius   = 30.0
	SeparationForce    = 80.0
	KitePreferredRatio = 0.65
	SpreadAngle        = math.Pi / 8

	DifficultyHPScaling     = 0.2
	DifficultyDamageScaling = 0.15

	BossAttackRange      = 300.0
	BossProjectileSpeed  = 250.0
	BossFirstAttackDelay = 2.0
	BossPhaseGrace       = 1.5
	BossArenaInset       = 10.0
)

// Spawning and rooms.
const (
	SpawnMinPlayerDistance = 120.0
	SpawnStagger           = 0.15
	SpawnEdgeMargin        = 30.0
	SpawnEdgeAttempts      = 10

	RoomClearPause     = 1.5
	DoorCollisionRange = 35.0
	DoorY              = 20.0
)

// Status effects.
const (
	StatusTickInterval = 0.5
	PoisonDuration     = 3.0
	PoisonTickDamage   = 3.0
	FreezeDuration     = 2.0
	FreezeSpeedFactor  = 0.4
	BurnDuration       = 2.5
	BurnTickDamage     = 4.0
	BurnSplashDamage   = 2.0
	BurnSplashRadius   = 50.0
)

// Active abilities.
const (
	ShieldBaseCooldown = 8.0

	CircleDamageCooldown = 3.0
	CircleDamageRadius   = 80.0
	CircleDamageBase     = 8.0

	MeteorCooldown   = 4.0
	MeteorRadius     = 40.0
	MeteorDamageBase = 20.0

	SwordSpinCooldown   = 2.5
	SwordSpinRadius     = 50.0
	SwordSpinDamageBase = 12.0
)

// Feedback.
const (
	DamageNumberLife = 0.8
	DamageNumberRise = 40.0
	CameraLerp       = 0.1
	ParticleDrag     = 0.98
)

// Timing.
const (
	FixedTimestep = 1.0 / 60
	MaxDelta      = 0.1
)

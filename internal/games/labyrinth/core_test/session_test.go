package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
)

func TestNewSessionValidation(t *testing.T) {
	m := openMap(t, 3, 3)

	tests := []struct {
		name string
		m    *core.TileMap
		spec core.SessionSpec
	}{
		{"nil map", nil, core.SessionSpec{Hero: core.P(0, 0)}},
		{"hero outside map", m, core.SessionSpec{Hero: core.P(-1, 0)}},
		{"hero past the edge", m, core.SessionSpec{Hero: core.P(3, 3)}},
		{
			"enemy without health",
			m,
			core.SessionSpec{Hero: core.P(0, 0), Enemies: []core.EnemySpec{{Pos: core.P(1, 1), Health: 0}}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.NewSession(tc.m, tc.spec, core.DefaultSessionOptions())
			if !errors.Is(err, core.ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got %v", err)
			}
		})
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := newSession(t, openMap(t, 3, 3), core.SessionSpec{Hero: core.P(1, 1)}, core.SessionOptions{})

	if s.State() != core.StatePlaying {
		t.Errorf("expected playing, got %v", s.State())
	}
	if s.Radius() != core.DefaultInitialRadius {
		t.Errorf("expected radius %d, got %d", core.DefaultInitialRadius, s.Radius())
	}
	if s.Hero().Health != core.DefaultHeroHealth {
		t.Errorf("expected health %d, got %d", core.DefaultHeroHealth, s.Hero().Health)
	}
	if s.Options().EnemyPeriod != core.DefaultEnemyPeriod {
		t.Errorf("expected enemy period %v, got %v", core.DefaultEnemyPeriod, s.Options().EnemyPeriod)
	}
}

func TestHeroMovement(t *testing.T) {
	m := buildMap(t,
		"#####",
		"#...#",
		"#.#.#",
		"#####",
	)

	tests := []struct {
		name    string
		in      core.Intent
		want    core.Position
		blocked bool
	}{
		{"into wall west", move(-1, 0), core.P(1, 1), true},
		{"into wall north", move(0, -1), core.P(1, 1), true},
		{"east onto floor", move(1, 0), core.P(2, 1), false},
		{"south onto floor", move(0, 1), core.P(1, 2), false},
		{"diagonal into wall", move(1, 1), core.P(1, 1), true},
		{"oversized step is clamped", move(5, 0), core.P(2, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newSession(t, m, core.SessionSpec{Hero: core.P(1, 1)}, core.DefaultSessionOptions())
			res := s.Step(tc.in, tick)

			if got := s.Hero().Pos; got != tc.want {
				t.Errorf("hero at %v, expected %v", got, tc.want)
			}
			if res.Has(core.EventMoveBlocked) != tc.blocked {
				t.Errorf("blocked event = %v, expected %v", !tc.blocked, tc.blocked)
			}
		})
	}
}

func TestDiagonalMove(t *testing.T) {
	m := buildMap(t,
		"#####",
		"#...#",
		"#.#.#",
		"#####",
	)
	s := newSession(t, m, core.SessionSpec{Hero: core.P(2, 1)}, core.DefaultSessionOptions())

	s.Step(move(1, 1), tick)
	if got := s.Hero().Pos; got != core.P(3, 2) {
		t.Errorf("expected diagonal step to (3,2), got %v", got)
	}
}

func TestWinOnFinish(t *testing.T) {
	m := buildMap(t,
		"#######",
		"#....F#",
		"#######",
	)

	for _, health := range []int{1, 2, 3} {
		s := newSession(t, m, core.SessionSpec{Hero: core.P(4, 1)}, core.SessionOptions{HeroHealth: health})
		res := s.Step(move(1, 0), tick)

		if res.State != core.StateWon || s.State() != core.StateWon {
			t.Errorf("health %d: expected won, got %v", health, s.State())
		}
		if !res.Has(core.EventWon) {
			t.Errorf("health %d: expected won event", health)
		}
		if s.Hero().Health != health {
			t.Errorf("health %d: health changed to %d", health, s.Hero().Health)
		}
	}
}

func TestWinTakesPriorityOverLoss(t *testing.T) {
	m := buildMap(t,
		"#######",
		"#....F#",
		"#######",
	)
	// Enemy waits on the finish tile; the step onto it costs the last health point
	spec := core.SessionSpec{
		Hero:    core.P(4, 1),
		Enemies: []core.EnemySpec{{Pos: core.P(5, 1), Kind: "enemy1", Health: 3}},
	}
	s := newSession(t, m, spec, core.SessionOptions{HeroHealth: 1})

	res := s.Step(move(1, 0), 0)

	if !res.Has(core.EventHeroDamaged) {
		t.Fatal("expected the hero to be damaged on the finish tile")
	}
	if s.Hero().Health != 0 {
		t.Errorf("expected health 0, got %d", s.Hero().Health)
	}
	if s.State() != core.StateWon {
		t.Errorf("expected won, got %v", s.State())
	}
	if res.Has(core.EventLost) {
		t.Error("lost event should not fire when the finish is reached")
	}
}

func TestLossWhenHealthRunsOut(t *testing.T) {
	// 3x3 grid: no patrol fits, so the enemy never moves off the hero
	m := openMap(t, 3, 3)
	spec := core.SessionSpec{
		Hero:    core.P(1, 1),
		Enemies: []core.EnemySpec{{Pos: core.P(1, 1), Kind: "enemy1", Health: 3}},
	}
	s := newSession(t, m, spec, core.DefaultSessionOptions())

	for want := 2; want >= 1; want-- {
		res := s.Step(idle, tick)
		if s.Hero().Health != want {
			t.Fatalf("expected health %d, got %d", want, s.Hero().Health)
		}
		if res.State != core.StatePlaying {
			t.Fatalf("expected playing at health %d, got %v", want, res.State)
		}
		if s.Hero().Frame != core.FrameDamaged {
			t.Error("hero should show the damaged frame after a hit")
		}
	}

	res := s.Step(idle, tick)
	if s.Hero().Health != 0 {
		t.Fatalf("expected health 0, got %d", s.Hero().Health)
	}
	if res.State != core.StateLost || !res.Has(core.EventLost) {
		t.Errorf("expected lost, got %v", res.State)
	}

	// Health never goes negative once the session is over
	for range 5 {
		s.Step(idle, tick)
	}
	if s.Hero().Health != 0 {
		t.Errorf("health went to %d after loss", s.Hero().Health)
	}
}

func TestCollisionDamagesOncePerTick(t *testing.T) {
	m := openMap(t, 3, 3)
	spec := core.SessionSpec{
		Hero: core.P(1, 1),
		Enemies: []core.EnemySpec{
			{Pos: core.P(1, 1), Kind: "enemy1", Health: 3},
			{Pos: core.P(1, 1), Kind: "enemy2", Health: 3},
		},
	}
	s := newSession(t, m, spec, core.DefaultSessionOptions())

	res := s.Step(idle, tick)
	if res.Count(core.EventHeroDamaged) != 1 {
		t.Errorf("expected one hit, got %d", res.Count(core.EventHeroDamaged))
	}
	if s.Hero().Health != 2 {
		t.Errorf("expected health 2, got %d", s.Hero().Health)
	}
}

func TestAttackHitsAdjacentEnemies(t *testing.T) {
	m := openMap(t, 7, 7)
	spec := core.SessionSpec{
		Hero: core.P(3, 3),
		Enemies: []core.EnemySpec{
			{Pos: core.P(2, 2), Kind: "enemy1", Health: 3},
			{Pos: core.P(4, 3), Kind: "enemy1", Health: 3},
			{Pos: core.P(3, 4), Kind: "enemy1", Health: 3},
			{Pos: core.P(5, 3), Kind: "enemy1", Health: 3},
		},
	}
	s := newSession(t, m, spec, core.DefaultSessionOptions())

	// dt of zero keeps enemies in place
	res := s.Step(attack, 0)

	if got := res.Count(core.EventEnemyDamaged); got != 3 {
		t.Errorf("expected 3 enemies damaged, got %d", got)
	}
	enemies := s.Enemies()
	for i := range 3 {
		if enemies[i].Health != 2 {
			t.Errorf("enemy %d: expected health 2, got %d", i, enemies[i].Health)
		}
		if enemies[i].Frame != core.FrameDamaged {
			t.Errorf("enemy %d: expected damaged frame", i)
		}
	}
	if enemies[3].Health != 3 || enemies[3].Frame != core.FrameIdle {
		t.Errorf("enemy at distance 2 should be untouched, got health %d frame %v", enemies[3].Health, enemies[3].Frame)
	}

	// The next enemy step clears the damaged frame
	s.Step(idle, core.DefaultEnemyPeriod)
	for i, e := range s.Enemies() {
		if e.Frame != core.FrameIdle {
			t.Errorf("enemy %d still shows damaged frame after advancing", i)
		}
	}
}

func TestKilledEnemyLeavesPlay(t *testing.T) {
	m := openMap(t, 7, 1)
	spec := core.SessionSpec{
		Hero:    core.P(0, 0),
		Enemies: []core.EnemySpec{{Pos: core.P(1, 0), Kind: "enemy1", Health: 1}},
	}
	s := newSession(t, m, spec, core.DefaultSessionOptions())

	res := s.Step(attack, 0)
	if !res.Has(core.EventEnemyKilled) {
		t.Fatal("expected kill event")
	}

	enemies := s.Enemies()
	if len(enemies) != 1 {
		t.Fatalf("collection size changed to %d", len(enemies))
	}
	if enemies[0].Alive || enemies[0].Health != 0 {
		t.Errorf("expected dead enemy with health 0, got alive=%v health=%d", enemies[0].Alive, enemies[0].Health)
	}
	if s.AliveEnemies() != 0 || s.Kills() != 1 {
		t.Errorf("expected 0 alive / 1 kill, got %d / %d", s.AliveEnemies(), s.Kills())
	}

	// Dead enemies no longer patrol
	for range 6 {
		s.Step(idle, tick)
	}
	if got := s.Enemies()[0].Pos; got != core.P(1, 0) {
		t.Errorf("dead enemy moved to %v", got)
	}

	// Nor collide
	s.Step(move(1, 0), 0)
	if s.Hero().Pos != core.P(1, 0) {
		t.Fatalf("hero should be able to walk over the body, at %v", s.Hero().Pos)
	}
	if s.Hero().Health != core.DefaultHeroHealth {
		t.Errorf("dead enemy damaged hero: health %d", s.Hero().Health)
	}

	// Nor take further hits
	res = s.Step(attack, 0)
	if res.Has(core.EventEnemyDamaged) {
		t.Error("dead enemy should not be attackable")
	}
}

func TestLightCollectedOnce(t *testing.T) {
	m := openMap(t, 5, 1)
	spec := core.SessionSpec{
		Hero:   core.P(0, 0),
		Lights: []core.Position{core.P(1, 0)},
	}
	s := newSession(t, m, spec, core.DefaultSessionOptions())

	res := s.Step(move(1, 0), tick)
	if !res.Has(core.EventLightCollected) {
		t.Fatal("expected light pickup")
	}
	if s.Radius() != 2 {
		t.Errorf("expected radius 2, got %d", s.Radius())
	}

	s.Step(move(-1, 0), tick)
	res = s.Step(move(1, 0), tick)
	if res.Has(core.EventLightCollected) {
		t.Error("light collected twice")
	}
	if s.Radius() != 2 {
		t.Errorf("radius grew again to %d", s.Radius())
	}
	if s.LightsCollected() != 1 {
		t.Errorf("expected 1 light collected, got %d", s.LightsCollected())
	}
}

func TestEnemyPatrolInSession(t *testing.T) {
	m := openMap(t, 9, 1)
	spec := core.SessionSpec{
		Hero:    core.P(8, 0),
		Enemies: []core.EnemySpec{{Pos: core.P(0, 0), Kind: "enemy1", Health: 3}},
	}
	s := newSession(t, m, spec, core.SessionOptions{EnemyPeriod: tick})

	wantX := []int{0, 1, 2, 3, 4, 4, 3, 2, 1, 0, 0, 1}
	for i, x := range wantX {
		s.Step(idle, tick)
		if got := s.Enemies()[0].Pos; got != core.P(x, 0) {
			t.Errorf("tick %d: enemy at %v, expected (%d,0)", i+1, got, x)
		}
	}
}

func TestEnemyAccumulator(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		dt     time.Duration
		ticks  int
		steps  int
	}{
		{"one step per tick", 100 * time.Millisecond, 100 * time.Millisecond, 5, 5},
		{"half period per tick", 100 * time.Millisecond, 50 * time.Millisecond, 5, 2},
		{"slow enemies", 200 * time.Millisecond, 100 * time.Millisecond, 6, 3},
		{"several steps per tick", 100 * time.Millisecond, 250 * time.Millisecond, 2, 5},
		{"zero dt", 100 * time.Millisecond, 0, 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := openMap(t, 9, 1)
			spec := core.SessionSpec{
				Hero:    core.P(8, 0),
				Enemies: []core.EnemySpec{{Pos: core.P(0, 0), Kind: "enemy1", Health: 3}},
			}
			s := newSession(t, m, spec, core.SessionOptions{EnemyPeriod: tc.period})

			advanced := 0
			for range tc.ticks {
				res := s.Step(idle, tc.dt)
				advanced += res.Count(core.EventEnemiesAdvanced)
			}
			if advanced != tc.steps {
				t.Errorf("expected %d enemy steps, got %d", tc.steps, advanced)
			}
			if s.Snapshot().EnemyStep != tc.steps {
				t.Errorf("snapshot step %d, expected %d", s.Snapshot().EnemyStep, tc.steps)
			}
		})
	}
}

func TestTerminalStateFreezesSession(t *testing.T) {
	m := buildMap(t,
		"#########",
		"#F......#",
		"#########",
	)
	spec := core.SessionSpec{
		Hero:    core.P(2, 1),
		Enemies: []core.EnemySpec{{Pos: core.P(3, 1), Kind: "enemy1", Health: 3}},
	}
	s := newSession(t, m, spec, core.DefaultSessionOptions())

	s.Step(move(-1, 0), 0)
	if s.State() != core.StateWon {
		t.Fatalf("expected won, got %v", s.State())
	}
	before := s.Snapshot()

	res := s.Step(move(1, 0), time.Second)
	if len(res.Events) != 0 {
		t.Errorf("expected no events after the session ended, got %v", res.Events)
	}
	after := s.Snapshot()
	if after.Tick != before.Tick+1 {
		t.Errorf("tick should still advance: %d -> %d", before.Tick, after.Tick)
	}
	after.Tick = before.Tick
	if !after.Equal(before) {
		t.Errorf("state changed after win: %+v -> %+v", before, after)
	}
}

func TestSessionDeterminism(t *testing.T) {
	m := buildMap(t,
		"#########",
		"#.......#",
		"#.#.###.#",
		"#.#.....#",
		"#.#####.#",
		"#......F#",
		"#########",
	)
	spec := core.SessionSpec{
		Hero: core.P(1, 1),
		Enemies: []core.EnemySpec{
			{Pos: core.P(3, 1), Kind: "enemy1", Health: 2},
			{Pos: core.P(3, 3), Kind: "enemy2", Health: 3},
			{Pos: core.P(1, 5), Kind: "enemy3", Health: 1},
		},
		Lights: []core.Position{core.P(1, 3), core.P(7, 3)},
	}
	script := []core.Intent{
		move(1, 0), attack, move(1, 0), idle, move(0, 1), move(0, 1),
		{DX: 1, Attack: true}, move(1, 0), move(1, 0), move(1, 0), move(0, 1), move(0, 1),
		move(-1, 0), attack, idle, move(1, 0),
	}

	a := newSession(t, m, spec, core.DefaultSessionOptions())
	b := newSession(t, m, spec, core.DefaultSessionOptions())

	for i, in := range script {
		ra := a.Step(in, 70*time.Millisecond)
		rb := b.Step(in, 70*time.Millisecond)
		if ra.State != rb.State || len(ra.Events) != len(rb.Events) {
			t.Fatalf("step %d: results diverged", i)
		}
		if !a.Snapshot().Equal(b.Snapshot()) {
			t.Fatalf("step %d: snapshots diverged\n%+v\n%+v", i, a.Snapshot(), b.Snapshot())
		}
	}
}

package engine

import "math"

// AttackOutcome summarises one resolver pass.
type AttackOutcome struct {
	MoneyDelta int
	Hits       []EntityID // primary targets damaged
	Chained    []EntityID // minions hit by chain lightning
	Kills      []EntityID // minions killed, each listed once
}

// Resolver applies damage, status effects and on-death triggers to a
// registry. It mutates the registry it is given; the session hands it the
// tick's private working copy.
type Resolver struct {
	combat CombatRules
	base   map[MinionType]MinionStats
}

// NewResolver creates a resolver for the given rules.
func NewResolver(r Rules) *Resolver {
	return &Resolver{combat: r.Combat, base: r.Minions}
}

// ApplyAttack fires one tower at the listed targets, in order. A target
// that is already dead takes no damage and pays nothing, so listing the
// same minion twice cannot pay its reward twice. The tower's cooldown is
// reset when at least one target was given.
func (r *Resolver) ApplyAttack(reg *Registry, towerID EntityID, targets []EntityID) (AttackOutcome, error) {
	var out AttackOutcome

	tower, ok := reg.Tower(towerID)
	if !ok {
		return out, rejectf(CodeUnknownEntity, "tower %d", towerID)
	}
	if len(targets) == 0 {
		return out, nil
	}

	for _, id := range targets {
		m, ok := reg.Minion(id)
		if !ok {
			return out, rejectf(CodeUnknownEntity, "minion %d", id)
		}
		if m.Dead {
			continue
		}

		dmg := tower.Damage
		if m.Abilities.Has(AbilityArmor) {
			dmg *= r.combat.ArmorFactor
		}
		out.Hits = append(out.Hits, m.ID)
		r.damage(reg, m, dmg, &out)
		if m.Dead {
			continue
		}

		switch tower.Ability {
		case TowerAbilitySlow:
			if e := m.Effect(EffectSlow); e != nil {
				e.Remaining = r.combat.SlowDuration
			} else {
				m.Effects = append(m.Effects, Effect{Kind: EffectSlow, Remaining: r.combat.SlowDuration})
				m.Speed *= r.combat.SlowFactor
			}
		case TowerAbilityBurn:
			if e := m.Effect(EffectBurn); e != nil {
				e.Remaining = r.combat.BurnDuration
			} else {
				m.Effects = append(m.Effects, Effect{Kind: EffectBurn, Remaining: r.combat.BurnDuration})
			}
		case TowerAbilityChainLightning:
			r.chain(reg, *m, tower.Damage*r.combat.ChainFactor, &out)
		}
	}

	tower.CurrentCooldown = tower.Cooldown
	tower.TargetID = targets[0]
	return out, nil
}

// chain arcs from the primary target to every other living minion within
// the chain radius. Chain damage ignores armor.
func (r *Resolver) chain(reg *Registry, primary Minion, dmg float64, out *AttackOutcome) {
	for i := range reg.minions {
		m := &reg.minions[i]
		if m.ID == primary.ID || m.Dead {
			continue
		}
		if manhattanF(primary.Pos, m.Pos) > r.combat.ChainRadius {
			continue
		}
		out.Chained = append(out.Chained, m.ID)
		r.damage(reg, m, dmg, out)
	}
}

// damage lowers health, clamped at zero, and kills the minion when it runs
// out. Every death in the simulation goes through here or kill.
func (r *Resolver) damage(reg *Registry, m *Minion, amount float64, out *AttackOutcome) {
	if m.Dead || amount <= 0 {
		return
	}
	m.Health = math.Max(0, m.Health-amount)
	if m.Health > 0 {
		return
	}
	r.kill(reg, m, out)
}

// kill marks the minion dead and pays its reward, at most once per minion.
func (r *Resolver) kill(reg *Registry, m *Minion, out *AttackOutcome) {
	if m.Dead {
		return
	}
	m.Dead = true
	m.Health = 0
	out.MoneyDelta += m.Reward
	out.Kills = append(out.Kills, m.ID)

	if m.Abilities.Has(AbilityDeathExplode) {
		for i := range reg.towers {
			t := &reg.towers[i]
			if manhattanF(m.Pos, t.Pos.Vec()) <= r.combat.ExplodeRadius {
				t.Damage *= r.combat.ExplodeFactor
			}
		}
	}
}

// DecayEffects ages every status effect by dt. Expired slows restore the
// type's base speed. A burn present at the start of the pass deals BurnDPS
// for the part of dt it was still active, so the total never exceeds
// BurnDPS times its duration, and can kill.
func (r *Resolver) DecayEffects(reg *Registry, dt float64) AttackOutcome {
	var out AttackOutcome
	for i := range reg.minions {
		m := &reg.minions[i]
		if m.Dead || len(m.Effects) == 0 {
			continue
		}

		hadSlow := m.HasEffect(EffectSlow)
		burnTime := 0.0

		kept := m.Effects[:0]
		for _, e := range m.Effects {
			if e.Kind == EffectBurn {
				burnTime = min(dt, e.Remaining)
			}
			e.Remaining -= dt
			if e.Remaining > 0 {
				kept = append(kept, e)
			}
		}
		m.Effects = kept

		if hadSlow && !m.HasEffect(EffectSlow) {
			if base, ok := r.base[m.Type]; ok {
				m.Speed = base.Speed
			}
		}
		if burnTime > 0 {
			r.damage(reg, m, r.combat.BurnDPS*burnTime, &out)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version    string           `yaml:"version" json:"version"`
	Tick       TickConfig       `yaml:"tick" json:"tick"`
	Flashlight FlashlightConfig `yaml:"flashlight" json:"flashlight"`
	Personnel  PersonnelConfig  `yaml:"personnel" json:"personnel"`
	Encounters EncounterConfig  `yaml:"encounters" json:"encounters"`
	Risk       RiskConfig       `yaml:"risk" json:"risk"`
	Pool       PoolConfig       `yaml:"pool" json:"pool"`
	Economy    EconomyConfig    `yaml:"economy" json:"economy"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

type TickConfig struct {
	FixedIntervalMs int     `yaml:"fixed_interval_ms" json:"fixed_interval_ms"`
	FastIntervalMs  int     `yaml:"fast_interval_ms" json:"fast_interval_ms"`
	MaxFastDtS      float64 `yaml:"max_fast_dt_s" json:"max_fast_dt_s"`
	OfflineMaxTicks int     `yaml:"offline_max_ticks" json:"offline_max_ticks"`
	Seed            int64   `yaml:"seed" json:"seed"`
}

type FlashlightConfig struct {
	Capacity             float64 `yaml:"capacity" json:"capacity"`
	DrainPerSecond       float64 `yaml:"drain_per_second" json:"drain_per_second"`
	RechargePerSecond    float64 `yaml:"recharge_per_second" json:"recharge_per_second"`
	RechargePerExtraLvl  float64 `yaml:"recharge_per_extra_level" json:"recharge_per_extra_level"`
	LowThreshold         float64 `yaml:"low_threshold" json:"low_threshold"`
	ManualCharge         float64 `yaml:"manual_charge" json:"manual_charge"`
	MinDrainPerSecond    float64 `yaml:"min_drain_per_second" json:"min_drain_per_second"`
	TimedRechargeMs      int     `yaml:"timed_recharge_ms" json:"timed_recharge_ms"`
	CapacityPerLevel     float64 `yaml:"capacity_per_level" json:"capacity_per_level"`
	DrainReductionPerLvl float64 `yaml:"drain_reduction_per_level" json:"drain_reduction_per_level"`
	SynergyCapacityBonus float64 `yaml:"synergy_capacity_bonus" json:"synergy_capacity_bonus"`
	SynergyDrainCut      float64 `yaml:"synergy_drain_cut" json:"synergy_drain_cut"`
}

type PersonnelConfig struct {
	BaseSpeed          float64 `yaml:"base_speed" json:"base_speed"`
	DarkSpeedFactor    float64 `yaml:"dark_speed_factor" json:"dark_speed_factor"`
	InjuredSpeedFactor float64 `yaml:"injured_speed_factor" json:"injured_speed_factor"`
	ExperienceRate     float64 `yaml:"experience_rate" json:"experience_rate"`
	BlockWindow        float64 `yaml:"block_window" json:"block_window"`
	LevelCostBase      float64 `yaml:"level_cost_base" json:"level_cost_base"`
	LevelCostPerLevel  float64 `yaml:"level_cost_per_level" json:"level_cost_per_level"`
	SurvivalCostBase   float64 `yaml:"survival_cost_base" json:"survival_cost_base"`
	SurvivalCostScale  float64 `yaml:"survival_cost_scale" json:"survival_cost_scale"`
	SurvivalStep       float64 `yaml:"survival_step" json:"survival_step"`
	SurvivalCap        float64 `yaml:"survival_cap" json:"survival_cap"`
	SpeedCostBase      float64 `yaml:"speed_cost_base" json:"speed_cost_base"`
	SpeedCostScale     float64 `yaml:"speed_cost_scale" json:"speed_cost_scale"`
	SpeedStep          float64 `yaml:"speed_step" json:"speed_step"`
	ReplaceCost        float64 `yaml:"replace_cost" json:"replace_cost"`
}

type EncounterConfig struct {
	MaxConcurrent          int     `yaml:"max_concurrent" json:"max_concurrent"`
	SpawnChance            float64 `yaml:"spawn_chance" json:"spawn_chance"`
	FastSpawnChance        float64 `yaml:"fast_spawn_chance" json:"fast_spawn_chance"`
	MilestoneEvery         float64 `yaml:"milestone_every" json:"milestone_every"`
	MilestoneWindow        float64 `yaml:"milestone_window" json:"milestone_window"`
	MilestoneBoost         float64 `yaml:"milestone_boost" json:"milestone_boost"`
	HostileShareBase       float64 `yaml:"hostile_share_base" json:"hostile_share_base"`
	HostileShareMax        float64 `yaml:"hostile_share_max" json:"hostile_share_max"`
	SpawnAheadMin          float64 `yaml:"spawn_ahead_min" json:"spawn_ahead_min"`
	SpawnAheadJitter       float64 `yaml:"spawn_ahead_jitter" json:"spawn_ahead_jitter"`
	FastSpawnStep          float64 `yaml:"fast_spawn_step" json:"fast_spawn_step"`
	EscalationChance       float64 `yaml:"escalation_chance" json:"escalation_chance"`
	MidFlightCasualtyScale float64 `yaml:"mid_flight_casualty_scale" json:"mid_flight_casualty_scale"`

	Hostile KindConfig `yaml:"hostile" json:"hostile"`
	Anomaly KindConfig `yaml:"anomaly" json:"anomaly"`
}

// KindConfig holds the depth-scaled baselines for one encounter kind.
type KindConfig struct {
	RewardBase       float64 `yaml:"reward_base" json:"reward_base"`
	RewardPer100     float64 `yaml:"reward_per_100" json:"reward_per_100"`
	DurationMs       float64 `yaml:"duration_ms" json:"duration_ms"`
	DurationPer100Ms float64 `yaml:"duration_per_100_ms" json:"duration_per_100_ms"`
	CasualtyBase     float64 `yaml:"casualty_base" json:"casualty_base"`
	CasualtyDepthDiv float64 `yaml:"casualty_depth_div" json:"casualty_depth_div"`
	CasualtyMax      float64 `yaml:"casualty_max" json:"casualty_max"`
	RequiredMin      int     `yaml:"required_min" json:"required_min"`
	RequiredDepthDiv float64 `yaml:"required_depth_div" json:"required_depth_div"`
	RequiredOffset   int     `yaml:"required_offset" json:"required_offset"`
	TimeoutMs        int     `yaml:"timeout_ms" json:"timeout_ms"`
}

type RiskConfig struct {
	BaseRate          float64     `yaml:"base_rate" json:"base_rate"`
	DepthDivisor      float64     `yaml:"depth_divisor" json:"depth_divisor"`
	DepthWeight       float64     `yaml:"depth_weight" json:"depth_weight"`
	DeathZoneRate     float64     `yaml:"death_zone_rate" json:"death_zone_rate"`
	DeathZones        []DepthBand `yaml:"death_zones" json:"death_zones"`
	MaxCasualties     int         `yaml:"max_casualties" json:"max_casualties"`
	MaxAssignedShare  float64     `yaml:"max_assigned_share" json:"max_assigned_share"`
	RecallAssignedMax float64     `yaml:"recall_assigned_max" json:"recall_assigned_max"`
	RecallCountMax    float64     `yaml:"recall_count_max" json:"recall_count_max"`
	AmbientLogChance  float64     `yaml:"ambient_log_chance" json:"ambient_log_chance"`
}

// DepthBand is a half-open [From, To) depth interval.
type DepthBand struct {
	From float64 `yaml:"from" json:"from"`
	To   float64 `yaml:"to" json:"to"`
}

func (b DepthBand) Contains(depth float64) bool {
	return depth >= b.From && depth < b.To
}

type PoolConfig struct {
	StartCount         float64 `yaml:"start_count" json:"start_count"`
	Capacity           float64 `yaml:"capacity" json:"capacity"`
	GenerationPerMin   float64 `yaml:"generation_per_min" json:"generation_per_min"`
	MortalityRate      float64 `yaml:"mortality_rate" json:"mortality_rate"`
	MinTeam            int     `yaml:"min_team" json:"min_team"`
	RecruitBaseCost    float64 `yaml:"recruit_base_cost" json:"recruit_base_cost"`
	RecruitPerUnitCost float64 `yaml:"recruit_per_unit_cost" json:"recruit_per_unit_cost"`
	BulkThreshold      int     `yaml:"bulk_threshold" json:"bulk_threshold"`
	BulkDiscount       float64 `yaml:"bulk_discount" json:"bulk_discount"`
}

type EconomyConfig struct {
	StartEnergy        float64 `yaml:"start_energy" json:"start_energy"`
	StartContainment   float64 `yaml:"start_containment" json:"start_containment"`
	EnergyPerTick      float64 `yaml:"energy_per_tick" json:"energy_per_tick"`
	EnergyPerDepth     float64 `yaml:"energy_per_depth" json:"energy_per_depth"`
	ResearchBonus      float64 `yaml:"research_bonus" json:"research_bonus"`
	ContainmentYield   float64 `yaml:"containment_yield" json:"containment_yield"`
	KnowledgePerReset  float64 `yaml:"knowledge_per_reset" json:"knowledge_per_reset"`
	KnowledgeBonus     float64 `yaml:"knowledge_bonus" json:"knowledge_bonus"`
	UpgradeCostGrowth  float64 `yaml:"upgrade_cost_growth" json:"upgrade_cost_growth"`
	CompletionDepthDiv float64 `yaml:"completion_depth_div" json:"completion_depth_div"`
}

type LogConfig struct {
	Retention int `yaml:"retention" json:"retention"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr" json:"addr"`
	SavePath       string `yaml:"save_path" json:"save_path"`
	AutosaveEveryS int    `yaml:"autosave_every_s" json:"autosave_every_s"`
}

func (t TickConfig) Fixed() time.Duration {
	return time.Duration(t.FixedIntervalMs) * time.Millisecond
}

func (t TickConfig) Fast() time.Duration {
	return time.Duration(t.FastIntervalMs) * time.Millisecond
}

// InDeathZone reports whether depth falls in one of the fixed high-risk bands.
func (r RiskConfig) InDeathZone(depth float64) bool {
	for _, b := range r.DeathZones {
		if b.Contains(depth) {
			return true
		}
	}
	return false
}

// ApplyDefaults fills zero-valued fields from Default so partial YAML files work.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	fillInt(&c.Tick.FixedIntervalMs, d.Tick.FixedIntervalMs)
	fillInt(&c.Tick.FastIntervalMs, d.Tick.FastIntervalMs)
	fillFloat(&c.Tick.MaxFastDtS, d.Tick.MaxFastDtS)
	fillInt(&c.Tick.OfflineMaxTicks, d.Tick.OfflineMaxTicks)

	fillFloat(&c.Flashlight.Capacity, d.Flashlight.Capacity)
	fillFloat(&c.Flashlight.DrainPerSecond, d.Flashlight.DrainPerSecond)
	fillFloat(&c.Flashlight.RechargePerSecond, d.Flashlight.RechargePerSecond)
	fillFloat(&c.Flashlight.RechargePerExtraLvl, d.Flashlight.RechargePerExtraLvl)
	fillFloat(&c.Flashlight.LowThreshold, d.Flashlight.LowThreshold)
	fillFloat(&c.Flashlight.ManualCharge, d.Flashlight.ManualCharge)
	fillFloat(&c.Flashlight.MinDrainPerSecond, d.Flashlight.MinDrainPerSecond)
	fillInt(&c.Flashlight.TimedRechargeMs, d.Flashlight.TimedRechargeMs)
	fillFloat(&c.Flashlight.CapacityPerLevel, d.Flashlight.CapacityPerLevel)
	fillFloat(&c.Flashlight.DrainReductionPerLvl, d.Flashlight.DrainReductionPerLvl)
	fillFloat(&c.Flashlight.SynergyCapacityBonus, d.Flashlight.SynergyCapacityBonus)
	fillFloat(&c.Flashlight.SynergyDrainCut, d.Flashlight.SynergyDrainCut)

	p := &c.Personnel
	fillFloat(&p.BaseSpeed, d.Personnel.BaseSpeed)
	fillFloat(&p.DarkSpeedFactor, d.Personnel.DarkSpeedFactor)
	fillFloat(&p.InjuredSpeedFactor, d.Personnel.InjuredSpeedFactor)
	fillFloat(&p.ExperienceRate, d.Personnel.ExperienceRate)
	fillFloat(&p.BlockWindow, d.Personnel.BlockWindow)
	fillFloat(&p.LevelCostBase, d.Personnel.LevelCostBase)
	fillFloat(&p.LevelCostPerLevel, d.Personnel.LevelCostPerLevel)
	fillFloat(&p.SurvivalCostBase, d.Personnel.SurvivalCostBase)
	fillFloat(&p.SurvivalCostScale, d.Personnel.SurvivalCostScale)
	fillFloat(&p.SurvivalStep, d.Personnel.SurvivalStep)
	fillFloat(&p.SurvivalCap, d.Personnel.SurvivalCap)
	fillFloat(&p.SpeedCostBase, d.Personnel.SpeedCostBase)
	fillFloat(&p.SpeedCostScale, d.Personnel.SpeedCostScale)
	fillFloat(&p.SpeedStep, d.Personnel.SpeedStep)
	fillFloat(&p.ReplaceCost, d.Personnel.ReplaceCost)

	e := &c.Encounters
	fillInt(&e.MaxConcurrent, d.Encounters.MaxConcurrent)
	fillFloat(&e.SpawnChance, d.Encounters.SpawnChance)
	fillFloat(&e.FastSpawnChance, d.Encounters.FastSpawnChance)
	fillFloat(&e.MilestoneEvery, d.Encounters.MilestoneEvery)
	fillFloat(&e.MilestoneWindow, d.Encounters.MilestoneWindow)
	fillFloat(&e.MilestoneBoost, d.Encounters.MilestoneBoost)
	fillFloat(&e.HostileShareBase, d.Encounters.HostileShareBase)
	fillFloat(&e.HostileShareMax, d.Encounters.HostileShareMax)
	fillFloat(&e.SpawnAheadMin, d.Encounters.SpawnAheadMin)
	fillFloat(&e.SpawnAheadJitter, d.Encounters.SpawnAheadJitter)
	fillFloat(&e.FastSpawnStep, d.Encounters.FastSpawnStep)
	fillFloat(&e.EscalationChance, d.Encounters.EscalationChance)
	fillFloat(&e.MidFlightCasualtyScale, d.Encounters.MidFlightCasualtyScale)
	e.Hostile.applyDefaults(d.Encounters.Hostile)
	e.Anomaly.applyDefaults(d.Encounters.Anomaly)

	r := &c.Risk
	fillFloat(&r.BaseRate, d.Risk.BaseRate)
	fillFloat(&r.DepthDivisor, d.Risk.DepthDivisor)
	fillFloat(&r.DepthWeight, d.Risk.DepthWeight)
	fillFloat(&r.DeathZoneRate, d.Risk.DeathZoneRate)
	if len(r.DeathZones) == 0 {
		r.DeathZones = append([]DepthBand(nil), d.Risk.DeathZones...)
	}
	fillInt(&r.MaxCasualties, d.Risk.MaxCasualties)
	fillFloat(&r.MaxAssignedShare, d.Risk.MaxAssignedShare)
	fillFloat(&r.RecallAssignedMax, d.Risk.RecallAssignedMax)
	fillFloat(&r.RecallCountMax, d.Risk.RecallCountMax)
	fillFloat(&r.AmbientLogChance, d.Risk.AmbientLogChance)

	pl := &c.Pool
	fillFloat(&pl.StartCount, d.Pool.StartCount)
	fillFloat(&pl.Capacity, d.Pool.Capacity)
	fillFloat(&pl.GenerationPerMin, d.Pool.GenerationPerMin)
	fillFloat(&pl.MortalityRate, d.Pool.MortalityRate)
	fillInt(&pl.MinTeam, d.Pool.MinTeam)
	fillFloat(&pl.RecruitBaseCost, d.Pool.RecruitBaseCost)
	fillFloat(&pl.RecruitPerUnitCost, d.Pool.RecruitPerUnitCost)
	fillInt(&pl.BulkThreshold, d.Pool.BulkThreshold)
	fillFloat(&pl.BulkDiscount, d.Pool.BulkDiscount)

	ec := &c.Economy
	fillFloat(&ec.EnergyPerTick, d.Economy.EnergyPerTick)
	fillFloat(&ec.EnergyPerDepth, d.Economy.EnergyPerDepth)
	fillFloat(&ec.ResearchBonus, d.Economy.ResearchBonus)
	fillFloat(&ec.ContainmentYield, d.Economy.ContainmentYield)
	fillFloat(&ec.KnowledgePerReset, d.Economy.KnowledgePerReset)
	fillFloat(&ec.KnowledgeBonus, d.Economy.KnowledgeBonus)
	fillFloat(&ec.UpgradeCostGrowth, d.Economy.UpgradeCostGrowth)
	fillFloat(&ec.CompletionDepthDiv, d.Economy.CompletionDepthDiv)

	fillInt(&c.Log.Retention, d.Log.Retention)
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.SavePath == "" {
		c.Server.SavePath = d.Server.SavePath
	}
	fillInt(&c.Server.AutosaveEveryS, d.Server.AutosaveEveryS)
}

func (k *KindConfig) applyDefaults(d KindConfig) {
	fillFloat(&k.RewardBase, d.RewardBase)
	fillFloat(&k.RewardPer100, d.RewardPer100)
	fillFloat(&k.DurationMs, d.DurationMs)
	fillFloat(&k.DurationPer100Ms, d.DurationPer100Ms)
	fillFloat(&k.CasualtyBase, d.CasualtyBase)
	fillFloat(&k.CasualtyDepthDiv, d.CasualtyDepthDiv)
	fillFloat(&k.CasualtyMax, d.CasualtyMax)
	fillInt(&k.RequiredMin, d.RequiredMin)
	fillFloat(&k.RequiredDepthDiv, d.RequiredDepthDiv)
	fillInt(&k.RequiredOffset, d.RequiredOffset)
	fillInt(&k.TimeoutMs, d.TimeoutMs)
}

func fillInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func fillFloat(dst *float64, def float64) {
	if *dst == 0 {
		*dst = def
	}
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Tick.FixedIntervalMs <= 0 {
		errs = append(errs, errors.New("tick.fixed_interval_ms must be positive"))
	}
	if c.Tick.FastIntervalMs <= 0 {
		errs = append(errs, errors.New("tick.fast_interval_ms must be positive"))
	}
	if c.Tick.OfflineMaxTicks < 0 {
		errs = append(errs, errors.New("tick.offline_max_ticks must not be negative"))
	}
	if c.Flashlight.Capacity <= 0 {
		errs = append(errs, errors.New("flashlight.capacity must be positive"))
	}
	if c.Flashlight.DrainPerSecond < 0 || c.Flashlight.RechargePerSecond < 0 {
		errs = append(errs, errors.New("flashlight rates must not be negative"))
	}
	if c.Pool.MinTeam < 1 {
		errs = append(errs, errors.New("pool.min_team must be at least 1"))
	}
	if c.Pool.Capacity <= 0 {
		errs = append(errs, errors.New("pool.capacity must be positive"))
	}
	if c.Pool.MortalityRate <= 0 || c.Pool.MortalityRate >= 1 {
		errs = append(errs, fmt.Errorf("pool.mortality_rate %v must be in (0,1)", c.Pool.MortalityRate))
	}
	if c.Encounters.MaxConcurrent < 1 {
		errs = append(errs, errors.New("encounters.max_concurrent must be at least 1"))
	}
	for _, b := range c.Risk.DeathZones {
		if b.To <= b.From {
			errs = append(errs, fmt.Errorf("risk.death_zones band [%v,%v) is empty", b.From, b.To))
		}
	}
	if c.Log.Retention < 1 {
		errs = append(errs, errors.New("log.retention must be at least 1"))
	}
	return errors.Join(errs...)
}

// Load decodes a YAML file over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// LoadOrDefault behaves like Load but treats a missing file as "use defaults".
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		d := Default()
		return &d, nil
	}
	return nil, err
}

func Parse(b []byte) (*Config, error) {
	r := Default()
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &r, nil
}

// Marshal renders the config as YAML, used by cmd/ops to print the effective tuning.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

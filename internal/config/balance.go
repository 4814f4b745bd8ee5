package config

// Default returns the stock tuning. Every value matches the documented
// gameplay constants; presets below only nudge a handful of them.
func Default() Config {
	return Config{
		Version: "2",
		Tick: TickConfig{
			FixedIntervalMs: 1000,
			FastIntervalMs:  50,
			MaxFastDtS:      0.1,
			OfflineMaxTicks: 28800,
			Seed:            0,
		},
		Flashlight: FlashlightConfig{
			Capacity:             100,
			DrainPerSecond:       6,
			RechargePerSecond:    22,
			RechargePerExtraLvl:  5,
			LowThreshold:         20,
			ManualCharge:         15,
			MinDrainPerSecond:    0.5,
			TimedRechargeMs:      3000,
			CapacityPerLevel:     0.01,
			DrainReductionPerLvl: 0.01,
			SynergyCapacityBonus: 0.10,
			SynergyDrainCut:      0.05,
		},
		Personnel: PersonnelConfig{
			BaseSpeed:          5,
			DarkSpeedFactor:    0.6,
			InjuredSpeedFactor: 0.5,
			ExperienceRate:     0.1,
			BlockWindow:        25,
			LevelCostBase:      50,
			LevelCostPerLevel:  25,
			SurvivalCostBase:   40,
			SurvivalCostScale:  50,
			SurvivalStep:       0.05,
			SurvivalCap:        0.99,
			SpeedCostBase:      30,
			SpeedCostScale:     20,
			SpeedStep:          0.1,
			ReplaceCost:        100,
		},
		Encounters: EncounterConfig{
			MaxConcurrent:          5,
			SpawnChance:            0.08,
			FastSpawnChance:        0.005,
			MilestoneEvery:         500,
			MilestoneWindow:        50,
			MilestoneBoost:         1.5,
			HostileShareBase:       0.2,
			HostileShareMax:        0.5,
			SpawnAheadMin:          40,
			SpawnAheadJitter:       80,
			FastSpawnStep:          34,
			EscalationChance:       0.02,
			MidFlightCasualtyScale: 0.5,
			Hostile: KindConfig{
				RewardBase:       150,
				RewardPer100:     25,
				DurationMs:       8000,
				DurationPer100Ms: 1000,
				CasualtyBase:     0.15,
				CasualtyDepthDiv: 2000,
				CasualtyMax:      0.9,
				RequiredMin:      2,
				RequiredDepthDiv: 300,
				RequiredOffset:   2,
				TimeoutMs:        20000,
			},
			Anomaly: KindConfig{
				RewardBase:       40,
				RewardPer100:     10,
				DurationMs:       4000,
				DurationPer100Ms: 500,
				CasualtyBase:     0.05,
				CasualtyDepthDiv: 4000,
				CasualtyMax:      0.5,
				RequiredMin:      1,
				RequiredDepthDiv: 500,
				RequiredOffset:   1,
				TimeoutMs:        12000,
			},
		},
		Risk: RiskConfig{
			BaseRate:      0.05,
			DepthDivisor:  500,
			DepthWeight:   0.5,
			DeathZoneRate: 0.15,
			DeathZones: []DepthBand{
				{From: 500, To: 520},
				{From: 1000, To: 1020},
				{From: 1500, To: 1520},
			},
			MaxCasualties:     2,
			MaxAssignedShare:  0.3,
			RecallAssignedMax: 2,
			RecallCountMax:    1,
			AmbientLogChance:  0.02,
		},
		Pool: PoolConfig{
			StartCount:         10,
			Capacity:           50,
			GenerationPerMin:   1,
			MortalityRate:      0.5,
			MinTeam:            4,
			RecruitBaseCost:    50,
			RecruitPerUnitCost: 10,
			BulkThreshold:      5,
			BulkDiscount:       0.2,
		},
		Economy: EconomyConfig{
			StartEnergy:        0,
			StartContainment:   0,
			EnergyPerTick:      1,
			EnergyPerDepth:     0.01,
			ResearchBonus:      0.25,
			ContainmentYield:   0.01,
			KnowledgePerReset:  1000,
			KnowledgeBonus:     0.1,
			UpgradeCostGrowth:  1.15,
			CompletionDepthDiv: 1000,
		},
		Log: LogConfig{
			Retention: 200,
		},
		Server: ServerConfig{
			Addr:           ":42087",
			SavePath:       "data/save.json",
			AutosaveEveryS: 30,
		},
	}
}

// Casual returns easier balance for casual difficulty
func Casual() Config {
	cfg := Default()
	cfg.Pool.StartCount = 15
	cfg.Pool.MortalityRate = 0.35
	cfg.Pool.GenerationPerMin = 1.5
	cfg.Flashlight.DrainPerSecond = 4
	cfg.Encounters.MaxConcurrent = 4
	return cfg
}

// Hard returns harder balance for experienced players
func Hard() Config {
	cfg := Default()
	cfg.Pool.StartCount = 8
	cfg.Pool.MortalityRate = 0.7
	cfg.Pool.GenerationPerMin = 0.5
	cfg.Flashlight.DrainPerSecond = 8
	cfg.Encounters.MaxConcurrent = 7
	cfg.Encounters.SpawnChance = 0.12
	return cfg
}

// Preset resolves a difficulty name; unknown names fall back to Default.
func Preset(name string) Config {
	switch name {
	case "casual":
		return Casual()
	case "hard":
		return Hard()
	default:
		return Default()
	}
}

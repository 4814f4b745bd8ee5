package sim

import (
	"fmt"

	"stairwell/internal/personnel"
	"stairwell/internal/upgrade"
)

type CommandType string

const (
	CmdDeploy           CommandType = "deploy"
	CmdRecall           CommandType = "recall"
	CmdStartInteraction CommandType = "start_interaction"
	CmdAbort            CommandType = "abort"
	CmdUpgradePersonnel CommandType = "upgrade_personnel"
	CmdReplacePersonnel CommandType = "replace_personnel"
	CmdRecruit          CommandType = "recruit"
	CmdToggleFlashlight CommandType = "toggle_flashlight"
	CmdManualCharge     CommandType = "manual_charge"
	CmdTimedRecharge    CommandType = "timed_recharge"
	CmdPurchase         CommandType = "purchase"
	CmdResetFacility    CommandType = "reset_facility"
)

// Command is a player action as it arrives from a driver.
type Command struct {
	Type        CommandType         `json:"type"`
	EncounterID string              `json:"encounter_id,omitempty"`
	PersonnelID string              `json:"personnel_id,omitempty"`
	Attribute   personnel.Attribute `json:"attribute,omitempty"`
	UpgradeID   upgrade.ID          `json:"upgrade_id,omitempty"`
	Count       int                 `json:"count,omitempty"`
}

// Apply dispatches cmd. Abort never fails: an unknown or finished encounter
// is a no-op.
func (e *Engine) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdDeploy:
		return e.Deploy()
	case CmdRecall:
		return e.Recall()
	case CmdStartInteraction:
		return e.StartInteraction(cmd.EncounterID)
	case CmdAbort:
		e.Abort(cmd.EncounterID)
		return nil
	case CmdUpgradePersonnel:
		return e.UpgradePersonnel(cmd.PersonnelID, cmd.Attribute)
	case CmdReplacePersonnel:
		return e.ReplacePersonnel(cmd.PersonnelID)
	case CmdRecruit:
		n := cmd.Count
		if n == 0 {
			n = 1
		}
		return e.Recruit(n)
	case CmdToggleFlashlight:
		e.ToggleFlashlight()
		return nil
	case CmdManualCharge:
		e.ManualCharge()
		return nil
	case CmdTimedRecharge:
		return e.TimedRecharge()
	case CmdPurchase:
		return e.Purchase(cmd.UpgradeID)
	case CmdResetFacility:
		e.ResetFacility()
		return nil
	}
	return fmt.Errorf("command %q: %w", cmd.Type, ErrUnknownReference)
}

// View is the read-only picture handed to renderers.
type View struct {
	State
	TeamDeployed  bool    `json:"team_deployed"`
	CurrentDepth  float64 `json:"current_depth"`
	FlashlightLow bool    `json:"flashlight_low"`
	RecruitCost   float64 `json:"recruit_cost"`
	RiskRate      float64 `json:"risk_rate"`
	InDeathZone   bool    `json:"in_death_zone"`
}

func (e *Engine) View() View {
	depth := e.st.CurrentDepth()
	return View{
		State:         e.Snapshot(),
		TeamDeployed:  e.st.TeamDeployed(),
		CurrentDepth:  depth,
		FlashlightLow: e.st.Flashlight.Low(),
		RecruitCost:   e.RecruitCost(1),
		RiskRate:      e.riskRate(depth),
		InDeathZone:   e.cfg.Risk.InDeathZone(depth),
	}
}

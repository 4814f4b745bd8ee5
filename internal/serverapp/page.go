package serverapp

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"stairwell/internal/eventlog"
	"stairwell/internal/sim"

	"github.com/a-h/templ"
)

const pageLogLines = 15

func (s *server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	entries := s.events.Entries()
	if len(entries) > pageLogLines {
		entries = entries[len(entries)-pageLogLines:]
	}
	templ.Handler(statusPage(s.runner.View(), entries)).ServeHTTP(w, r)
}

// statusPage renders a plain read-only dashboard; the live log hangs off
// /ws/log.
func statusPage(v sim.View, entries []eventlog.Entry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<!doctype html><html><head><meta charset="utf-8"><title>Stairwell</title>`)
		p.raw(`<style>body{font-family:monospace;background:#111;color:#ddd;margin:2em}` +
			`.critical{color:#f55}.warning{color:#fb3}.info{color:#8ad}td{padding:0 1em 0 0}</style>`)
		p.raw(`</head><body><h1>Stairwell</h1>`)

		p.raw(`<h2>Facility</h2><table>`)
		p.row("Energy", fmt.Sprintf("%.1f", v.Resources.Energy))
		p.row("Containment", fmt.Sprintf("%.1f", v.Resources.Containment))
		p.row("Knowledge", fmt.Sprintf("%.1f", v.Resources.Knowledge))
		p.row("D-Class", fmt.Sprintf("%.0f / %.0f (%.0f assigned)", v.Pool.Count, v.Pool.Capacity, v.Pool.Assigned))
		p.row("Recruit cost", fmt.Sprintf("%.0f", v.RecruitCost))
		p.raw(`</table>`)

		p.raw(`<h2>Team</h2><table>`)
		status := "idle"
		if v.TeamDeployed {
			status = "deployed"
		}
		p.row("Status", status)
		p.row("Depth", fmt.Sprintf("%.1f", v.CurrentDepth))
		p.row("Risk", fmt.Sprintf("%.3f%%/tick", v.RiskRate*100))
		if v.InDeathZone {
			p.row("Zone", "DEATH ZONE")
		}
		light := "off"
		if v.Flashlight.On {
			light = "on"
		}
		p.row("Flashlight", fmt.Sprintf("%s %.0f/%.0f", light, v.Flashlight.Charge, v.Flashlight.Capacity))
		for _, m := range v.Personnel {
			p.row(m.Name, fmt.Sprintf("%s depth %.1f %s", m.Role, m.Depth, m.Status))
		}
		p.raw(`</table>`)

		p.raw(`<h2>Encounters</h2><table>`)
		for _, e := range v.Encounters {
			state := "waiting"
			if e.InProgress {
				state = "in progress"
			}
			p.row(e.ID, fmt.Sprintf("%s at %.0f, %d units, %s", e.Kind, e.Depth, e.RequiredUnits, state))
		}
		p.raw(`</table>`)

		p.raw(`<h2>Log</h2><ul>`)
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			p.raw(`<li class="` + templ.EscapeString(string(e.Severity)) + `">`)
			p.text(e.At.Format("15:04:05") + " " + e.Message)
			p.raw(`</li>`)
		}
		p.raw(`</ul></body></html>`)
		return p.err
	})
}

// pageWriter keeps the first write error so the page body reads linearly.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) row(label, value string) {
	p.raw(`<tr><td>`)
	p.text(label)
	p.raw(`</td><td>`)
	p.text(value)
	p.raw(`</td></tr>`)
}

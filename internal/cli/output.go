package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/gemfall/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Profile:
		o.printProfile(v)
	case []response.Profile:
		o.printProfiles(v)
	case response.Simulation:
		o.printSimulation(v)
	case []response.Simulation:
		o.printSimulations(v)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printProfile(p response.Profile) {
	kind := "custom"
	if p.Builtin {
		kind = "builtin"
	}
	_, _ = fmt.Fprintf(o.w, "Profile: %s (%s)\n", p.Name, kind)
	_, _ = fmt.Fprintf(o.w, "Side: %s\n", p.Side)
	_, _ = fmt.Fprintf(o.w, "Wait: %dms +/- %dms\n", p.AverageWaitMs, p.JitterMs)
	_, _ = fmt.Fprintf(o.w, "Depth: %d\n", p.Depth)
}

func (o *Output) printProfiles(profiles []response.Profile) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tSIDE\tWAIT\tJITTER\tDEPTH\tBUILTIN")
	for _, p := range profiles {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%t\n", p.Name, p.Side, p.AverageWaitMs, p.JitterMs, p.Depth, p.Builtin)
	}
	_ = tw.Flush()
}

func (o *Output) printSimulation(s response.Simulation) {
	_, _ = fmt.Fprintf(o.w, "Simulation: %s\n", s.ID)
	_, _ = fmt.Fprintf(o.w, "Profile: %s  Seed: %s  Field: %dx%d\n", s.Profile, s.Seed, s.Width, s.Height)
	_, _ = fmt.Fprintf(o.w, "Pieces: %d  Score: %d  Max chain: %d  Cleared: %d\n", s.Pieces, s.Score, s.MaxChain, s.TilesCleared)
	var notes []string
	if s.ToppedOut {
		notes = append(notes, "topped out")
	}
	notes = append(notes, fmt.Sprintf("%d actions", s.Actions), fmt.Sprintf("%d evaluations", s.Evaluations))
	_, _ = fmt.Fprintf(o.w, "%s, %dms\n", strings.Join(notes, ", "), s.ElapsedMs)
}

func (o *Output) printSimulations(sims []response.Simulation) {
	if len(sims) == 1 {
		o.printSimulation(sims[0])
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tPROFILE\tSEED\tPIECES\tSCORE\tCHAIN\tTOPPED OUT")
	total := 0
	for _, s := range sims {
		total += s.Score
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%t\n", s.ID, s.Profile, s.Seed, s.Pieces, s.Score, s.MaxChain, s.ToppedOut)
	}
	_ = tw.Flush()
	if len(sims) > 0 {
		_, _ = fmt.Fprintf(o.w, "Mean score: %d over %d games\n", total/len(sims), len(sims))
	}
}

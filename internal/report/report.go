// Package report renders solver results as terminal tables, plots and JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/trussim/internal/solver"
)

type Printer struct {
	w         io.Writer
	precision int
}

func NewPrinter(w io.Writer, precision int) *Printer {
	if precision <= 0 {
		precision = 6
	}
	return &Printer{w: w, precision: precision}
}

func (p *Printer) num(v float64) string {
	return fmt.Sprintf("%.*g", p.precision, v)
}

// Print writes the summary followed by the displacement, force and
// reaction tables.
func (p *Printer) Print(res *solver.Result) error {
	title := res.Name
	if title == "" {
		title = "truss"
	}
	fmt.Fprintln(p.w, TitleStyle.Render(title))
	fmt.Fprintln(p.w, Subtle.Render(fmt.Sprintf("%d nodes, %d members, %d free dofs, cond %.3g",
		len(res.Nodes), len(res.Members), res.FreeDOFs, res.Condition)))
	if res.Condition > solver.IllConditioned {
		fmt.Fprintln(p.w, WarnStyle.Render("warning: stiffness matrix is ill-conditioned"))
	}
	fmt.Fprintln(p.w)

	if err := p.Displacements(res); err != nil {
		return err
	}
	fmt.Fprintln(p.w)
	if err := p.Forces(res); err != nil {
		return err
	}
	fmt.Fprintln(p.w)
	return p.Reactions(res)
}

func (p *Printer) Displacements(res *solver.Result) error {
	fmt.Fprintln(p.w, HeaderStyle.Render("Nodal displacements"))
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tUX\tUY")
	for i := range res.Nodes {
		ux, uy, err := res.NodeDisplacement(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, p.num(ux), p.num(uy))
	}
	return w.Flush()
}

func (p *Printer) Forces(res *solver.Result) error {
	fmt.Fprintln(p.w, HeaderStyle.Render("Member forces"))
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tNODES\tFORCE\tSTRESS\t")
	for i, m := range res.Members {
		fmt.Fprintf(w, "%d\t%d-%d\t%s\t%s\t%s\n", m.ID, m.Node1, m.Node2,
			p.num(res.Forces[i]), p.num(res.Stresses[i]), Sense(res.Forces[i]))
	}
	return w.Flush()
}

func (p *Printer) Reactions(res *solver.Result) error {
	fmt.Fprintln(p.w, HeaderStyle.Render("Support reactions"))
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tAXIS\tREACTION")
	for k, dof := range res.ReactionDOFs {
		fmt.Fprintf(w, "%d\t%s\t%s\n", dof/2, Axis(dof), p.num(res.Reactions[k]))
	}
	return w.Flush()
}

// Metrics lists the metric values in the order given by names.
func (p *Printer) Metrics(res *solver.Result, names []string) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		v, ok := res.Metrics[name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", name, p.num(v))
	}
	return w.Flush()
}

// PlotForces draws member forces against member index.
func PlotForces(forces []float64, height, width int) string {
	if len(forces) < 2 {
		return ""
	}
	if height <= 0 {
		height = 12
	}
	if width <= 0 {
		width = 60
	}
	return asciigraph.Plot(forces,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("member axial force (tension +)"),
	)
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *solver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func ExportJSON(path string, res *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, res); err != nil {
		return err
	}
	return file.Close()
}

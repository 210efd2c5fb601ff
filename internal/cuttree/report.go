package cuttree

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/eugenenazirov/strip-cutter/internal/geometry"
)

const indent = "      "

// Report writes an indented, human-readable description of the tree to w.
func (n *Node) Report(w io.Writer) error {
	return n.report(w, 0)
}

func (n *Node) String() string {
	var sb strings.Builder
	_ = n.Report(&sb)
	return sb.String()
}

func (n *Node) report(w io.Writer, level int) error {
	tab := strings.Repeat(indent, level)
	if n == nil || n.Kind == KindInfeasible {
		_, err := fmt.Fprintf(w, "%sInfeasible region\n", tab)
		return err
	}

	if n.Kind == KindLeaf {
		_, err := fmt.Fprintf(w, "%sPiece %s at %s\n%s%s\n%s%s\n",
			tab, n.Piece, n.Origin,
			tab, describe(n.Marks[0]),
			tab, describe(n.Marks[1]))
		return err
	}

	direction, first, second := "Horizontal", "Bottom", "Top"
	if n.IsVertical() {
		direction, first, second = "Vertical", "Left", "Right"
	}
	at := geometry.FormatLength(math.Abs(n.Offset))
	if _, err := fmt.Fprintf(w, "%s%s cut at %s\n", tab, direction, at); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s%s part:\n", tab, indent, first); err != nil {
		return err
	}
	if err := n.First.report(w, level+2); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s%s part:\n", tab, indent, second); err != nil {
		return err
	}
	return n.Second.report(w, level+2)
}

func describe(v float64) string {
	direction := "Vertical"
	if v > 0 {
		direction = "Horizontal"
	}
	return direction + " at " + geometry.FormatLength(math.Abs(v))
}

// ABOUTME: GraphViz rendering of feature requests and the POCs that need them
// ABOUTME: Builds a bipartite graph from aggregate rows with deal-breaker edges highlighted
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/money"
)

// Graph is a rendered feature request graph.
type Graph struct {
	Format string
	Data   []byte
	Nodes  int
	Edges  int
}

// ParseFormat maps a user-facing format name to a graphviz output format.
func ParseFormat(name string) (graphviz.Format, error) {
	switch strings.ToLower(name) {
	case "", "dot", "xdot":
		return graphviz.XDOT, nil
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	}
	return "", fmt.Errorf("unknown graph format: %s (valid formats: dot, svg, png)", name)
}

// FeatureGraph draws one box per feature request row and one ellipse per
// contributing POC. A POC linked to several rows appears once.
func FeatureGraph(ctx context.Context, rows []analytics.AggregateRow, format graphviz.Format) (*Graph, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			log.Warn("failed to close graphviz", "err", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			log.Warn("failed to close graph", "err", err)
		}
	}()

	graph.SetLabel("Feature requests by POC value")
	graph.SetRankDir(cgraph.LRRank)

	out := &Graph{Format: string(format)}
	pocNodes := make(map[string]*cgraph.Node)

	for _, row := range rows {
		frNode, err := graph.CreateNodeByName("fr_" + row.FeatureRequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to create feature request node: %w", err)
		}
		frNode.SetLabel(fmt.Sprintf("%s\n%s", row.Title, money.FormatShort(row.TotalValue)))
		frNode.SetShape("box")
		frNode.SetStyle("filled")
		if row.Status == analytics.RowWon {
			frNode.SetFillColor("lightgreen")
		} else {
			frNode.SetFillColor("lightsalmon")
		}
		out.Nodes++

		for _, c := range row.POCs {
			node, ok := pocNodes[c.POCID]
			if !ok {
				node, err = graph.CreateNodeByName("poc_" + c.POCID)
				if err != nil {
					return nil, fmt.Errorf("failed to create poc node: %w", err)
				}
				node.SetLabel(fmt.Sprintf("%s\n%s (%s)", c.CustomerName, money.FormatShort(c.Value), c.Lifecycle.Label))
				node.SetShape("ellipse")
				node.SetStyle("filled")
				node.SetFillColor(lifecycleColor(c))
				pocNodes[c.POCID] = node
				out.Nodes++
			}

			edge, err := graph.CreateEdgeByName(c.POCID+"_"+row.FeatureRequestID, node, frNode)
			if err != nil {
				return nil, fmt.Errorf("failed to create edge: %w", err)
			}
			if c.Importance != "" {
				edge.SetLabel(c.Importance)
			}
			if c.DealBreaker {
				edge.SetColor("red")
				edge.SetStyle("bold")
			} else {
				edge.SetStyle("dashed")
			}
			out.Edges++
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	out.Data = buf.Bytes()
	return out, nil
}

func lifecycleColor(c analytics.Contribution) string {
	switch {
	case c.Lifecycle.IsClosed() && c.Won:
		return "palegreen"
	case c.Lifecycle.IsClosed():
		return "lightgray"
	case c.Lifecycle.State == analytics.StateInReview:
		return "lightblue"
	}
	return "lightyellow"
}

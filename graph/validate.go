package graph

import (
	"strconv"

	"flowgraph/block"
	"flowgraph/flowerr"
	"flowgraph/graphevents"
	"flowgraph/internal/platform"
)

func portNotFoundErr(b block.Block, dir block.Direction, idx int) error {
	return flowerr.New(flowerr.PortNotFound, "validate",
		b.ID()+" "+dir.String()+" port "+strconv.Itoa(idx)+" not found")
}

// validatePortsExist is validation step 1: every edge endpoint must
// reference a port index that actually exists on its block.
func validatePortsExist(prims []block.Block, edges []block.Edge) error {
	for _, e := range edges {
		if e.SrcPort < 0 || e.SrcPort >= len(e.Src.Outputs()) {
			return portNotFoundErr(e.Src, block.Output, e.SrcPort)
		}
		if e.DstPort < 0 || e.DstPort >= len(e.Dst.Inputs()) {
			return portNotFoundErr(e.Dst, block.Input, e.DstPort)
		}
	}
	return nil
}

// validateTypeMatch is validation step 2: an edge's source and
// destination port must carry the same SampleType.
func validateTypeMatch(edges []block.Edge) error {
	for _, e := range edges {
		srcType := e.Src.Outputs()[e.SrcPort].Type
		dstType := e.Dst.Inputs()[e.DstPort].Type
		if srcType != dstType {
			return flowerr.New(flowerr.TypeMismatch, "validate",
				e.Src.ID()+"."+strconv.Itoa(e.SrcPort)+" ("+srcType.String()+") -> "+
					e.Dst.ID()+"."+strconv.Itoa(e.DstPort)+" ("+dstType.String()+")")
		}
	}
	return nil
}

// validateFanIn is validation step 3: no input port may have two
// incoming edges.
func validateFanIn(edges []block.Edge) error {
	type key struct {
		b   block.Block
		idx int
	}
	seen := map[key]bool{}
	for _, e := range edges {
		k := key{e.Dst, e.DstPort}
		if seen[k] {
			return flowerr.New(flowerr.MultiplyConnectedInput, "validate",
				e.Dst.ID()+" input "+strconv.Itoa(e.DstPort)+" has more than one incoming edge")
		}
		seen[k] = true
	}
	return nil
}

// validateUnconnectedInputs is validation step 5: every non-source
// block (one with at least one declared input) must have every input
// connected.
func validateUnconnectedInputs(prims []block.Block, edges []block.Edge) error {
	connected := map[block.Block]map[int]bool{}
	for _, e := range edges {
		m := connected[e.Dst]
		if m == nil {
			m = map[int]bool{}
			connected[e.Dst] = m
		}
		m[e.DstPort] = true
	}
	for _, b := range prims {
		ins := b.Inputs()
		m := connected[b]
		for i := range ins {
			if !m[i] {
				return flowerr.New(flowerr.UnconnectedInput, "validate",
					b.ID()+" input "+strconv.Itoa(i)+" ("+ins[i].Type.String()+") is unconnected")
			}
		}
	}
	return nil
}

// topoSort is validation step 4: Kahn's algorithm over the primitive
// blocks, treating each edge as a Src->Dst dependency. Returns
// GraphCycle if not every block can be ordered.
func topoSort(prims []block.Block, edges []block.Edge) ([]block.Block, error) {
	indeg := map[block.Block]int{}
	adj := map[block.Block][]block.Block{}
	for _, b := range prims {
		indeg[b] = 0
	}
	for _, e := range edges {
		adj[e.Src] = append(adj[e.Src], e.Dst)
		indeg[e.Dst]++
	}

	var queue []block.Block
	for _, b := range prims {
		if indeg[b] == 0 {
			queue = append(queue, b)
		}
	}

	order := make([]block.Block, 0, len(prims))
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		order = append(order, b)
		for _, next := range adj[b] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(prims) {
		return nil, flowerr.New(flowerr.GraphCycle, "validate", "graph contains a cycle")
	}
	return order, nil
}

// propagateRates walks the topologically ordered blocks from sources,
// calling SetRate on each with the rates its inputs carry and recording
// the rates it reports for its own outputs. A non-source block whose
// computed output rate is exactly 0 is treated as undefined: nothing
// upstream established a meaningful rate for it.
func propagateRates(order []block.Block, edges []block.Edge, events *graphevents.Bus) (map[block.Block][]float64, error) {
	producerOf := map[block.Block]map[int]resolvedPort{}
	for _, e := range edges {
		m := producerOf[e.Dst]
		if m == nil {
			m = map[int]resolvedPort{}
			producerOf[e.Dst] = m
		}
		m[e.DstPort] = resolvedPort{block: e.Src, port: e.SrcPort}
	}

	outRates := map[block.Block][]float64{}
	for _, b := range order {
		ins := b.Inputs()
		inputRates := make([]float64, len(ins))
		for i := range ins {
			prod := producerOf[b][i]
			inputRates[i] = outRates[prod.block][prod.port]
		}
		rates := b.SetRate(inputRates)
		platform.Log().Debug("setRate", "block", b.ID(), "inputRates", inputRates, "outputRates", rates)
		events.PublishRateSet(b.ID())
		if len(b.Inputs()) > 0 {
			for _, r := range rates {
				if r == 0 {
					return nil, flowerr.New(flowerr.UndefinedRate, "validate",
						b.ID()+" produced an undefined (zero) output rate")
				}
			}
		}
		outRates[b] = rates
	}
	return outRates, nil
}

package graph

import "flowgraph/block"

type resolvedPort struct {
	block block.Block
	port  int
}

// expand replaces every Composite in g.blocks/g.edges with its
// expansion, recursively, per spec.md's "composite expansion is
// performed before 3-5" rule. The returned blocks slice contains only
// primitives; the returned edges slice references only primitive ports.
func (g *Flowgraph) expand() ([]block.Block, []block.Edge, error) {
	var prims []block.Block
	var innerEdges []block.Edge
	resolvedOut := map[block.Block]map[int]resolvedPort{}
	resolvedIn := map[block.Block]map[int]resolvedPort{}
	expanded := map[block.Block]bool{}

	var walk func(b block.Block) error
	walk = func(b block.Block) error {
		comp, ok := b.(block.Composite)
		if !ok {
			prims = append(prims, b)
			return nil
		}
		if expanded[b] {
			return nil
		}
		expanded[b] = true

		subBlocks, subEdges, aliases := comp.Expand()
		for _, sb := range subBlocks {
			if err := walk(sb); err != nil {
				return err
			}
		}
		innerEdges = append(innerEdges, subEdges...)

		ro := map[int]resolvedPort{}
		ri := map[int]resolvedPort{}
		for _, al := range aliases {
			rp, err := resolvePort(al.Inner, al.Dir, al.InnerIndex, resolvedOut, resolvedIn)
			if err != nil {
				return err
			}
			if al.Dir == block.Output {
				ro[al.Index] = rp
			} else {
				ri[al.Index] = rp
			}
		}
		resolvedOut[b] = ro
		resolvedIn[b] = ri
		return nil
	}

	for _, b := range g.blocks {
		if err := walk(b); err != nil {
			return nil, nil, err
		}
	}

	all := make([]block.Edge, 0, len(g.edges)+len(innerEdges))
	all = append(all, g.edges...)
	all = append(all, innerEdges...)

	final := make([]block.Edge, 0, len(all))
	for _, e := range all {
		src, srcPort := e.Src, e.SrcPort
		if _, isComposite := src.(block.Composite); isComposite {
			rp, err := resolvePort(src, block.Output, srcPort, resolvedOut, resolvedIn)
			if err != nil {
				return nil, nil, err
			}
			src, srcPort = rp.block, rp.port
		}
		dst, dstPort := e.Dst, e.DstPort
		if _, isComposite := dst.(block.Composite); isComposite {
			rp, err := resolvePort(dst, block.Input, dstPort, resolvedOut, resolvedIn)
			if err != nil {
				return nil, nil, err
			}
			dst, dstPort = rp.block, rp.port
		}
		final = append(final, block.Edge{Src: src, SrcPort: srcPort, Dst: dst, DstPort: dstPort})
	}
	return prims, final, nil
}

func resolvePort(b block.Block, dir block.Direction, idx int, resolvedOut, resolvedIn map[block.Block]map[int]resolvedPort) (resolvedPort, error) {
	if _, isComposite := b.(block.Composite); !isComposite {
		return resolvedPort{block: b, port: idx}, nil
	}
	m := resolvedIn[b]
	if dir == block.Output {
		m = resolvedOut[b]
	}
	rp, ok := m[idx]
	if !ok {
		return resolvedPort{}, portNotFoundErr(b, dir, idx)
	}
	return rp, nil
}

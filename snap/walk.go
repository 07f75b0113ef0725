package snap

// Walk visits every envelope in a node tree depth-first, calling fn with
// the envelope's tag and payload before descending into it. Map values and
// list elements are both traversed, so scalar envelope fields and
// sequence-of-envelope fields (a group's children, a layer's cels, a
// tileset's tiles) are covered alike.
func Walk(n *Node, fn func(tag string, data *Node) error) error {
	switch n.Kind() {
	case KindEnvelope:
		if err := fn(n.envTag, n.envData); err != nil {
			return err
		}
		return Walk(n.envData, fn)
	case KindMap:
		for _, e := range n.mapVal {
			if err := Walk(e.Value, fn); err != nil {
				return err
			}
		}
	case KindList:
		for _, item := range n.listVal {
			if err := Walk(item, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

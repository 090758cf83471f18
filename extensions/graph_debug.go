package extensions

import (
	"sort"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
	"github.com/sitharaj88/reacton"
)

// GraphDebugExtension renders the dependency graph as an ASCII tree when
// Render is called, labelling nodes whose recompute failed (recorded via
// OnError), for pasting into an error report or a terminal.
// Grounded in the teacher's extensions/graph_debug.go (treedrawer usage,
// recursive tree-building over a child-adjacency map), adapted from
// executor-keyed slog attributes to *reacton.Ref-keyed plain text.
type GraphDebugExtension struct {
	reacton.BaseExtension
	failed map[*reacton.Ref]error
}

// NewGraphDebugExtension creates a GraphDebugExtension.
func NewGraphDebugExtension() *GraphDebugExtension {
	return &GraphDebugExtension{
		BaseExtension: reacton.NewBaseExtension("graph-debug", 90),
		failed:        make(map[*reacton.Ref]error),
	}
}

func (e *GraphDebugExtension) OnError(ref *reacton.Ref, err error) {
	e.failed[ref] = err
}

// Render draws the Store's current dependency graph rooted at every node
// with no upstream sources, marking any node that last failed.
func (e *GraphDebugExtension) Render(store *reacton.Store) string {
	graph := store.ExportDependencyGraph()
	if len(graph) == 0 {
		return "(empty - no nodes registered)"
	}

	hasParent := make(map[*reacton.Ref]bool)
	for _, children := range graph {
		for _, c := range children {
			hasParent[c] = true
		}
	}

	var roots []*reacton.Ref
	for ref := range graph {
		if !hasParent[ref] {
			roots = append(roots, ref)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name() < roots[j].Name() })

	var sb strings.Builder
	for i, root := range roots {
		if i > 0 {
			sb.WriteString("\n")
		}
		t := e.buildTree(root, graph, make(map[*reacton.Ref]bool))
		sb.WriteString(t.String())
	}
	return sb.String()
}

func (e *GraphDebugExtension) buildTree(ref *reacton.Ref, graph map[*reacton.Ref][]*reacton.Ref, visited map[*reacton.Ref]bool) *tree.Tree {
	node := tree.NewTree(tree.NodeString(e.label(ref)))
	visited[ref] = true

	children := append([]*reacton.Ref(nil), graph[ref]...)
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	for _, c := range children {
		e.addChild(node, c, graph, visited)
	}
	return node
}

func (e *GraphDebugExtension) addChild(parent *tree.Tree, ref *reacton.Ref, graph map[*reacton.Ref][]*reacton.Ref, visited map[*reacton.Ref]bool) {
	if visited[ref] {
		parent.AddChild(tree.NodeString(e.label(ref) + " (cycle)"))
		return
	}
	visited[ref] = true

	childNode := parent.AddChild(tree.NodeString(e.label(ref)))
	children := append([]*reacton.Ref(nil), graph[ref]...)
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	for _, c := range children {
		e.addChild(childNode, c, graph, visited)
	}
}

func (e *GraphDebugExtension) label(ref *reacton.Ref) string {
	if _, failed := e.failed[ref]; failed {
		return ref.Name() + " [error]"
	}
	return ref.Name()
}

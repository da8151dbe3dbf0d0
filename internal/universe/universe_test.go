package universe

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func pathGraph() *Graph {
	g := NewGraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddSystem(id)
	}
	g.ConnectBoth("A", "B")
	g.ConnectBoth("B", "C")
	g.ConnectBoth("C", "D")
	return g
}

func TestShortestHopsPathGraph(t *testing.T) {
	g := pathGraph()

	if got := g.ShortestHops("A", NewTargetSet("D")); got != 3 {
		t.Errorf("A->D = %d, expected 3", got)
	}
	if got := g.ShortestHops("A", NewTargetSet("C", "D")); got != 2 {
		t.Errorf("A->{C,D} = %d, expected 2", got)
	}
	if got := g.ShortestHops("A", NewTargetSet()); got != NotFound {
		t.Errorf("A->{} = %d, expected NotFound", got)
	}
}

func TestShortestHopsStartIsTarget(t *testing.T) {
	g := pathGraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		if got := g.ShortestHops(id, NewTargetSet(id)); got != 0 {
			t.Errorf("%s->{%s} = %d, expected 0", id, id, got)
		}
	}
	// unknown to the graph but still a target
	if got := g.ShortestHops("Z", NewTargetSet("Z")); got != 0 {
		t.Errorf("Z->{Z} = %d, expected 0", got)
	}
	if got := g.ShortestHops("Z", NewTargetSet("A")); got != NotFound {
		t.Errorf("unknown start = %d, expected NotFound", got)
	}
}

func TestShortestHopsFollowsStoredDirection(t *testing.T) {
	// one-way chain X -> Y -> W
	g := NewGraph()
	g.AddSystem("X")
	g.AddSystem("Y")
	g.AddSystem("W")
	g.Connect("X", "Y")
	g.Connect("Y", "W")

	if got := g.ShortestHops("X", NewTargetSet("W")); got != 2 {
		t.Errorf("X->W = %d, expected 2", got)
	}
	if got := g.ShortestHops("W", NewTargetSet("X")); got != NotFound {
		t.Errorf("W->X = %d, expected NotFound for a one-way edge", got)
	}
}

func TestShortestHopsHandlesCycles(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"1", "2", "3", "4"} {
		g.AddSystem(id)
	}
	g.ConnectBoth("1", "2")
	g.ConnectBoth("2", "3")
	g.ConnectBoth("3", "1")

	// "4" is isolated: search must terminate
	if got := g.ShortestHops("1", NewTargetSet("4")); got != NotFound {
		t.Errorf("expected NotFound, got %d", got)
	}
	if got := g.ShortestHops("1", NewTargetSet("3")); got != 1 {
		t.Errorf("1->3 = %d, expected 1", got)
	}
}

func TestSearcherReuse(t *testing.T) {
	g := pathGraph()
	s := g.NewSearcher()
	maskD := g.Mask(NewTargetSet("D"))
	a, _ := g.Index("A")
	c, _ := g.Index("C")

	for i := 0; i < 100; i++ {
		if got := s.ShortestHops(a, maskD); got != 3 {
			t.Fatalf("iteration %d: A->D = %d", i, got)
		}
		if got := s.ShortestHops(c, maskD); got != 1 {
			t.Fatalf("iteration %d: C->D = %d", i, got)
		}
	}
}

func TestGraphBookkeeping(t *testing.T) {
	g := NewGraph()
	g.AddSystem("A")
	g.AddSystem("A")
	g.Connect("A", "B")
	g.Connect("A", "B")

	if g.SystemCount() != 1 {
		t.Errorf("SystemCount = %d, expected 1", g.SystemCount())
	}
	if g.Len() != 2 {
		t.Errorf("Len = %d, expected 2", g.Len())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, expected 1", g.EdgeCount())
	}
	if n := g.Neighbors("A"); !slices.Equal(n, []string{"B"}) {
		t.Errorf("Neighbors(A) = %v", n)
	}
	if n := g.Neighbors("nope"); n != nil {
		t.Errorf("Neighbors(nope) = %v, expected nil", n)
	}
	if ids := g.Systems(); !slices.Equal(ids, []string{"A"}) {
		t.Errorf("Systems = %v", ids)
	}
}

func TestBuildFromRecords(t *testing.T) {
	systems := []SystemRecord{
		{ID: "1", Security: "0.0"},
		{ID: "2", Security: "0.0"},
		{ID: "3", Security: "0.5"},
		{ID: "", Security: "0.0"},
	}
	connections := []ConnectionRecord{
		{SystemID: "1", JumpNodes: "3"},
		{SystemID: "3", JumpNodes: "1:2"},
		{SystemID: "2", JumpNodes: " 3 : "},
	}
	g := Build(systems, connections, BuildOptions{Include: SecurityIs("0.0")})

	if got := g.Systems(); !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("Systems = %v, expected [1 2]", got)
	}
	// the route passes through a non-candidate system
	if got := g.ShortestHops("1", NewTargetSet("2")); got != 2 {
		t.Errorf("1->2 = %d, expected 2 via 3", got)
	}
	if got := g.Neighbors("2"); !slices.Equal(got, []string{"3"}) {
		t.Errorf("Neighbors(2) = %v, expected [3]", got)
	}
}

func TestDecodeRecords(t *testing.T) {
	systemsJSON := `[{"id": "30000001", "name": "Alpha", "security": "0.0"}, {"id": 30000002, "security": 0.0}, {"id": "30000003", "security": "0.4"}]`
	systems, err := DecodeSystems(strings.NewReader(systemsJSON))
	if err != nil {
		t.Fatalf("DecodeSystems failed: %v", err)
	}
	if len(systems) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(systems))
	}
	if systems[1].ID != "30000002" || systems[1].Security != "0.0" {
		t.Errorf("numeric fields not kept verbatim: %+v", systems[1])
	}

	connectionsYAML := `
- systemId: "30000001"
  jumpNodes: "30000002:30000003"
- systemId: "30000002"
  jumpNodes: "30000001"
`
	connections, err := DecodeConnections(strings.NewReader(connectionsYAML))
	if err != nil {
		t.Fatalf("DecodeConnections failed: %v", err)
	}
	if len(connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(connections))
	}
	if n := connections[0].Neighbors(":"); !slices.Equal(n, []string{"30000002", "30000003"}) {
		t.Errorf("Neighbors = %v", n)
	}

	empty, err := DecodeSystems(strings.NewReader(""))
	if err != nil || len(empty) != 0 {
		t.Errorf("empty input: got %v, %v", empty, err)
	}
	if _, err := DecodeSystems(strings.NewReader("{not: [valid")); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	systemsPath := filepath.Join(dir, "systems.json")
	connectionsPath := filepath.Join(dir, "connections.json")

	if err := os.WriteFile(systemsPath, []byte(`[{"id": "a", "security": "0.0"}, {"id": "b", "security": "0.0"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(connectionsPath, []byte(`[{"systemId": "a", "jumpNodes": "b"}, {"systemId": "b", "jumpNodes": "a"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadFiles(systemsPath, connectionsPath, BuildOptions{Include: SecurityIs("0.0")})
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}
	if g.SystemCount() != 2 || g.EdgeCount() != 2 {
		t.Errorf("unexpected graph: %d systems, %d edges", g.SystemCount(), g.EdgeCount())
	}

	if _, err := LoadFiles(filepath.Join(dir, "missing.json"), connectionsPath, BuildOptions{}); err == nil {
		t.Error("expected error for missing file")
	}
}

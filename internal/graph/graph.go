// Package graph serves a live-updating visualization of the workspace's
// import DAG (SPEC_FULL.md's "quartz.showImportGraph" command), reached
// over WebSocket the same way the teacher pushes note-graph updates to
// a browser tab. Grounded on internal/graph/graph.go's GraphData/Node/
// Link/broadcastMessage shape, generalized from a note graph to an
// import graph; the teacher's //go:embed static/* page never shipped a
// static/ directory in this tree, so the page is served inline instead.
package graph

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// GraphData holds the nodes and links of the import graph.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node is one handle URI in the import graph. ID must be unique.
type Node struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Link is a directed import edge: Source imports Target.
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// IncrementalMessage is sent over WebSocket to update connected clients.
type IncrementalMessage struct {
	Op    string     `json:"op"` // "init", "add", "update", "deleteNode", "deleteLink"
	Graph *GraphData `json:"graph,omitempty"`
	Node  *Node      `json:"node,omitempty"`
	Link  *Link      `json:"link,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

var (
	graph   = GraphData{Nodes: []Node{}, Links: []Link{}}
	graphMu sync.Mutex

	clients   = make(map[*websocket.Conn]bool)
	clientsMu sync.Mutex
)

// ShowGraph starts an HTTP+WebSocket server on addr (":0" picks a free
// port) and returns the URL a browser should open to view it.
func ShowGraph(addr string) string {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("graph: could not start listener: %v", err)
	}
	actualAddr := l.Addr().String()

	mux := http.NewServeMux()
	mux.HandleFunc("/", serveIndex)
	mux.HandleFunc("/ws", handleWS)

	go func() {
		if err := http.Serve(l, mux); err != nil {
			log.Printf("graph: server error: %v", err)
		}
	}()

	return "http://" + actualAddr + "/"
}

// AddNode adds a node to the graph and broadcasts the change.
func AddNode(node Node) error {
	graphMu.Lock()
	graph.Nodes = append(graph.Nodes, node)
	graphMu.Unlock()
	return broadcastMessage(IncrementalMessage{Op: "add", Node: &node})
}

// AddLink adds an import edge to the graph and broadcasts the change.
func AddLink(link Link) error {
	graphMu.Lock()
	graph.Links = append(graph.Links, link)
	graphMu.Unlock()
	return broadcastMessage(IncrementalMessage{Op: "add", Link: &link})
}

// Reset clears the graph, used when the workspace's import DAG is
// rebuilt wholesale rather than incrementally updated.
func Reset(data GraphData) error {
	graphMu.Lock()
	graph = data
	graphMu.Unlock()
	return broadcastMessage(IncrementalMessage{Op: "init", Graph: &data})
}

// GetGraph returns a snapshot of the current graph.
func GetGraph() GraphData {
	graphMu.Lock()
	defer graphMu.Unlock()
	return GraphData{
		Nodes: append([]Node{}, graph.Nodes...),
		Links: append([]Link{}, graph.Links...),
	}
}

func broadcastMessage(msg IncrementalMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	clientsMu.Lock()
	defer clientsMu.Unlock()
	for conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("graph: broadcast error: %v", err)
			conn.Close()
			delete(clients, conn)
		}
	}
	return nil
}

func handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("graph: ws upgrade error: %v", err)
		return
	}
	clientsMu.Lock()
	clients[conn] = true
	clientsMu.Unlock()
	defer func() {
		clientsMu.Lock()
		delete(clients, conn)
		clientsMu.Unlock()
		conn.Close()
	}()

	state := GetGraph()
	if data, err := json.Marshal(IncrementalMessage{Op: "init", Graph: &state}); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// indexHTML is a minimal force-directed graph viewer: no build step, no
// external assets, just enough canvas rendering to see the import DAG
// update live as files are opened and edited.
const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>quartz import graph</title></head>
<body style="margin:0">
<canvas id="c" style="display:block"></canvas>
<script>
const canvas = document.getElementById("c");
const ctx = canvas.getContext("2d");
function resize() { canvas.width = window.innerWidth; canvas.height = window.innerHeight; }
window.onresize = resize; resize();

let nodes = [], links = [];
function layout() {
  const cx = canvas.width / 2, cy = canvas.height / 2, r = Math.min(cx, cy) - 40;
  nodes.forEach((n, i) => {
    const a = (2 * Math.PI * i) / Math.max(nodes.length, 1);
    n.x = cx + r * Math.cos(a);
    n.y = cy + r * Math.sin(a);
  });
}
function draw() {
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  ctx.strokeStyle = "#888";
  const byId = Object.fromEntries(nodes.map(n => [n.id, n]));
  links.forEach(l => {
    const s = byId[l.source], t = byId[l.target];
    if (!s || !t) return;
    ctx.beginPath(); ctx.moveTo(s.x, s.y); ctx.lineTo(t.x, t.y); ctx.stroke();
  });
  ctx.fillStyle = "#2b6cb0";
  nodes.forEach(n => {
    ctx.beginPath(); ctx.arc(n.x, n.y, 6, 0, 2 * Math.PI); ctx.fill();
    ctx.fillStyle = "#111"; ctx.fillText(n.label, n.x + 8, n.y + 4); ctx.fillStyle = "#2b6cb0";
  });
}
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = ev => {
  const msg = JSON.parse(ev.data);
  if (msg.op === "init") { nodes = msg.graph.nodes; links = msg.graph.links; }
  else if (msg.op === "add" && msg.node) { nodes.push(msg.node); }
  else if (msg.op === "add" && msg.link) { links.push(msg.link); }
  else if (msg.op === "deleteNode") { nodes = nodes.filter(n => n.id !== msg.node.id); }
  layout(); draw();
};
</script>
</body>
</html>`

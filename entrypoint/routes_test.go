package entrypoint

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func expressRoutes(prefix string, n int) string {
	var sb strings.Builder
	sb.WriteString("const app = require('express')()\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "app.get('/%s/%d', handler)\n", prefix, i)
	}
	return sb.String()
}

func TestExtractRoutesCap(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", expressRoutes("a", 15))
	writeFile(t, root, "b.js", expressRoutes("b", 15))

	ix := buildIndex(t, root)
	routes, err := ExtractRoutes(context.Background(), ix, nil, []string{"Express"})
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != MaxRoutes {
		t.Fatalf("routes = %d, want %d", len(routes), MaxRoutes)
	}
	// lexicographic file order: all of a.js, then b.js until the cap
	for i := 0; i < 15; i++ {
		if routes[i].File != "a.js" {
			t.Fatalf("routes[%d].File = %s, want a.js", i, routes[i].File)
		}
	}
	for i := 15; i < MaxRoutes; i++ {
		if routes[i].File != "b.js" {
			t.Fatalf("routes[%d].File = %s, want b.js", i, routes[i].File)
		}
	}
	if routes[0].Method != "GET" || routes[0].Pattern != "/a/0" {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	// routes start on line 2, after the require line
	if routes[0].Line != 2 {
		t.Errorf("routes[0].Line = %d, want 2", routes[0].Line)
	}
}

func TestExtractRoutesMethods(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "api.py", `from fastapi import FastAPI
app = FastAPI()

@app.get("/items")
def list_items(): ...

@app.post("/items")
def create_item(): ...
`)
	writeFile(t, root, "views.py", `from flask import Flask
app = Flask(__name__)

@app.route("/health")
def health(): ...
`)

	ix := buildIndex(t, root)
	routes, err := ExtractRoutes(context.Background(), ix, nil, []string{"FastAPI", "Flask"})
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 3 {
		t.Fatalf("routes = %+v, want 3", routes)
	}
	if routes[0].Method != "GET" || routes[0].Pattern != "/items" {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[1].Method != "POST" {
		t.Errorf("routes[1].Method = %s, want POST", routes[1].Method)
	}
	if routes[2].Method != "GET" || routes[2].Pattern != "/health" {
		t.Errorf("flask route defaults to GET: %+v", routes[2])
	}
}

func TestExtractRoutesNoHints(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", expressRoutes("a", 3))

	ix := buildIndex(t, root)
	routes, err := ExtractRoutes(context.Background(), ix, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if routes == nil || len(routes) != 0 {
		t.Errorf("want empty non-nil result without hints, got %v", routes)
	}
}

func TestExtractRoutesCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", expressRoutes("a", 3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ix := buildIndex(t, root)
	_, err := ExtractRoutes(ctx, ix, nil, []string{"Express"})
	if err == nil {
		t.Errorf("want context error after cancellation")
	}
}

//go:build js && wasm

// Command client is the browser half of the site: it makes the study cards on a page
// drag-and-drop swappable.
//
// Build it into the static directory served by `callouts serve`:
//
//	GOOS=js GOARCH=wasm go build -o data/wasm/client.wasm ./cmd/client
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" data/js/
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/callouts/internal/dnd"
)

func main() {
	logger := log.NewWithOptions(os.Stdout, log.Options{Prefix: "dnd", Level: log.DebugLevel})

	elements, err := dnd.QuerySelectorAll(dnd.DraggableSelector)
	if err != nil {
		logger.Fatal("failed to query draggable elements", "error", err)
	}

	coordinator, err := dnd.Bind(elements, logger)
	if err != nil {
		logger.Fatal("failed to attach drag handlers", "error", err)
	}
	if coordinator == nil {
		return
	}

	logger.Info("drag and drop ready", "members", len(coordinator.Members()))

	select {}
}

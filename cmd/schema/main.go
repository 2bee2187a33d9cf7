// Command schema writes the JSON schema of tubehook config, used by go:generate in pkg/config.
package main

import (
	"encoding/json"
	"os"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/tubehook/pkg/config"
)

func main() {
	out := "schema.json"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	data, err := json.MarshalIndent(config.GenerateSchema(), "", "  ")
	if err != nil {
		log.Printf("[ERROR] can't marshal schema: %v", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o600); err != nil {
		log.Printf("[ERROR] can't write %s: %v", out, err)
		os.Exit(1)
	}
	log.Printf("[INFO] schema written to %s", out)
}

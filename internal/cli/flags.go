package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/rallykit/restapi"
)

// scopeFlags binds --workspace, --project, --scope-up and --scope-down.
type scopeFlags struct {
	fs        *pflag.FlagSet
	workspace string
	project   string
	up        bool
	down      bool
}

func (s *scopeFlags) register(fs *pflag.FlagSet) {
	s.fs = fs
	fs.StringVar(&s.workspace, "workspace", "", "workspace ref, e.g. /workspace/1234")
	fs.StringVar(&s.project, "project", "", "project ref, e.g. /project/5678")
	fs.BoolVar(&s.up, "scope-up", false, "include parent projects")
	fs.BoolVar(&s.down, "scope-down", false, "include child projects")
}

// scope returns the Scope; Up and Down are set only when given.
func (s *scopeFlags) scope() restapi.Scope {
	sc := restapi.Scope{Workspace: s.workspace, Project: s.project}
	if s.fs != nil && s.fs.Changed("scope-up") {
		up := s.up
		sc.Up = &up
	}
	if s.fs != nil && s.fs.Changed("scope-down") {
		down := s.down
		sc.Down = &down
	}
	return sc
}

// parseData decodes --data, which is a JSON object or @file.
func parseData(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, fmt.Errorf("--data is required")
	}
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		data = b
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	return out, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	hookrpc "reader365/internal/modules/hook/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// server appends every event it receives to a JSON-lines file.
type server struct {
	mu   sync.Mutex
	path string
}

func (s *server) GetMetadata(_ context.Context, _ *hookrpc.Empty) (*hookrpc.Metadata, error) {
	return &hookrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"notify"},
	}, nil
}

func (s *server) Notify(_ context.Context, in *hookrpc.NotifyRequest) (*hookrpc.NotifyResponse, error) {
	line, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open hook log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("write hook log: %w", err)
	}
	return &hookrpc.NotifyResponse{Accepted: true, Detail: "appended to " + s.path}, nil
}

func logPath() string {
	if p := os.Getenv("READER365_HOOK_LOG"); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "reader365-hooks.log")
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: hookrpc.HandshakeConfig,
		Plugins:         hookrpc.PluginMap(&server{path: logPath()}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

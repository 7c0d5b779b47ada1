package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	hookrpc "reader365/internal/modules/hook/adapter/out/rpc"
	"reader365/internal/modules/hook/domain"
	hookout "reader365/internal/modules/hook/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"go.uber.org/zap"
)

const defaultStartTimeout = 3 * time.Second

type GRPCHost struct {
	callTimeout time.Duration
	log         *zap.Logger
}

// NewGRPCHost starts hook binaries through go-plugin. Each call launches
// the binary, performs one RPC and kills it.
func NewGRPCHost(callTimeout time.Duration, log *zap.Logger) hookout.Host {
	return &GRPCHost{callTimeout: callTimeout, log: log}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) Notify(ctx context.Context, manifest domain.Manifest, event domain.Event) (domain.Ack, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Ack{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.Notify(callCtx, &hookrpc.NotifyRequest{
		AlarmID:      int32(event.AlarmID),
		Name:         event.Name,
		Message:      event.Message,
		Duration:     int32(event.Duration),
		EyeBreakHint: event.EyeBreakHint,
		FiredAt:      event.FiredAt.Format(time.RFC3339),
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Ack{}, fmt.Errorf("%w: %s", domain.ErrHookTimeout, manifest.Name)
		}
		return domain.Ack{}, fmt.Errorf("notify: %w", err)
	}
	return domain.Ack{Accepted: response.Accepted, Detail: response.Detail}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (hookrpc.NotificationHookClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  hookrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          hookrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.hclogger(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start hook client: %w", err)
	}
	raw, err := rpcClient.Dispense(hookrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense hook: %w", err)
	}
	typed, ok := raw.(hookrpc.NotificationHookClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("hook rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// hclogger routes go-plugin warnings into the zap logger.
func (h *GRPCHost) hclogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "hook." + name,
		Output:     zap.NewStdLog(h.log.Named("hook")).Writer(),
		Level:      hclog.Warn,
		JSONFormat: true,
	})
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.callTimeout)
}

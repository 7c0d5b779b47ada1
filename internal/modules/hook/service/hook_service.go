package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"reader365/internal/modules/hook/domain"
	"reader365/internal/modules/hook/dto"
	hookout "reader365/internal/modules/hook/port/out"
)

type HookService struct {
	store hookout.ManifestStore
	host  hookout.Host
	log   *zap.Logger
}

func NewHookService(store hookout.ManifestStore, host hookout.Host, log *zap.Logger) *HookService {
	return &HookService{store: store, host: host, log: log}
}

func (s *HookService) List(ctx context.Context) ([]dto.HookInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HookInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.HookInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *HookService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Dispatch delivers the event to every enabled hook that declares the
// notify capability. A failing hook does not stop delivery to the others.
func (s *HookService) Dispatch(ctx context.Context, input dto.EventInput) ([]dto.DispatchResult, error) {
	event := domain.Event{
		AlarmID:      input.AlarmID,
		Name:         input.Name,
		Message:      input.Message,
		Duration:     input.Duration,
		EyeBreakHint: input.EyeBreakHint,
		FiredAt:      input.FiredAt,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DispatchResult, 0, len(manifests))
	for _, manifest := range manifests {
		if !manifest.Enabled || !manifest.HasCapability(domain.CapabilityNotify) {
			continue
		}
		result := dto.DispatchResult{Name: manifest.Name}
		ack, err := s.notify(ctx, manifest, event)
		if err != nil {
			result.Error = err.Error()
			s.log.Warn("hook dispatch failed", zap.String("hook", manifest.Name), zap.Error(err))
		} else {
			result.Delivered = ack.Accepted
			result.Detail = ack.Detail
			s.log.Debug("hook dispatched", zap.String("hook", manifest.Name), zap.Bool("accepted", ack.Accepted))
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *HookService) notify(ctx context.Context, manifest domain.Manifest, event domain.Event) (domain.Ack, error) {
	if s.host == nil {
		return domain.Ack{}, fmt.Errorf("hook host is not configured")
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Ack{}, err
	}
	ack, err := s.host.Notify(ctx, manifest, event)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.Ack{}, fmt.Errorf("%w: %s", domain.ErrHookTimeout, manifest.Name)
		}
		return domain.Ack{}, err
	}
	return ack, nil
}

func (s *HookService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate hook name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hook binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Package registry resolves named models to evaluation-ready objects,
// asking the remote registry first (production alias, then highest
// version) and falling back to local checkpoint files. Remote failures
// are never fatal: they degrade to "not found" and are logged.
package registry

import (
	"context"
	"fmt"

	"petrasense/core/logger"
	"petrasense/core/model"
	"petrasense/core/nn"
)

// Resolution reports how (and whether) a model was resolved. Model is
// nil unless a checkpoint was fully materialized.
type Resolution struct {
	Source model.ModelSource
	Model  nn.Model
}

// Found reports whether any model was resolved.
func (r Resolution) Found() bool { return r.Model != nil }

// Adapter combines the remote registry client with the local
// checkpoint directory.
type Adapter struct {
	remote   *Client // nil when remote resolution is disabled
	modelDir string
	product  string
	log      logger.Logger
}

// New builds an adapter. cfg.URL == "" disables the remote path.
func New(cfg Config, modelDir string, log logger.Logger) *Adapter {
	cfg.SetDefaults()
	a := &Adapter{modelDir: modelDir, product: cfg.Product, log: log}
	if cfg.URL != "" {
		a.remote = NewClient(cfg, log)
	}
	return a
}

// ModelName returns the registry naming convention for a model, e.g.
// PetraSense_RUL_PUMP.
func (a *Adapter) ModelName(kind nn.Kind, equipmentType string) string {
	tag := "RUL"
	if kind == nn.KindAnomaly {
		tag = "AE"
	}
	return fmt.Sprintf("%s_%s_%s", a.product, tag, equipmentType)
}

// Exists is the metadata-only query: it confirms that a model can be
// resolved without loading weights into memory.
func (a *Adapter) Exists(ctx context.Context, kind nn.Kind, equipmentType string) bool {
	if a.remote != nil {
		name := a.ModelName(kind, equipmentType)
		if vs, err := a.remote.Versions(ctx, name); err == nil && len(vs) > 0 {
			return true
		} else if err != nil {
			a.log.Debugf("registry probe %s: %v", name, err)
		}
	}
	return localExists(a.modelDir, kind, equipmentType)
}

// Resolve materializes a model: remote production alias, then remote
// highest version, then local checkpoint.
func (a *Adapter) Resolve(ctx context.Context, kind nn.Kind, equipmentType string) Resolution {
	if a.remote != nil {
		if m, ok := a.resolveRemote(ctx, kind, equipmentType); ok {
			return Resolution{Source: model.SourceRegistry, Model: m}
		}
	}
	if m, ok := a.resolveLocal(kind, equipmentType); ok {
		return Resolution{Source: model.SourceLocal, Model: m}
	}
	a.log.Infof("no %s model available for %s", kind, equipmentType)
	return Resolution{Source: model.SourceNone}
}

func (a *Adapter) resolveRemote(ctx context.Context, kind nn.Kind, equipmentType string) (nn.Model, bool) {
	name := a.ModelName(kind, equipmentType)
	versions, err := a.remote.Versions(ctx, name)
	if err != nil {
		a.log.Warnf("registry lookup %s: %v", name, err)
		return nil, false
	}
	if len(versions) == 0 {
		return nil, false
	}

	pick := -1
	for _, v := range versions {
		if v.Alias == "production" {
			pick = v.Version
			break
		}
	}
	if pick < 0 {
		for _, v := range versions {
			if v.Version > pick {
				pick = v.Version
			}
		}
	}

	raw, err := a.remote.Artifact(ctx, name, pick)
	if err != nil {
		a.log.Warnf("registry artifact %s v%d: %v", name, pick, err)
		return nil, false
	}
	m, err := nn.FromCheckpoint(kind, raw)
	if err != nil {
		a.log.Warnf("registry checkpoint %s v%d: %v", name, pick, err)
		return nil, false
	}
	a.log.Infof("loaded %s v%d from registry", name, pick)
	return m, true
}

// ListModels reports the remote registry contents for status queries.
// Without a remote it returns nil.
func (a *Adapter) ListModels(ctx context.Context) []RegisteredModel {
	if a.remote == nil {
		return nil
	}
	models, err := a.remote.Models(ctx)
	if err != nil {
		a.log.Warnf("registry list: %v", err)
		return nil
	}
	return models
}

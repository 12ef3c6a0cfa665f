package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"petrasense/core/nn"
)

// LocalPath returns the deterministic checkpoint location for an
// equipment type and model kind, e.g. models/PUMP_rul_model.json.
func LocalPath(modelDir string, kind nn.Kind, equipmentType string) string {
	tag := "rul"
	if kind == nn.KindAnomaly {
		tag = "ae"
	}
	return filepath.Join(modelDir, fmt.Sprintf("%s_%s_model.json", equipmentType, tag))
}

func localExists(modelDir string, kind nn.Kind, equipmentType string) bool {
	_, err := os.Stat(LocalPath(modelDir, kind, equipmentType))
	return err == nil
}

func (a *Adapter) resolveLocal(kind nn.Kind, equipmentType string) (nn.Model, bool) {
	path := LocalPath(a.modelDir, kind, equipmentType)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.log.Warnf("local checkpoint %s: %v", path, err)
		}
		return nil, false
	}
	m, err := nn.FromCheckpoint(kind, raw)
	if err != nil {
		a.log.Warnf("local checkpoint %s: %v", path, err)
		return nil, false
	}
	a.log.Infof("loaded %s model for %s from %s", kind, equipmentType, path)
	return m, true
}

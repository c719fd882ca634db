package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/config"
	"github.com/pkgdex/pkgdex/internal/logging"
)

// CheckConfig loads and validates the effective configuration. It
// returns the loaded config so later checks can use it.
func (c *Checker) CheckConfig(projectDir string) (*config.Config, CheckResult) {
	result := CheckResult{
		Name:     "config",
		Required: true,
	}

	cfg, err := config.Load(projectDir)
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return nil, result
	}

	result.Status = StatusPass
	result.Message = "OK"
	result.Details = fmt.Sprintf("strategy=%s catalog=%s", cfg.Search.Strategy, cfg.Catalog.Dir)
	return cfg, result
}

// CheckCatalog opens the catalog read-only and counts its contents.
// A missing catalog is a failure; an empty one only warns, since a
// fresh install has simply not imported anything yet.
func (c *Checker) CheckCatalog(ctx context.Context, dir string) CheckResult {
	result := CheckResult{
		Name:     "catalog",
		Required: true,
	}

	cat, err := catalog.Open(dir)
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return result
	}
	defer func() { _ = cat.Close() }()

	origins := cat.Origins()
	if len(origins) == 0 {
		result.Status = StatusWarn
		result.Message = "catalog has no origins; run 'pkgdex catalog import'"
		return result
	}

	total := 0
	for _, origin := range origins {
		count, err := cat.Count(ctx, origin)
		if err != nil {
			result.Status = StatusFail
			result.Message = fmt.Sprintf("origin %q is unreadable: %v", origin, err)
			return result
		}
		total += count
	}

	result.Status = StatusPass
	result.Message = "OK"
	result.Details = fmt.Sprintf("%d packages across %d origins", total, len(origins))
	return result
}

// CheckLogDir verifies the debug log directory is writable. Logging is
// best-effort, so this never fails the run.
func (c *Checker) CheckLogDir() CheckResult {
	result := CheckResult{
		Name:     "log_dir",
		Required: false,
	}

	if err := logging.EnsureLogDir(); err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("cannot create log directory: %v", err)
		return result
	}

	probe := filepath.Join(logging.DefaultLogDir(), ".preflight-probe")
	f, err := os.Create(probe)
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("log directory is not writable: %v", err)
		return result
	}
	_ = f.Close()
	_ = os.Remove(probe)

	result.Status = StatusPass
	result.Message = "OK"
	result.Details = logging.DefaultLogDir()
	return result
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/portal/modules/geo/infrastructure/persistence"
	"github.com/gramseva/portal/modules/geo/services"
	"github.com/gramseva/portal/pkg/eventbus"
)

// useMemoryEnv points openEnv at a fresh in-memory store for the test.
func useMemoryEnv(t *testing.T) {
	t.Helper()
	store := persistence.NewInmemStore()
	districts := persistence.NewInmemDistrictRepository(store)
	villages := persistence.NewInmemVillageRepository(store)
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	imports := services.NewImportService(services.ImportServiceConfig{
		Directory: services.NewDirectory(districts, villages),
		Districts: districts,
		Publisher: eventbus.NewEventPublisher(logger),
		MaxRows:   100,
	})

	prev := openEnv
	openEnv = func(ctx context.Context) (*cliEnv, error) {
		return &cliEnv{ctx: operatorContext(ctx, logger), imports: imports, close: func() {}}, nil
	}
	t.Cleanup(func() { openEnv = prev })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunImport_DryRunThenApply(t *testing.T) {
	useMemoryEnv(t)
	file := writeFile(t, "villages.csv", "District,Village\nPune,Khed\nPune,Baramati\nNashik,Igatpuri\n")

	var out bytes.Buffer
	require.NoError(t, runImport(context.Background(), &out, importOptions{file: file, skipHeader: true}))
	assert.Contains(t, out.String(), "Dry run")
	assert.Contains(t, out.String(), "2 new districts, 0 matched, 3 villages")

	out.Reset()
	require.NoError(t, runImport(context.Background(), &out, importOptions{file: file, skipHeader: true, apply: true}))
	assert.Contains(t, out.String(), "Imported 2 districts and 3 villages")

	out.Reset()
	require.NoError(t, runImport(context.Background(), &out, importOptions{file: file, skipHeader: true}))
	assert.Contains(t, out.String(), "0 new districts, 2 matched, 3 villages")
}

func TestRunImport_NoValidDataExitsUnsuccessful(t *testing.T) {
	useMemoryEnv(t)
	file := writeFile(t, "empty.csv", "District,Village\n,\n")

	var out bytes.Buffer
	err := runImport(context.Background(), &out, importOptions{file: file, skipHeader: true, apply: true, errorLimit: 5})
	require.Error(t, err)
	assert.Equal(t, exitUnsuccessful, exitCode(err))
	assert.ErrorIs(t, err, errUnsuccessful)
}

func TestRunImport_UsageErrors(t *testing.T) {
	useMemoryEnv(t)

	err := runImport(context.Background(), &bytes.Buffer{}, importOptions{})
	assert.Equal(t, exitUsage, exitCode(err))

	err = runImport(context.Background(), &bytes.Buffer{}, importOptions{file: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Equal(t, exitUsage, exitCode(err))

	png := writeFile(t, "logo.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	err = runImport(context.Background(), &bytes.Buffer{}, importOptions{file: png, apply: true})
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestRunExport(t *testing.T) {
	useMemoryEnv(t)
	file := writeFile(t, "villages.csv", "Pune,Khed\nPune,Baramati\n")
	require.NoError(t, runImport(context.Background(), &bytes.Buffer{}, importOptions{file: file, apply: true}))

	var out bytes.Buffer
	require.NoError(t, runExport(context.Background(), &out, exportOptions{format: "csv"}))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out.String(), "\ufeff")), "\n")
	assert.Equal(t, []string{"Pune,Khed", "Pune,Baramati"}, lines)

	xlsx := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, runExport(context.Background(), &bytes.Buffer{}, exportOptions{format: "xlsx", output: xlsx}))
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	err = runExport(context.Background(), &bytes.Buffer{}, exportOptions{format: "ods"})
	assert.Equal(t, exitUsage, exitCode(err))
	err = runExport(context.Background(), &bytes.Buffer{}, exportOptions{format: "xlsx"})
	assert.Equal(t, exitUsage, exitCode(err))
}

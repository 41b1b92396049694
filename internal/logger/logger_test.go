package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}
	return records
}

func TestLevelFromString(t *testing.T) {
	require.Equal(t, NONE, LevelFromString("NONE"))
	require.Equal(t, ERROR, LevelFromString("error"))
	require.Equal(t, WARNING, LevelFromString("WARN"))
	require.Equal(t, WARNING, LevelFromString("Warning"))
	require.Equal(t, INFO, LevelFromString(" INFO "))
	require.Equal(t, TRACE, LevelFromString("TRACE"))
	require.Equal(t, DEBUG, LevelFromString("unknown"))
	require.Equal(t, "INFO", INFO.String())
}

func TestLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, UpdateGlobalConfig(GlobalConfig{
		DefaultLevel:  WARNING,
		PackageLevels: map[string]LogLevel{"chatty": DEBUG},
		Format:        FormatJSON,
		Writer:        buf,
	}))
	t.Cleanup(func() { require.NoError(t, UpdateGlobalConfig(DefaultConfig())) })

	quiet := Create("quiet")
	quiet.Info("not logged")
	quiet.Warning("logged %d", 1)

	chatty := Create("chatty")
	chatty.Debug("debug from chatty")

	records := decodeRecords(t, buf)
	require.Len(t, records, 2)
	require.Equal(t, "logged 1", records[0]["message"])
	require.Equal(t, "quiet", records[0]["logger"])
	require.Equal(t, "warn", records[0]["level"])
	require.Equal(t, "debug from chatty", records[1]["message"])

	buf.Reset()
	quiet.ChangeLevel(NONE)
	quiet.Error("dropped")
	require.Empty(t, buf.String())
}

func TestSetContext(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, UpdateGlobalConfig(GlobalConfig{DefaultLevel: INFO, Format: FormatJSON, Writer: buf}))
	t.Cleanup(func() { require.NoError(t, UpdateGlobalConfig(DefaultConfig())) })

	l := Create("ctx test")
	SetContext("chain", "optimism-sepolia")
	l.Info("with context")
	ClearContext("chain")
	l.Info("without context")

	records := decodeRecords(t, buf)
	require.Len(t, records, 2)
	require.Equal(t, "ctx_test", records[0]["logger"])
	require.Equal(t, "optimism-sepolia", records[0]["chain"])
	require.NotContains(t, records[1], "chain")
}

func TestSetContext_whileLogging(t *testing.T) {
	require.NoError(t, UpdateGlobalConfig(GlobalConfig{DefaultLevel: TRACE, Format: FormatJSON, Writer: io.Discard}))
	t.Cleanup(func() { require.NoError(t, UpdateGlobalConfig(DefaultConfig())) })

	l := Create("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Debug("goroutine %d message %d", n, j)
			}
		}(i)
	}
	for i := 0; i < 100; i++ {
		SetContext("request", i)
		if i%10 == 0 {
			l.(*ContextLogger).ChangeLevel(DEBUG)
		}
	}
	ClearContext("request")
	wg.Wait()
}

func TestLoadGlobalConfig(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "logger-config.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
defaultLevel: ERROR
format: json
outputPath: discard
packageLevels:
  internal_server: TRACE
`), 0600))

	cfg, err := LoadGlobalConfig(fn)
	require.NoError(t, err)
	require.Equal(t, ERROR, cfg.DefaultLevel)
	require.Equal(t, FormatJSON, cfg.Format)
	require.Equal(t, "discard", cfg.OutputPath)
	require.Equal(t, TRACE, cfg.PackageLevels["internal_server"])

	require.NoError(t, os.WriteFile(fn, []byte("format: xml\n"), 0600))
	_, err = LoadGlobalConfig(fn)
	require.ErrorContains(t, err, `unsupported log format "xml"`)

	_, err = LoadGlobalConfig(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPackageName(t *testing.T) {
	r := &PackageNameResolver{BasePackage: "github.com/cryptograss/stonemint", Depth: 1}
	require.Equal(t, "internal/logger", r.PackageName())
}

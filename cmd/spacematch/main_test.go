package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HerbHall/spacematch/internal/catalog"
	"github.com/HerbHall/spacematch/internal/config"
	"github.com/HerbHall/spacematch/internal/match"
	"github.com/HerbHall/spacematch/internal/questions"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMatchCommand_Exact(t *testing.T) {
	out, err := execute(t, "", "match", "--capacity", "2 a 4", "--privacy", "privado", "--equipment", "wifi")
	require.NoError(t, err)
	assert.Contains(t, out, "4 espacio(s) coinciden")
	assert.Contains(t, out, "Cabina individual")
	assert.NotContains(t, out, "Patio")
}

func TestMatchCommand_JSONNear(t *testing.T) {
	out, err := execute(t, "", "match", "--capacity", "Más de 20", "--privacy", "privado",
		"--equipment", "horno,proyector", "--json")
	require.NoError(t, err)

	var resp catalog.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, match.ModeNear, resp.Mode)
	assert.Equal(t, 2, resp.Count)
}

func TestMatchCommand_Explain(t *testing.T) {
	out, err := execute(t, "", "match", "--capacity", "8-20", "--privacy", "semi", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "PUNTAJE")
	assert.Contains(t, out, "Cocina comunitaria")
}

func TestMatchCommand_InvalidPrivacy(t *testing.T) {
	_, err := execute(t, "", "match", "--capacity", "2 a 4", "--privacy", "secreto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "privacidad")
}

func TestMatchCommand_MissingFlags(t *testing.T) {
	_, err := execute(t, "", "match", "--privacy", "semi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")
}

func TestMatchCommand_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "espacios.json")
	data := `[{"nombre":"Depósito","capacidad":{"min":1,"max":3},"privacidad":"privado","equipamiento":["estantes"]}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, err := execute(t, "", "match", "--catalog", path, "--capacity", "2 personas",
		"--privacy", "privado", "--equipment", "Estantes", "--json")
	require.NoError(t, err)

	var resp catalog.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, match.ModeExact, resp.Mode)
	require.Len(t, resp.Spaces, 1)
	assert.Equal(t, "Depósito", resp.Spaces[0].Name)
}

func TestMatchCommand_MissingCatalog(t *testing.T) {
	_, err := execute(t, "", "match", "--catalog", filepath.Join(t.TempDir(), "nope.yaml"),
		"--capacity", "2 a 4", "--privacy", "semi")
	require.Error(t, err)
}

func TestQuestionsCommand(t *testing.T) {
	out, err := execute(t, "", "questions")
	require.NoError(t, err)
	assert.Contains(t, out, "1. ¿Para cuántas personas será el espacio? [capacidad]")
	assert.Contains(t, out, "Más de 20")
	assert.Contains(t, out, "separadas por coma")

	out, err = execute(t, "", "questions", "--json")
	require.NoError(t, err)
	var qs []questions.Question
	require.NoError(t, json.Unmarshal([]byte(out), &qs))
	assert.Len(t, qs, 3)
}

func TestAskCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"by number", "2\n3\nwifi\n"},
		{"by name", "2 a 4\nPRIVADO\nWiFi\n"},
		{"back and retry", "1\natrás\n2\n3\nwifi\n"},
		{"reset", "1\nsemi\nreiniciar\n2\nprivado\nwifi\n"},
		{"unknown option then valid", "9\n2\nsecreto\nprivado\nwifi\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.input, "ask")
			require.NoError(t, err)
			assert.Contains(t, out, "4 espacio(s) coinciden")
		})
	}
}

func TestAskCommand_ReportsUnknownOption(t *testing.T) {
	out, err := execute(t, "9\n2\nprivado\nwifi\n", "ask")
	require.NoError(t, err)
	assert.Contains(t, out, "unknown option")
}

func TestAskCommand_InputClosed(t *testing.T) {
	_, err := execute(t, "2\n", "ask")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInputClosed))
}

func TestAnswerValues(t *testing.T) {
	q := questions.Question{Kind: questions.KindMultiple, Options: []string{"pizarra", "tv", "wifi"}}
	assert.Equal(t, []string{"tv", "wifi"}, answerValues(q, "2, wifi"))
	assert.Equal(t, []string{"7"}, answerValues(q, "7"))
	assert.Empty(t, answerValues(q, " , "))

	single := questions.Question{Kind: questions.KindSingle, Options: []string{"público", "semi"}}
	assert.Equal(t, []string{"semi, público"}, answerValues(single, "semi, público"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "spacematch "))

	out, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "spacematch", info["name"])
}

func defaultConfig() *config.Config {
	v := viper.New()
	config.SetDefaults(v)
	return config.New(v)
}

func TestPolicyFromConfig(t *testing.T) {
	p, err := policyFromConfig(defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, match.DefaultPolicy(), p)

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"qualify score too high", "match.qualify_score", 9},
		{"qualify score zero", "match.qualify_score", 0},
		{"negative near threshold", "match.near_threshold", -0.5},
		{"NaN near threshold", "match.near_threshold", math.NaN()},
		{"infinite near threshold", "match.near_threshold", math.Inf(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Set(tc.key, tc.value)
			_, err := policyFromConfig(cfg)
			assert.Error(t, err)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spacematch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMatchCommand_UsesConfiguredPolicy(t *testing.T) {
	args := []string{"match", "--capacity", "2 a 4", "--privacy", "privado", "--equipment", "wifi", "--json"}

	out, err := execute(t, "", args...)
	require.NoError(t, err)
	var resp catalog.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 4, resp.Count)

	path := writeConfig(t, "match:\n  qualify_score: 4\n")
	out, err = execute(t, "", append(args, "--config", path)...)
	require.NoError(t, err)
	resp = catalog.MatchResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Count, "a perfect score is required")
	assert.NotContains(t, names(resp), "Sala de reuniones grande")
}

func TestMatchCommand_InvalidConfiguredPolicy(t *testing.T) {
	path := writeConfig(t, "match:\n  near_threshold: -1\n")
	_, err := execute(t, "", "match", "--config", path, "--capacity", "2 a 4", "--privacy", "semi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "near_threshold")
}

func TestMatchCommand_ConfiguredCatalogPath(t *testing.T) {
	catalogFile := filepath.Join(t.TempDir(), "espacios.json")
	data := `[{"nombre":"Depósito","capacidad":"1-3","privacidad":"privado","equipamiento":"estantes"}]`
	require.NoError(t, os.WriteFile(catalogFile, []byte(data), 0o600))
	path := writeConfig(t, "catalog:\n  path: "+catalogFile+"\n")

	out, err := execute(t, "", "match", "--config", path, "--capacity", "2 personas",
		"--privacy", "privado", "--equipment", "estantes", "--json")
	require.NoError(t, err)
	var resp catalog.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"Depósito"}, names(resp))
}

func TestAskCommand_UsesConfiguredPolicy(t *testing.T) {
	path := writeConfig(t, "match:\n  qualify_score: 4\n")
	out, err := execute(t, "2\nprivado\nwifi\n", "ask", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 espacio(s) coinciden")
}

func names(resp catalog.MatchResponse) []string {
	out := make([]string, len(resp.Spaces))
	for i := range resp.Spaces {
		out[i] = resp.Spaces[i].Name
	}
	return out
}

func TestBuildServer(t *testing.T) {
	srv, err := buildServer(defaultConfig(), "127.0.0.1:0", zap.NewNop())
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/health", "/api/v1/spaces", "/api/v1/questions", "/metrics"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	body := `{"capacidad":"2 a 4","privacidad":"privado","equipamiento":["wifi"]}`
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/matches", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, w.Body.String(), `spacematch_rankings_total{mode="exact"} 1`)
}

func TestBuildServer_BadCatalog(t *testing.T) {
	cfg := defaultConfig()
	cfg.Set("catalog.path", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := buildServer(cfg, "127.0.0.1:0", zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

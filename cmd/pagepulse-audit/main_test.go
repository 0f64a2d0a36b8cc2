package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pagepulse/internal/log"
)

func TestMain(m *testing.M) {
	log.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("pagepulse-audit version %s\n", version), out)
}

func TestAuditCmdJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Docs</title></head><body><h1>Docs</h1><a href="/a">a</a></body></html>`)
	}))
	defer srv.Close()

	out, err := execute("audit", srv.URL, "--pro", "-o", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Docs", report["title"])
	assert.Contains(t, report, "fixCode")
	assert.Contains(t, report, "proAnalysis")
}

func TestAuditCmdErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Missing URL", []string{"audit"}, "accepts 1 arg"},
		{"Bad format", []string{"audit", srv.URL, "-o", "xml"}, "unknown output format"},
		{"Bad scheme", []string{"audit", "ftp://example.com", "-o", "json"}, "invalid URL"},
		{"Server error", []string{"audit", srv.URL, "-o", "json"}, "unable to fetch page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

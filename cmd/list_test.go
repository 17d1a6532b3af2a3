package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-tracker/config"
	"job-tracker/domain"
)

func TestPrintApplicationTable(t *testing.T) {
	color.NoColor = true

	followUp := domain.NewDate(2025, time.March, 10)
	updated := time.Date(2025, time.March, 3, 14, 5, 0, 0, time.UTC)
	apps := []domain.Application{
		{ID: 2, Company: "Globex", Role: "SRE", Status: domain.StatusOnsite, NextFollowUp: &followUp, UpdatedAt: updated},
		{ID: 1, Company: "Acme", Role: "Engineer", Status: domain.StatusApplied, UpdatedAt: updated.Add(-time.Hour)},
	}

	var buf bytes.Buffer
	printApplicationTable(&buf, apps)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasSuffix(lines[0], "STATUS"))

	assert.Contains(t, lines[1], "Globex")
	assert.Contains(t, lines[1], "2025-03-10")
	assert.Contains(t, lines[1], "2025-03-03 14:05")
	assert.True(t, strings.HasSuffix(lines[1], "Onsite"))

	assert.Contains(t, lines[2], "Acme")
	assert.Contains(t, lines[2], " - ")
	assert.True(t, strings.HasSuffix(lines[2], "Applied"))

	assert.Equal(t, "Total: 2 application(s)", lines[3])
}

func TestPrintApplicationTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	printApplicationTable(&buf, nil)
	assert.Equal(t, "No applications found.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Acme", truncate("Acme", 10))
	assert.Equal(t, "0123456789", truncate("0123456789", 10))
	assert.Equal(t, "0123456...", truncate("0123456789A", 10))
	assert.Equal(t, "ééé...", truncate("ééééééé", 6))
}

func TestRunList_FreshDatabase(t *testing.T) {
	cfg = &config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "tracker.db"),
	}
	t.Cleanup(func() { cfg, listJSON = nil, false })

	var buf bytes.Buffer
	require.NoError(t, runList(context.Background(), &buf))
	assert.Equal(t, "No applications found.\n", buf.String())

	listJSON = true
	buf.Reset()
	require.NoError(t, runList(context.Background(), &buf))
	assert.JSONEq(t, `[]`, buf.String())
}

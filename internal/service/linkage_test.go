package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkageGateAnswers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	report := env.recordReport(t, 97.5)
	ok, err := env.gate.CanLinkChallanToReport(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	challan := env.issueChallan(t, env.horn.ID, &report.ID)
	ok, err = env.gate.CanLinkChallanToReport(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.gate.CanLinkFirToChallan(ctx, challan.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	parking := env.issueChallan(t, env.parking.ID, nil)
	ok, err = env.gate.CanLinkFirToChallan(ctx, parking.ID)
	require.NoError(t, err)
	assert.False(t, ok, "non-cognizable violations cannot be escalated")

	ok, err = env.gate.CanLinkFirToChallan(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	fir := env.fileFir(t, challan.ID)
	ok, err = env.gate.CanLinkFirToChallan(ctx, challan.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.gate.CanLinkCaseToFir(ctx, fir.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	env.openCase(t, fir.ID)
	ok, err = env.gate.CanLinkCaseToFir(ctx, fir.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

package services

import (
	"context"
	"encoding/json"
	"testing"

	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_RecordsEventWithDiff(t *testing.T) {
	env := newTestEnv()

	env.auditSvc.Track(context.Background(), EventFormCreated, env.admin.ID,
		"Form oluşturuldu: Ön Eleme", map[string]interface{}{"form_id": 12})

	require.Len(t, env.store.audits, 1)
	entry := env.store.audits[0]
	assert.Equal(t, EventFormCreated, entry.Event)
	assert.Equal(t, env.admin.ID, entry.ActorID)
	assert.NotEmpty(t, entry.EventID)

	var diff map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(entry.Diff), &diff))
	assert.EqualValues(t, 12, diff["form_id"])
}

func TestGetTrail_SystemRoleOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.formSvc.CreateForm(ctx, env.admin.ID, models.Form{
		Type: models.FormTypeScreening, Title: "Ön Eleme",
	})
	require.NoError(t, err)

	result, err := env.auditSvc.GetTrail(ctx, env.admin.ID, queryparams.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(env.store.audits)), result.Meta.TotalItems)

	entries, ok := result.Data.([]models.AuditLog)
	require.True(t, ok)
	assert.NotEmpty(t, entries)

	// Sistem rolü olmayan aktif kullanıcı okuyamaz.
	_, err = env.auditSvc.GetTrail(ctx, env.viewer.ID, queryparams.ListParams{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

package voter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("test-secret", 24)

	token, voterID, err := svc.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, voterID)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, voterID, got)
}

func TestIssueGeneratesDistinctVoterIDs(t *testing.T) {
	svc := NewService("test-secret", 24)

	_, first, err := svc.Issue()
	require.NoError(t, err)
	_, second, err := svc.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := NewService("secret-a", 24).Issue()
	require.NoError(t, err)

	_, err = NewService("secret-b", 24).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", 24)
	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterDTO_NormalizeAndValidate(t *testing.T) {
	v := NewValidator()

	d := RegisterDTO{Username: "  Alice ", Email: " Alice@X.com", Password: "Secret1!", FullName: " Alice A "}
	d.Normalize()
	require.Equal(t, "alice", d.Username)
	require.Equal(t, "alice@x.com", d.Email)
	require.Equal(t, "Alice A", d.FullName)
	require.NoError(t, v.Struct(d))
}

func TestHandleRule(t *testing.T) {
	v := NewValidator()
	for _, ok := range []string{"alice", "a.b_c-d", "user123"} {
		require.NoError(t, v.Var(ok, "handle"), ok)
	}
	for _, bad := range []string{"ab", "has space", "UPPER", "_lead", "slash/es"} {
		require.Error(t, v.Var(bad, "handle"), bad)
	}
}

func TestChangePasswordDTO_MustDiffer(t *testing.T) {
	v := NewValidator()
	require.Error(t, v.Struct(ChangePasswordDTO{OldPassword: "same", NewPassword: "same"}))
	require.NoError(t, v.Struct(ChangePasswordDTO{OldPassword: "old", NewPassword: "new"}))
}

func TestPasswordLimitCountsBytes(t *testing.T) {
	v := NewValidator()
	base := RegisterDTO{Username: "alice", Email: "alice@x.com", FullName: "Alice"}

	ascii := base
	ascii.Password = strings.Repeat("a", 72)
	require.NoError(t, v.Struct(ascii))

	wide := base
	wide.Password = strings.Repeat("é", 40)
	require.Error(t, v.Struct(wide), "40 runes are 80 bytes")

	require.Error(t, v.Struct(ChangePasswordDTO{OldPassword: "old", NewPassword: strings.Repeat("ж", 37)}))
}

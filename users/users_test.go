package users_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jrsteele09/go-crypto-dash/users"
	fakeuserrepo "github.com/jrsteele09/go-crypto-dash/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Short1", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoNumbersHere", true},
		{"Correct1Horse", false},
		{"Correct1Horse" + strings.Repeat("x", 64), true},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, users.ErrWeakPassword)
				var pe *users.PasswordError
				require.ErrorAs(t, err, &pe)
				require.Equal(t, pe.Reason, err.Error())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewHashesPassword(t *testing.T) {
	u, err := users.New(" alice ", "alice@example.com", "Correct1Horse", true)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.NotEmpty(t, u.ID)
	require.NotEqual(t, "Correct1Horse", u.PasswordHash)
	require.True(t, u.CheckPassword("Correct1Horse"))
	require.False(t, u.CheckPassword("wrong"))
	require.True(t, u.IsSuperuser)

	_, err = users.New("bob", "bob@example.com", "weak", false)
	require.ErrorIs(t, err, users.ErrWeakPassword)
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	for _, name := range []string{"carol", "alice", "bob"} {
		u, err := users.New(name, name+"@example.com", "Correct1Horse", false)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(u))
	}

	alice, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	byID, err := repo.GetByID(alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice, byID)

	require.NoError(t, repo.SetLastLogin("alice"))
	require.True(t, alice.LastLogin.IsZero(), "returned users are copies")
	alice, err = repo.GetByUsername("alice")
	require.NoError(t, err)
	require.False(t, alice.LastLogin.IsZero())

	page, err := repo.List(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "bob", page[0].Username)

	require.NoError(t, repo.Delete("alice"))
	_, err = repo.GetByUsername("alice")
	require.ErrorIs(t, err, users.ErrNotFound)
	require.ErrorIs(t, repo.Delete("alice"), users.ErrNotFound)
	require.ErrorIs(t, repo.SetLastLogin("alice"), users.ErrNotFound)
}

// Run with -race: a login stamping LastLogin while the admin list is encoded
// must not share memory.
func TestFakeUserRepoReadsAreCopies(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u, err := users.New("alice", "alice@example.com", "Correct1Horse", false)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(u))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = repo.SetLastLogin("alice")
		}
	}()
	for i := 0; i < 200; i++ {
		list, err := repo.List(0, 0)
		require.NoError(t, err)
		_, err = json.Marshal(list)
		require.NoError(t, err)
	}
	<-done

	u.Username = "mallory"
	stored, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", stored.Username)
}

package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/services"
)

type fakeProfiles struct {
	profile *services.Profile
	getErr  error

	saved *services.Profile
	kyc   *services.KYC
	perms map[string]bool
}

func (f *fakeProfiles) Get(context.Context) (*services.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.profile
	return &cp, nil
}

func (f *fakeProfiles) Save(_ context.Context, p services.Profile) error {
	f.saved = &p
	return nil
}

func (f *fakeProfiles) SaveKYC(_ context.Context, k services.KYC) error {
	f.kyc = &k
	return nil
}

func (f *fakeProfiles) SavePermissions(_ context.Context, perms map[string]bool) error {
	f.perms = perms
	return nil
}

func TestProfile_Prints(t *testing.T) {
	dob := "1990-01-02"
	a, out := newTestApp()
	a.profiles = &fakeProfiles{profile: &services.Profile{FirstName: "Asha", LastName: "Rao", Email: "asha@example.org", DateOfBirth: &dob, City: "Pune"}}

	require.NoError(t, a.Profile(context.Background()))
	assert.Contains(t, out.String(), "Asha Rao")
	assert.Contains(t, out.String(), "asha@example.org")
	assert.Contains(t, out.String(), "1990-01-02")
	assert.Contains(t, out.String(), "Pune")
}

func TestProfile_Error(t *testing.T) {
	a, _ := newTestApp()
	a.profiles = &fakeProfiles{getErr: apierr.AuthenticationExpired(nil)}

	err := a.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.IsAuthenticationExpired(err))
}

func TestEditProfile_EmptyAnswerKeepsValue(t *testing.T) {
	f := &fakeProfiles{profile: &services.Profile{FirstName: "Asha", LastName: "Rao", City: "Pune"}}
	a, _ := newTestApp()
	a.profiles = f

	prompts := stubInputs(t, "", "Kumar", "", "Mumbai", "", "")

	require.NoError(t, a.EditProfile(context.Background()))
	require.NotNil(t, f.saved)
	assert.Equal(t, "Asha", f.saved.FirstName)
	assert.Equal(t, "Kumar", f.saved.LastName)
	assert.Equal(t, "Mumbai", f.saved.City)
	assert.Equal(t, "First name [Asha]", (*prompts)[0])
}

func TestKYC_CollectsAllFields(t *testing.T) {
	f := &fakeProfiles{}
	a, out := newTestApp()
	a.profiles = f

	stubInputs(t, "1111", "Asha Rao", "1990-01-02", "ABCDE1234F", "0001", "Bank", "IFSC0001", "9999999999", "asha@example.org")

	require.NoError(t, a.KYC(context.Background()))
	require.NotNil(t, f.kyc)
	assert.Equal(t, services.KYC{
		Aadhaar: "1111", AadhaarName: "Asha Rao", DOB: "1990-01-02", PAN: "ABCDE1234F",
		BankAccount: "0001", BankName: "Bank", IFSC: "IFSC0001", Mobile: "9999999999", Email: "asha@example.org",
	}, *f.kyc)
	assert.Contains(t, out.String(), "KYC details submitted")
}

func TestKYC_InputErrorAborts(t *testing.T) {
	f := &fakeProfiles{}
	a, _ := newTestApp()
	a.profiles = f

	stubInputs(t, "1111")

	require.Error(t, a.KYC(context.Background()))
	assert.Nil(t, f.kyc)
}

func TestPermissions(t *testing.T) {
	f := &fakeProfiles{}
	a, _ := newTestApp()
	a.profiles = f
	a.reader = bufio.NewReader(strings.NewReader("sms=on\nemail = off\n\n"))

	require.NoError(t, a.Permissions(context.Background()))
	assert.Equal(t, map[string]bool{"sms": true, "email": false}, f.perms)
}

func TestParsePermissions(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    map[string]bool
		wantErr bool
	}{
		{name: "yes/no", lines: []string{"a=yes", "b=no"}, want: map[string]bool{"a": true, "b": false}},
		{name: "numeric", lines: []string{"a=1", "b=0"}, want: map[string]bool{"a": true, "b": false}},
		{name: "empty", lines: nil, want: map[string]bool{}},
		{name: "missing equals", lines: []string{"a"}, wantErr: true},
		{name: "missing name", lines: []string{"=on"}, wantErr: true},
		{name: "bad value", lines: []string{"a=maybe"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePermissions(tt.lines)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apierr.ErrApplication)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

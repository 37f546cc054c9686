package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/services"
	"github.com/dmitrijs2005/cinepass/internal/logging"
)

// stubInputs replaces getSimpleText with a function returning answers in
// order. Running out of answers returns io.EOF.
func stubInputs(t *testing.T, answers ...string) *[]string {
	t.Helper()
	var prompts []string
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
	return &prompts
}

type fakeAuth struct {
	loggedIn bool

	regIdentifier string
	regMsg        string
	regErr        error

	verifyIdentifier, verifyOTP string
	verifyUser                  *services.User
	verifyErr                   error

	identified []string
	identErr   error

	signOutCalled bool
	signOutErr    error
}

func (f *fakeAuth) Register(_ context.Context, identifier string) (string, error) {
	f.regIdentifier = identifier
	return f.regMsg, f.regErr
}

func (f *fakeAuth) VerifyOTP(_ context.Context, identifier, otp string) (*services.User, error) {
	f.verifyIdentifier, f.verifyOTP = identifier, otp
	if f.verifyErr == nil {
		f.loggedIn = true
	}
	return f.verifyUser, f.verifyErr
}

func (f *fakeAuth) IdentifyRegister(_ context.Context, identifier string) error {
	f.identified = append(f.identified, "register:"+identifier)
	return f.identErr
}

func (f *fakeAuth) IdentifyVerifyOTP(_ context.Context, identifier, otp string) error {
	f.identified = append(f.identified, "verify:"+identifier+":"+otp)
	return nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.signOutCalled = true
	f.loggedIn = false
	return f.signOutErr
}

func (f *fakeAuth) Status(context.Context) services.SessionStatus {
	if f.loggedIn {
		return services.StatusAuthenticated
	}
	return services.StatusUnauthenticated
}

func newTestApp() (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		log:    logging.NewDiscard(),
		reader: bufio.NewReader(strings.NewReader("")),
		out:    &out,
	}, &out
}

func TestLogin_Success(t *testing.T) {
	f := &fakeAuth{regMsg: "OTP sent", verifyUser: &services.User{FirstName: "Asha"}}
	a, out := newTestApp()
	a.auth = f

	stubInputs(t, "+911234567890", "123456")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "+911234567890", f.regIdentifier)
	assert.Equal(t, "+911234567890", f.verifyIdentifier)
	assert.Equal(t, "123456", f.verifyOTP)
	assert.Contains(t, out.String(), "OTP sent")
	assert.Contains(t, out.String(), "Signed in as Asha")
	assert.Equal(t, "(Asha )", a.getStatus())
	assert.True(t, a.isLoggedIn(context.Background()))
}

func TestLogin_FallsBackToIdentifierForName(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp()
	a.auth = f

	stubInputs(t, "me@example.org", "000000")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "(me@example.org )", a.getStatus())
}

func TestLogin_EmptyIdentifier(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp()
	a.auth = f

	stubInputs(t, "")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrApplication)
	assert.Empty(t, f.regIdentifier)
}

func TestLogin_RegisterErrorStopsFlow(t *testing.T) {
	f := &fakeAuth{regErr: apierr.ServerError(429, "Too many attempts", nil)}
	a, _ := newTestApp()
	a.auth = f

	prompts := stubInputs(t, "me@example.org", "000000")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Too many attempts", apierr.Message(err, ""))
	assert.Len(t, *prompts, 1, "OTP must not be asked for")
	assert.Empty(t, f.verifyOTP)
}

func TestLogin_VerifyError(t *testing.T) {
	f := &fakeAuth{verifyErr: apierr.Application("Invalid OTP", nil)}
	a, _ := newTestApp()
	a.auth = f

	stubInputs(t, "me@example.org", "999999")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Empty(t, a.getStatus())
}

func TestIdentify(t *testing.T) {
	f := &fakeAuth{loggedIn: true}
	a, out := newTestApp()
	a.auth = f

	stubInputs(t, "alt@example.org", "4242")

	require.NoError(t, a.Identify(context.Background()))
	assert.Equal(t, []string{"register:alt@example.org", "verify:alt@example.org:4242"}, f.identified)
	assert.Contains(t, out.String(), "Identifier verified")
}

func TestIdentify_RegisterError(t *testing.T) {
	f := &fakeAuth{loggedIn: true, identErr: errors.New("boom")}
	a, _ := newTestApp()
	a.auth = f

	stubInputs(t, "alt@example.org", "4242")

	require.Error(t, a.Identify(context.Background()))
	assert.Equal(t, []string{"register:alt@example.org"}, f.identified)
}

func TestLogout(t *testing.T) {
	f := &fakeAuth{loggedIn: true}
	a, _ := newTestApp()
	a.auth = f
	a.setUserName("Asha")

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, f.signOutCalled)
	assert.Empty(t, a.getStatus())
	assert.False(t, a.isLoggedIn(context.Background()))
}

func TestLogout_ErrorPropagatesButClearsName(t *testing.T) {
	f := &fakeAuth{loggedIn: true, signOutErr: apierr.NetworkFailure(errors.New("dial"))}
	a, out := newTestApp()
	a.auth = f
	a.setUserName("Asha")

	err := a.Logout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrNetworkFailure)
	assert.Empty(t, a.getStatus())
	assert.Contains(t, out.String(), "Signed out")
}
